package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/interviews/internal/calfeed"
	"github.com/dukerupert/interviews/internal/scheduler"
)

type FeedHandler struct {
	svc    *scheduler.Service
	clock  Clock
	domain string
	logger *slog.Logger
}

func NewFeedHandler(svc *scheduler.Service, clock Clock, domain string, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{svc: svc, clock: clock, domain: domain, logger: logger}
}

// ICS serves every meeting as text/calendar.
func (h *FeedHandler) ICS(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.svc.All()
	if err != nil {
		h.logger.Error("list meetings for feed", "error", err)
		http.Error(w, "failed to load meetings", http.StatusInternalServerError)
		return
	}

	if len(meetings) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="interviews.ics"`)
	if err := calfeed.Write(w, meetings, h.clock.location(), h.domain, h.clock.current()); err != nil {
		h.logger.Error("write feed", "error", err)
	}
}
