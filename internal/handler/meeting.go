package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/interviews/internal/schedule"
	"github.com/dukerupert/interviews/internal/scheduler"
)

// MeetingHandler is the JSON API over the scheduler.
type MeetingHandler struct {
	svc    *scheduler.Service
	clock  Clock
	logger *slog.Logger
}

func NewMeetingHandler(svc *scheduler.Service, clock Clock, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{svc: svc, clock: clock, logger: logger}
}

type meetingRequest struct {
	Title         string `json:"title"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	ApplicantName string `json:"applicant_name"`
	JobTitle      string `json:"job_title"`
	ApplicantID   *int64 `json:"applicant_id"`
	JobID         *int64 `json:"job_id"`
}

func (h *MeetingHandler) decode(w http.ResponseWriter, r *http.Request, id int64) (schedule.Meeting, bool) {
	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return schedule.Meeting{}, false
	}

	m := schedule.Meeting{
		ID:            id,
		Title:         strings.TrimSpace(req.Title),
		ApplicantName: strings.TrimSpace(req.ApplicantName),
		JobTitle:      strings.TrimSpace(req.JobTitle),
		ApplicantID:   req.ApplicantID,
		JobID:         req.JobID,
	}
	if m.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return schedule.Meeting{}, false
	}
	var err error
	if m.Date, err = schedule.ParseDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return schedule.Meeting{}, false
	}
	if m.StartTime, err = schedule.ParseTimeOfDay(req.StartTime); err != nil {
		writeError(w, http.StatusBadRequest, "start_time must be HH:MM")
		return schedule.Meeting{}, false
	}
	if m.EndTime, err = schedule.ParseTimeOfDay(req.EndTime); err != nil {
		writeError(w, http.StatusBadRequest, "end_time must be HH:MM")
		return schedule.Meeting{}, false
	}
	return m, true
}

func (h *MeetingHandler) save(w http.ResponseWriter, m schedule.Meeting, status int) {
	saved, err := h.svc.Save(m)
	switch {
	case errors.Is(err, schedule.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, schedule.Message(err))
	case errors.Is(err, schedule.ErrConflict):
		writeError(w, http.StatusConflict, schedule.Message(err))
	case errors.Is(err, scheduler.ErrNotFound):
		writeError(w, http.StatusNotFound, "meeting not found")
	case err != nil:
		h.logger.Error("save meeting", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save meeting")
	default:
		writeJSON(w, status, saved)
	}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	m, ok := h.decode(w, r, 0)
	if !ok {
		return
	}
	h.save(w, m, http.StatusCreated)
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	m, ok := h.decode(w, r, id)
	if !ok {
		return
	}
	h.save(w, m, http.StatusOK)
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.svc.All()
	if err != nil {
		h.logger.Error("list meetings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	if meetings == nil {
		meetings = []schedule.Meeting{}
	}
	writeJSON(w, http.StatusOK, meetings)
}

func (h *MeetingHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.svc.All()
	if err != nil {
		h.logger.Error("list meetings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}
	today := h.clock.Today()

	type item struct {
		schedule.Meeting
		Label string `json:"label"`
	}
	out := []item{}
	for _, m := range schedule.Upcoming(meetings, today) {
		out = append(out, item{Meeting: m, Label: schedule.DayLabel(m.Date, today)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meetings": out,
		"empty":    len(out) == 0,
		"message":  emptyMessage(len(out)),
	})
}

func emptyMessage(n int) string {
	if n == 0 {
		return schedule.NoMeetingsMessage
	}
	return ""
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	m, err := h.svc.Get(id)
	if errors.Is(err, scheduler.ErrNotFound) {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meeting")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	err = h.svc.Delete(id)
	if errors.Is(err, scheduler.ErrNotFound) {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}
	if err != nil {
		h.logger.Error("delete meeting", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meeting")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type calendarCell struct {
	Date     schedule.Date      `json:"date"`
	InMonth  bool               `json:"in_month"`
	Today    bool               `json:"today"`
	Meetings []schedule.Meeting `json:"meetings"`
}

// Calendar returns the 42-cell grid for ?month=YYYY-MM.
func (h *MeetingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	today := h.clock.Today()
	c := schedule.CursorOf(today)
	if s := r.URL.Query().Get("month"); s != "" {
		parsed, err := schedule.ParseCursor(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		c = parsed
	}

	month, err := h.svc.Month(c, today)
	if err != nil {
		h.logger.Error("build month", "month", c.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	cells := make([]calendarCell, len(month.Grid.Cells))
	for i, cell := range month.Grid.Cells {
		ms := cell.Meetings
		if ms == nil {
			ms = []schedule.Meeting{}
		}
		cells[i] = calendarCell{Date: cell.Date, InMonth: cell.InMonth, Today: cell.Today, Meetings: ms}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month": c.String(),
		"label": c.Label(),
		"prev":  c.Prev().String(),
		"next":  c.Next().String(),
		"cells": cells,
	})
}
