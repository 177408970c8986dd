package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/interviews/internal/schedule"
	"github.com/dukerupert/interviews/web"
)

// Clock reports the current day in the scheduler's time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Clock) current() time.Time {
	if c.Now == nil {
		return time.Now().In(c.location())
	}
	return c.Now().In(c.location())
}

func (c Clock) Today() schedule.Date {
	return schedule.DateOf(c.current())
}

// Alert is an inline message rendered above a form.
type Alert struct {
	Kind string
	Text string
}

func errorAlert(text string) *Alert   { return &Alert{Kind: "error", Text: text} }
func successAlert(text string) *Alert { return &Alert{Kind: "success", Text: text} }

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(web.Templates, "templates/*.html")
}

func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, name string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("template error", "template", name, "error", err)
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
