package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/interviews/internal/schedule"
	"github.com/dukerupert/interviews/internal/scheduler"
)

// ScheduleHandler serves the calendar page and its form posts.
type ScheduleHandler struct {
	svc       *scheduler.Service
	templates *template.Template
	clock     Clock
	logger    *slog.Logger
}

func NewScheduleHandler(svc *scheduler.Service, tmpl *template.Template, clock Clock, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, templates: tmpl, clock: clock, logger: logger}
}

type upcomingItem struct {
	Meeting schedule.Meeting
	Label   string
}

type schedulePage struct {
	Title      string
	Cursor     schedule.Cursor
	Weekdays   []string
	Weeks      [][]schedule.Cell
	Upcoming   []upcomingItem
	NoMeetings string
	Form       *schedule.Form
	Alert      *Alert
}

// cursorParam reads ?month=YYYY-MM, falling back to today's month.
func (h *ScheduleHandler) cursorParam(r *http.Request) schedule.Cursor {
	if c, err := schedule.ParseCursor(r.URL.Query().Get("month")); err == nil {
		return c
	}
	return schedule.CursorOf(h.clock.Today())
}

func (h *ScheduleHandler) Page(w http.ResponseWriter, r *http.Request) {
	form := schedule.NewForm()
	if idStr := r.URL.Query().Get("edit"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid meeting id", http.StatusBadRequest)
			return
		}
		m, err := h.svc.Get(id)
		if errors.Is(err, scheduler.ErrNotFound) {
			http.Error(w, "meeting not found", http.StatusNotFound)
			return
		}
		if err != nil {
			h.logger.Error("load meeting for edit", "id", id, "error", err)
			http.Error(w, "failed to load meeting", http.StatusInternalServerError)
			return
		}
		form.Edit(m.Meeting)
	}

	var alert *Alert
	if r.URL.Query().Get("saved") == "1" {
		alert = successAlert("Meeting saved.")
	}
	h.renderPage(w, http.StatusOK, h.cursorParam(r), form, alert)
}

// Submit handles the standard form post. Validation failures re-render the
// page with the form still in its current mode.
func (h *ScheduleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := schedule.NewForm()
	err := form.Load(schedule.FormValues{
		Title:       r.PostFormValue("title"),
		Date:        r.PostFormValue("date"),
		StartTime:   r.PostFormValue("start_time"),
		EndTime:     r.PostFormValue("end_time"),
		MeetingID:   r.PostFormValue("meeting-id"),
		ApplicantID: r.PostFormValue("applicant-id"),
		JobID:       r.PostFormValue("job-id"),
	})
	cursor := h.cursorParam(r)
	if err != nil {
		h.renderPage(w, http.StatusBadRequest, cursor, form, errorAlert(schedule.Message(err)))
		return
	}

	m, err := form.Candidate()
	if err != nil {
		h.renderPage(w, http.StatusBadRequest, cursor, form, errorAlert(schedule.Message(err)))
		return
	}
	cursor = schedule.CursorOf(m.Date)

	sameDay, err := h.svc.Day(m.Date)
	if err != nil {
		h.logger.Error("load day for validation", "date", m.Date.String(), "error", err)
		http.Error(w, "failed to load meetings", http.StatusInternalServerError)
		return
	}

	// Submit resets the form on success; a failed save re-renders what was posted.
	posted := *form
	m, err = form.Submit(sameDay)
	if err != nil {
		h.renderPage(w, statusFor(err), cursor, form, errorAlert(schedule.Message(err)))
		return
	}

	saved, err := h.svc.Save(m)
	switch {
	case errors.Is(err, schedule.ErrInvalidTimeRange), errors.Is(err, schedule.ErrConflict):
		h.renderPage(w, http.StatusConflict, cursor, &posted, errorAlert(schedule.Message(err)))
		return
	case errors.Is(err, scheduler.ErrNotFound):
		h.renderPage(w, http.StatusNotFound, cursor, form, errorAlert("That meeting no longer exists."))
		return
	case err != nil:
		h.logger.Error("save meeting", "error", err)
		http.Error(w, "failed to save meeting", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/schedule?month="+schedule.CursorOf(saved.Date).String()+"&saved=1", http.StatusSeeOther)
}

func statusFor(err error) int {
	if errors.Is(err, schedule.ErrInvalidTimeRange) || errors.Is(err, schedule.ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

type meetingPage struct {
	Title   string
	Meeting schedule.Meeting
	Cursor  schedule.Cursor
}

// Detail renders one meeting. HTMX requests get the bare fragment.
func (h *ScheduleHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	m, err := h.svc.Get(id)
	if errors.Is(err, scheduler.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("load meeting", "id", id, "error", err)
		http.Error(w, "failed to load meeting", http.StatusInternalServerError)
		return
	}

	data := meetingPage{Title: m.Title, Meeting: m.Meeting, Cursor: schedule.CursorOf(m.Date)}
	name := "meeting.html"
	if r.Header.Get("HX-Request") == "true" {
		name = "meeting-detail"
	}
	render(w, h.logger, h.templates, name, http.StatusOK, data)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	m, err := h.svc.Get(id)
	if errors.Is(err, scheduler.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err == nil {
		err = h.svc.Delete(id)
	}
	if err != nil {
		h.logger.Error("delete meeting", "id", id, "error", err)
		http.Error(w, "failed to delete meeting", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/schedule?month="+schedule.CursorOf(m.Date).String(), http.StatusSeeOther)
}

func (h *ScheduleHandler) renderPage(w http.ResponseWriter, status int, c schedule.Cursor, form *schedule.Form, alert *Alert) {
	today := h.clock.Today()
	month, err := h.svc.Month(c, today)
	if err != nil {
		h.logger.Error("build month", "month", c.String(), "error", err)
		http.Error(w, "failed to load meetings", http.StatusInternalServerError)
		return
	}

	items := make([]upcomingItem, len(month.Upcoming))
	for i, m := range month.Upcoming {
		items[i] = upcomingItem{Meeting: m, Label: schedule.DayLabel(m.Date, today)}
	}

	render(w, h.logger, h.templates, "schedule.html", status, schedulePage{
		Title:      "Interview Schedule",
		Cursor:     c,
		Weekdays:   schedule.WeekdayNames,
		Weeks:      month.Grid.Weeks(),
		Upcoming:   items,
		NoMeetings: schedule.NoMeetingsMessage,
		Form:       form,
		Alert:      alert,
	})
}

type dayPage struct {
	Title    string
	Date     schedule.Date
	Prev     schedule.Date
	Next     schedule.Date
	Label    string
	Meetings []schedule.Meeting
}

// Day shows the meetings for ?date=YYYY-MM-DD; a missing or malformed date
// means today.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	today := h.clock.Today()
	d, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		d = today
	}

	meetings, err := h.svc.Day(d)
	if err != nil {
		h.logger.Error("list day", "date", d.String(), "error", err)
		http.Error(w, "failed to load meetings", http.StatusInternalServerError)
		return
	}

	render(w, h.logger, h.templates, "day.html", http.StatusOK, dayPage{
		Title:    d.Long(),
		Date:     d,
		Prev:     d.AddDays(-1),
		Next:     d.AddDays(1),
		Label:    schedule.DayLabel(d, today),
		Meetings: meetings,
	})
}
