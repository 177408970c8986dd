package schedule

import (
	"strconv"
	"strings"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormValues are the raw meeting form fields as posted by the browser.
// Field names follow the form: title, date, start_time, end_time and the
// hidden meeting-id, applicant-id and job-id inputs.
type FormValues struct {
	Title       string
	Date        string
	StartTime   string
	EndTime     string
	MeetingID   string
	ApplicantID string
	JobID       string
}

// Form tracks whether the meeting form is creating a new meeting or editing
// an existing one. The zero value is a blank form in create mode.
type Form struct {
	mode      Mode
	editingID int64
	Values    FormValues
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Mode() Mode { return f.mode }

// EditingID is the id of the meeting being edited, zero in create mode.
func (f *Form) EditingID() int64 { return f.editingID }

// Edit switches to edit mode and fills the fields from m.
func (f *Form) Edit(m Meeting) {
	f.mode = ModeEdit
	f.editingID = m.ID
	f.Values = FormValues{
		Title:     m.Title,
		Date:      m.Date.String(),
		StartTime: m.StartTime.String(),
		EndTime:   m.EndTime.String(),
		MeetingID: strconv.FormatInt(m.ID, 10),
	}
	if m.HasApplication() {
		f.Values.ApplicantID = strconv.FormatInt(*m.ApplicantID, 10)
		f.Values.JobID = strconv.FormatInt(*m.JobID, 10)
	}
}

// Reset clears every field and returns to create mode.
func (f *Form) Reset() {
	*f = Form{}
}

// Load restores the form from posted values. A non-empty meeting-id puts the
// form in edit mode.
func (f *Form) Load(v FormValues) error {
	f.Values = v
	f.mode = ModeCreate
	f.editingID = 0
	if id := strings.TrimSpace(v.MeetingID); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			return &FieldError{Field: "meeting-id", Msg: "Invalid meeting id."}
		}
		f.mode = ModeEdit
		f.editingID = n
	}
	return nil
}

func (f *Form) Title() string {
	if f.mode == ModeEdit {
		return "Edit Meeting"
	}
	return "Schedule a New Meeting"
}

func (f *Form) SubmitLabel() string {
	if f.mode == ModeEdit {
		return "Update Meeting"
	}
	return "Schedule Meeting"
}

// Candidate parses the current values into a meeting ready for validation.
func (f *Form) Candidate() (Meeting, error) {
	v := f.Values
	m := Meeting{ID: f.editingID, Title: strings.TrimSpace(v.Title)}
	if m.Title == "" {
		return Meeting{}, &FieldError{Field: "title", Msg: "Title is required."}
	}
	d, err := ParseDate(v.Date)
	if err != nil {
		return Meeting{}, &FieldError{Field: "date", Msg: "A valid date is required."}
	}
	m.Date = d
	if m.StartTime, err = ParseTimeOfDay(v.StartTime); err != nil {
		return Meeting{}, &FieldError{Field: "start_time", Msg: "A valid start time is required."}
	}
	if m.EndTime, err = ParseTimeOfDay(v.EndTime); err != nil {
		return Meeting{}, &FieldError{Field: "end_time", Msg: "A valid end time is required."}
	}
	// Linking ids are kept only when both are present.
	if v.ApplicantID != "" && v.JobID != "" {
		a, aerr := strconv.ParseInt(v.ApplicantID, 10, 64)
		j, jerr := strconv.ParseInt(v.JobID, 10, 64)
		if aerr != nil || jerr != nil {
			return Meeting{}, &FieldError{Field: "applicant-id", Msg: "Invalid application reference."}
		}
		m.ApplicantID, m.JobID = &a, &j
	}
	return m, nil
}

// Submit validates the form against meetings. On failure the form keeps its
// mode and values and the error is returned. On success the validated
// meeting is returned for persistence and the form resets to create mode.
func (f *Form) Submit(meetings []Meeting) (Meeting, error) {
	m, err := f.Candidate()
	if err != nil {
		return Meeting{}, err
	}
	c := Candidate{EditingID: f.editingID, Date: m.Date, StartTime: m.StartTime, EndTime: m.EndTime}
	if err := Validate(c, meetings); err != nil {
		return Meeting{}, err
	}
	f.Reset()
	return m, nil
}

// FieldError reports a missing or malformed form field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Msg
}
