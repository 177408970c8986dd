package schedule

import "errors"

var (
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrConflict         = errors.New("meeting conflicts with an existing meeting")
)

// Message returns the text shown to the user for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTimeRange):
		return "End time must be after start time."
	case errors.Is(err, ErrConflict):
		return "This meeting conflicts with an existing meeting. Please choose a different time."
	case err == nil:
		return ""
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Msg
	}
	return err.Error()
}

// Candidate is a meeting about to be saved. EditingID is the id of the
// meeting being edited, or zero when creating.
type Candidate struct {
	EditingID int64
	Date      Date
	StartTime TimeOfDay
	EndTime   TimeOfDay
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Back-to-back
// ranges do not overlap.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && s2 < e1
}

// Conflicts returns the meetings the candidate would overlap with.
func Conflicts(c Candidate, meetings []Meeting) []Meeting {
	var out []Meeting
	for _, m := range meetings {
		if c.EditingID != 0 && m.ID == c.EditingID {
			continue
		}
		if m.Date != c.Date {
			continue
		}
		if Overlaps(c.StartTime, c.EndTime, m.StartTime, m.EndTime) {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks the time ordering first and then searches for conflicts.
func Validate(c Candidate, meetings []Meeting) error {
	if c.StartTime >= c.EndTime {
		return ErrInvalidTimeRange
	}
	if len(Conflicts(c, meetings)) > 0 {
		return ErrConflict
	}
	return nil
}
