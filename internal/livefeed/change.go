// Package livefeed pushes meeting changes to open schedule pages over /ws.
// A page subscribes for the month it is showing and reloads its grid when a
// change touches that month.
package livefeed

import "github.com/dukerupert/interviews/internal/schedule"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Change is one entry on the feed. Seq increases by one per published change,
// so a page that sees a gap knows it missed something and reloads.
type Change struct {
	Seq    uint64 `json:"seq"`
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
	// Months lists every YYYY-MM the change affects. Empty means the change
	// is not tied to the calendar.
	Months []string       `json:"months,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// MeetingChange describes a write to m. previous is the date the meeting had
// before an update; a move across months reaches pages showing either month.
func MeetingChange(action string, m schedule.Meeting, previous schedule.Date) Change {
	months := []string{schedule.CursorOf(m.Date).String()}
	if prev := schedule.CursorOf(previous).String(); prev != months[0] {
		months = append(months, prev)
	}
	return Change{
		Type:   "meeting_" + action,
		Entity: "meeting",
		Action: action,
		ID:     m.ID,
		Months: months,
		Extra: map[string]any{
			"date":       m.Date.String(),
			"start_time": m.StartTime.String(),
			"end_time":   m.EndTime.String(),
		},
	}
}

func CVUploaded(id int64) Change {
	return Change{Type: "cv_uploaded", Entity: "cv", Action: "uploaded", ID: id}
}
