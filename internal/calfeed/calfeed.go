// Package calfeed renders meetings as an iCalendar (RFC 5545) feed so
// interviewers can subscribe from their own calendar client.
package calfeed

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/dukerupert/interviews/internal/schedule"
)

const prodID = "-//dukerupert//interviews//EN"

// Build converts meetings into a calendar. Times are anchored in loc; stamp
// becomes every event's DTSTAMP.
func Build(meetings []schedule.Meeting, loc *time.Location, domain string, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText("X-WR-CALNAME", "Interviews")

	for _, m := range meetings {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, fmt.Sprintf("meeting-%d@%s", m.ID, domain))
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, m.StartTime.On(m.Date, loc).UTC())
		ev.Props.SetDateTime(ical.PropDateTimeEnd, m.EndTime.On(m.Date, loc).UTC())
		ev.Props.SetText(ical.PropSummary, m.Title)
		if desc := description(m); desc != "" {
			ev.Props.SetText(ical.PropDescription, desc)
		}
		cal.Children = append(cal.Children, ev.Component)
	}
	return cal
}

func description(m schedule.Meeting) string {
	var lines []string
	if m.ApplicantName != "" {
		lines = append(lines, "Applicant: "+m.ApplicantName)
	}
	if m.JobTitle != "" {
		lines = append(lines, "Position: "+m.JobTitle)
	}
	return strings.Join(lines, "\n")
}

// ErrEmpty is returned by Write when there is nothing to encode; a
// VCALENDAR must contain at least one component.
var ErrEmpty = errors.New("no meetings to export")

// Write encodes the feed to w.
func Write(w io.Writer, meetings []schedule.Meeting, loc *time.Location, domain string, stamp time.Time) error {
	if len(meetings) == 0 {
		return ErrEmpty
	}
	if err := ical.NewEncoder(w).Encode(Build(meetings, loc, domain, stamp)); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
