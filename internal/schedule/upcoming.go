package schedule

import "sort"

// NoMeetingsMessage is shown in place of an empty upcoming list.
const NoMeetingsMessage = "No upcoming meetings scheduled."

// Upcoming returns the meetings dated today or later, ordered by date and
// then start time. The input is not modified.
func Upcoming(meetings []Meeting, today Date) []Meeting {
	out := make([]Meeting, 0, len(meetings))
	for _, m := range meetings {
		if !m.Date.Before(today) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// DayLabel is "Today", "Tomorrow" or the long form of d.
func DayLabel(d, today Date) string {
	switch d {
	case today:
		return "Today"
	case today.AddDays(1):
		return "Tomorrow"
	}
	return d.Long()
}
