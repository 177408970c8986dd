package model

import (
	"time"

	"github.com/dukerupert/interviews/internal/schedule"
)

type Meeting struct {
	schedule.Meeting
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schedules strips persistence fields for the scheduling functions.
func Schedules(meetings []Meeting) []schedule.Meeting {
	out := make([]schedule.Meeting, len(meetings))
	for i, m := range meetings {
		out[i] = m.Meeting
	}
	return out
}
