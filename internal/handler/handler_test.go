package handler

import (
	"testing"
	"time"

	"github.com/dukerupert/interviews/internal/schedule"
)

func TestQuestionIDFromPath(t *testing.T) {
	tests := map[string]string{
		"/questions/42":        "42",
		"/questions/42/":       "42",
		"/jobs/7/questions/ab": "ab",
		"q9":                   "q9",
	}
	for in, want := range tests {
		if got := QuestionIDFromPath(in); got != want {
			t.Errorf("QuestionIDFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClockToday(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 02:30 UTC on the 11th is still the 10th in New York.
	clock := Clock{
		Now:      func() time.Time { return time.Date(2024, 6, 11, 2, 30, 0, 0, time.UTC) },
		Location: ny,
	}
	want := schedule.Date{Year: 2024, Month: time.June, Day: 10}
	if got := clock.Today(); got != want {
		t.Errorf("Today() = %v, want %v", got, want)
	}
}

func TestParseTemplates(t *testing.T) {
	tmpl, err := ParseTemplates()
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}
	for _, name := range []string{"schedule.html", "meeting.html", "meeting-detail", "day.html", "profile.html", "answer.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %q not defined", name)
		}
	}
}
