package schedule

import (
	"errors"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return tod
}

func meeting(t *testing.T, id int64, date, start, end string) Meeting {
	t.Helper()
	return Meeting{
		ID:        id,
		Title:     "Interview",
		Date:      mustDate(t, date),
		StartTime: mustTime(t, start),
		EndTime:   mustTime(t, end),
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:30", "09:30", false},
		{"23:59", "23:59", false},
		{"14:05:00", "14:05", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"12:5", "", true},
		{"noon", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeOfDayOrderingIsNumeric(t *testing.T) {
	// "9:30" sorts after "10:00" lexically but not as a time of day.
	if !(mustTime(t, "9:30") < mustTime(t, "10:00")) {
		t.Error("9:30 should be before 10:00")
	}
}

func TestDateCompareAndAddDays(t *testing.T) {
	d := mustDate(t, "2024-01-31")
	if got := d.AddDays(1).String(); got != "2024-02-01" {
		t.Errorf("AddDays(1) = %s, want 2024-02-01", got)
	}
	if got := mustDate(t, "2024-03-01").AddDays(-1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(-1) = %s, want 2024-02-29", got)
	}
	if !d.Before(mustDate(t, "2024-02-01")) {
		t.Error("expected 2024-01-31 before 2024-02-01")
	}
	if d.Compare(d) != 0 {
		t.Error("date should compare equal to itself")
	}
	if _, err := ParseDate("2024-6-1"); err == nil {
		t.Error("expected error for non zero-padded date")
	}
}

func TestCursorNavigation(t *testing.T) {
	june := Cursor{Year: 2024, Month: time.June}
	if got := june.Next().Next(); got != (Cursor{Year: 2024, Month: time.August}) {
		t.Errorf("June next twice = %v, want 2024-08", got)
	}

	jan := Cursor{Year: 2024, Month: time.January}
	if got := jan.Prev(); got != (Cursor{Year: 2023, Month: time.December}) {
		t.Errorf("January prev = %v, want 2023-12", got)
	}

	dec := Cursor{Year: 2023, Month: time.December}
	if got := dec.Next(); got != (Cursor{Year: 2024, Month: time.January}) {
		t.Errorf("December next = %v, want 2024-01", got)
	}

	if got := june.Shift(-30); got != (Cursor{Year: 2021, Month: time.December}) {
		t.Errorf("Shift(-30) = %v, want 2021-12", got)
	}
	if got := june.Label(); got != "June 2024" {
		t.Errorf("Label() = %q, want %q", got, "June 2024")
	}
}

func TestParseCursor(t *testing.T) {
	c, err := ParseCursor("2024-02")
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if c.DaysIn() != 29 {
		t.Errorf("DaysIn() = %d, want 29", c.DaysIn())
	}
	if c.String() != "2024-02" {
		t.Errorf("String() = %q, want %q", c.String(), "2024-02")
	}
	if _, err := ParseCursor("2024/02"); err == nil {
		t.Error("expected error for bad cursor")
	}
}

func TestBuildGridAlwaysFortyTwoCells(t *testing.T) {
	today := mustDate(t, "2024-06-10")
	start := Cursor{Year: 2019, Month: time.January}
	for i := 0; i < 120; i++ {
		c := start.Shift(i)
		g := BuildGrid(c, today, nil)
		if len(g.Cells) != GridCells {
			t.Fatalf("%s: got %d cells, want %d", c, len(g.Cells), GridCells)
		}
		if len(g.Weeks()) != 6 {
			t.Fatalf("%s: got %d weeks, want 6", c, len(g.Weeks()))
		}
		inMonth := 0
		for _, cell := range g.Cells {
			if cell.InMonth {
				inMonth++
			}
		}
		if inMonth != c.DaysIn() {
			t.Fatalf("%s: got %d in-month cells, want %d", c, inMonth, c.DaysIn())
		}
	}
}

func TestBuildGridLayout(t *testing.T) {
	// June 1 2024 is a Saturday: six leading days from May.
	c := Cursor{Year: 2024, Month: time.June}
	today := mustDate(t, "2024-06-10")
	meetings := []Meeting{
		meeting(t, 1, "2024-06-10", "09:00", "10:00"),
		meeting(t, 2, "2024-06-10", "11:00", "12:00"),
		meeting(t, 3, "2024-07-01", "09:00", "10:00"),
	}

	g := BuildGrid(c, today, meetings)

	first := g.Cells[0]
	if first.Date.String() != "2024-05-26" || first.InMonth {
		t.Errorf("first cell = %s (in month %v), want 2024-05-26 outside month", first.Date, first.InMonth)
	}
	if g.Cells[6].Date.String() != "2024-06-01" || !g.Cells[6].InMonth {
		t.Errorf("cell 6 = %s, want 2024-06-01", g.Cells[6].Date)
	}
	last := g.Cells[GridCells-1]
	if last.Date.String() != "2024-07-06" {
		t.Errorf("last cell = %s, want 2024-07-06", last.Date)
	}

	var todayCells int
	for _, cell := range g.Cells {
		if cell.Today {
			todayCells++
			if cell.Date != today {
				t.Errorf("today flag on %s", cell.Date)
			}
			if len(cell.Meetings) != 2 {
				t.Errorf("today has %d meetings, want 2", len(cell.Meetings))
			}
		}
		if !cell.InMonth && len(cell.Meetings) > 0 {
			t.Errorf("adjacent-month cell %s should carry no meetings", cell.Date)
		}
	}
	if todayCells != 1 {
		t.Errorf("got %d today cells, want 1", todayCells)
	}
}

func TestBuildGridNoTodayInOtherMonth(t *testing.T) {
	g := BuildGrid(Cursor{Year: 2024, Month: time.July}, mustDate(t, "2024-06-30"), nil)
	for _, cell := range g.Cells {
		if cell.Today {
			t.Errorf("unexpected today flag on %s", cell.Date)
		}
	}
}

func TestUpcoming(t *testing.T) {
	today := mustDate(t, "2024-06-10")
	meetings := []Meeting{
		meeting(t, 1, "2024-06-12", "09:00", "10:00"),
		meeting(t, 2, "2024-06-09", "09:00", "10:00"),
		meeting(t, 3, "2024-06-10", "14:00", "15:00"),
		meeting(t, 4, "2024-06-10", "9:00", "9:30"),
		meeting(t, 5, "2025-01-01", "08:00", "09:00"),
	}

	got := Upcoming(meetings, today)

	wantIDs := []int64{4, 3, 1, 5}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d meetings, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d: id = %d, want %d", i, got[i].ID, id)
		}
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if cur.Date.Before(prev.Date) || (cur.Date == prev.Date && cur.StartTime < prev.StartTime) {
			t.Errorf("meetings %d and %d out of order", prev.ID, cur.ID)
		}
	}
	if meetings[0].ID != 1 {
		t.Error("input slice was reordered")
	}
}

func TestUpcomingEmpty(t *testing.T) {
	got := Upcoming(nil, mustDate(t, "2024-06-10"))
	if len(got) != 0 {
		t.Errorf("got %d meetings, want 0", len(got))
	}
}

func TestDayLabel(t *testing.T) {
	today := mustDate(t, "2024-06-10")
	tests := []struct {
		date string
		want string
	}{
		{"2024-06-10", "Today"},
		{"2024-06-11", "Tomorrow"},
		{"2024-06-12", "Wednesday, June 12, 2024"},
		{"2024-06-09", "Sunday, June 9, 2024"},
	}
	for _, tt := range tests {
		if got := DayLabel(mustDate(t, tt.date), today); got != tt.want {
			t.Errorf("DayLabel(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"partial overlap", "09:00", "10:00", "09:30", "10:30", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"back to back after", "09:00", "10:00", "10:00", "11:00", false},
		{"back to back before", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "09:00", "10:00", "13:00", "14:00", false},
	}
	for _, tt := range tests {
		got := Overlaps(mustTime(t, tt.s1), mustTime(t, tt.e1), mustTime(t, tt.s2), mustTime(t, tt.e2))
		if got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	existing := []Meeting{meeting(t, 1, "2024-06-10", "09:00", "10:00")}
	date := mustDate(t, "2024-06-10")

	tests := []struct {
		name    string
		c       Candidate
		wantErr error
	}{
		{"overlap rejected", Candidate{Date: date, StartTime: mustTime(t, "09:30"), EndTime: mustTime(t, "10:30")}, ErrConflict},
		{"back to back accepted", Candidate{Date: date, StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "11:00")}, nil},
		{"other date accepted", Candidate{Date: date.AddDays(1), StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "10:00")}, nil},
		{"self excluded when editing", Candidate{EditingID: 1, Date: date, StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "10:00")}, nil},
		{"end before start", Candidate{Date: date.AddDays(5), StartTime: mustTime(t, "11:00"), EndTime: mustTime(t, "10:00")}, ErrInvalidTimeRange},
		{"equal times", Candidate{Date: date.AddDays(5), StartTime: mustTime(t, "11:00"), EndTime: mustTime(t, "11:00")}, ErrInvalidTimeRange},
		{"bad range wins over conflict", Candidate{Date: date, StartTime: mustTime(t, "09:45"), EndTime: mustTime(t, "09:15")}, ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		err := Validate(tt.c, existing)
		if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message(ErrConflict); got != "This meeting conflicts with an existing meeting. Please choose a different time." {
		t.Errorf("conflict message = %q", got)
	}
	if got := Message(ErrInvalidTimeRange); got != "End time must be after start time." {
		t.Errorf("range message = %q", got)
	}
	if got := Message(&FieldError{Field: "title", Msg: "Title is required."}); got != "Title is required." {
		t.Errorf("field message = %q", got)
	}
}
