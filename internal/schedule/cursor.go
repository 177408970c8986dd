package schedule

import (
	"fmt"
	"time"
)

// Cursor selects the month shown by the calendar.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorOf returns the cursor for the month containing d.
func CursorOf(d Date) Cursor {
	return Cursor{Year: d.Year, Month: d.Month}
}

// ParseCursor parses "YYYY-MM".
func ParseCursor(s string) (Cursor, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Cursor{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Cursor{Year: t.Year(), Month: t.Month()}, nil
}

// Shift moves the cursor by n months in either direction, rolling the year.
func (c Cursor) Shift(n int) Cursor {
	idx := c.Year*12 + int(c.Month-1) + n
	y, m := idx/12, idx%12
	if m < 0 {
		y--
		m += 12
	}
	return Cursor{Year: y, Month: time.Month(m + 1)}
}

func (c Cursor) Next() Cursor { return c.Shift(1) }
func (c Cursor) Prev() Cursor { return c.Shift(-1) }

// First is the first day of the month.
func (c Cursor) First() Date {
	return Date{Year: c.Year, Month: c.Month, Day: 1}
}

// DaysIn returns the number of days in the month.
func (c Cursor) DaysIn() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (c Cursor) Contains(d Date) bool {
	return d.Year == c.Year && d.Month == c.Month
}

func (c Cursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Label renders "June 2024".
func (c Cursor) Label() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}
