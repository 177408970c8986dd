package schedule

// GridCells is the fixed number of cells in a month view (6 weeks of 7 days),
// so the rendered calendar keeps the same height for every month.
const GridCells = 42

// Cell is one day in the month view.
type Cell struct {
	Date     Date
	InMonth  bool
	Today    bool
	Meetings []Meeting
}

// Grid is the month view for a cursor.
type Grid struct {
	Cursor Cursor
	Cells  []Cell
}

// BuildGrid lays out the month selected by c, padded with the tail of the
// previous month and the head of the next one. Weeks start on Sunday.
// Only cells inside the month carry meetings and the today marker.
func BuildGrid(c Cursor, today Date, meetings []Meeting) Grid {
	first := c.First()
	leading := int(first.Weekday())
	days := c.DaysIn()
	trailing := GridCells - leading - days

	byDate := make(map[Date][]Meeting)
	for _, m := range meetings {
		if c.Contains(m.Date) {
			byDate[m.Date] = append(byDate[m.Date], m)
		}
	}

	cells := make([]Cell, 0, GridCells)
	for i := leading; i > 0; i-- {
		cells = append(cells, Cell{Date: first.AddDays(-i)})
	}
	for day := 1; day <= days; day++ {
		d := Date{Year: c.Year, Month: c.Month, Day: day}
		cells = append(cells, Cell{
			Date:     d,
			InMonth:  true,
			Today:    d == today,
			Meetings: byDate[d],
		})
	}
	next := c.Next().First()
	for i := 0; i < trailing; i++ {
		cells = append(cells, Cell{Date: next.AddDays(i)})
	}

	return Grid{Cursor: c, Cells: cells}
}

// Weeks splits the grid into rows of seven cells.
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(g.Cells)/7)
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

// WeekdayNames are the column headers for the grid.
var WeekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
