package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekdayHeaders label the calendar columns; weeks start on Sunday.
var WeekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayCell is one square of the month grid. Leading offset cells are Empty.
type DayCell struct {
	Day      int    `json:"day,omitempty"`
	Date     string `json:"date,omitempty"`
	Empty    bool   `json:"empty,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// CalendarView is the rendered month grid.
type CalendarView struct {
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Title   string    `json:"title"`
	Headers []string  `json:"headers"`
	Cells   []DayCell `json:"cells"`
	Prev    MonthRef  `json:"prev"`
	Next    MonthRef  `json:"next"`
}

// MonthRef points at a neighbouring month for the prev/next controls.
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// RenderCalendar builds the grid for month/year. Days strictly before today's
// date are disabled; selected is the draft's selectedDate key, if any.
func RenderCalendar(year int, month time.Month, today time.Time, selected string) CalendarView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	days := DaysInMonth(year, month)
	todayDate := dateOnly(today)

	cells := make([]DayCell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, DayCell{Empty: true})
	}
	for d := 1; d <= days; d++ {
		key := DateKey(year, month, d)
		cell := DayCell{Day: d, Date: key}
		if time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Before(todayDate) {
			cell.Disabled = true
		} else if key == selected {
			cell.Selected = true
		}
		cells = append(cells, cell)
	}

	py, pm := PrevMonth(year, month)
	ny, nm := NextMonth(year, month)
	return CalendarView{
		Year:    year,
		Month:   int(month),
		Title:   fmt.Sprintf("%s %d", month, year),
		Headers: WeekdayHeaders,
		Cells:   cells,
		Prev:    MonthRef{Year: py, Month: int(pm)},
		Next:    MonthRef{Year: ny, Month: int(nm)},
	}
}

// DaysInMonth returns the number of days in month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PrevMonth steps back one month, wrapping into the previous year.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps forward one month, wrapping into the next year.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// DateKey formats the canonical YYYY-M-D key (no zero padding).
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%d-%d-%d", year, int(month), day)
}

// ParseDateKey parses a YYYY-M-D key into a UTC midnight.
func ParseDateKey(key string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
		}
		nums[i] = n
	}
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
	if t.Year() != nums[0] || int(t.Month()) != nums[1] || t.Day() != nums[2] {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

// IsPastDate reports whether the date is strictly before today's date.
func IsPastDate(date, today time.Time) bool {
	return dateOnly(date).Before(dateOnly(today))
}

// dateOnly drops the time of day, keeping the calendar date in t's location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
