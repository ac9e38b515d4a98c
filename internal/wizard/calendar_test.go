package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCells(v CalendarView) (empty, days, disabled, selected int) {
	for _, c := range v.Cells {
		switch {
		case c.Empty:
			empty++
		default:
			days++
		}
		if c.Disabled {
			disabled++
		}
		if c.Selected {
			selected++
		}
	}
	return
}

func TestRenderCalendar_January2024(t *testing.T) {
	today := time.Date(2023, time.December, 1, 9, 0, 0, 0, time.UTC)
	v := RenderCalendar(2024, time.January, today, "")

	empty, days, disabled, selected := countCells(v)
	assert.Equal(t, 1, empty, "January 1 2024 is a Monday")
	assert.Equal(t, 31, days)
	assert.Zero(t, disabled)
	assert.Zero(t, selected)
	assert.Equal(t, "January 2024", v.Title)
	assert.Equal(t, WeekdayHeaders, v.Headers)
	assert.Equal(t, MonthRef{Year: 2023, Month: 12}, v.Prev)
	assert.Equal(t, MonthRef{Year: 2024, Month: 2}, v.Next)
}

func TestRenderCalendar_PastDaysDisabled(t *testing.T) {
	today := time.Date(2024, time.March, 14, 18, 30, 0, 0, time.UTC)
	v := RenderCalendar(2024, time.March, today, "2024-3-20")

	for _, c := range v.Cells {
		if c.Empty {
			continue
		}
		assert.Equal(t, c.Day < 14, c.Disabled, "day %d", c.Day)
	}
	_, _, disabled, selected := countCells(v)
	assert.Equal(t, 13, disabled)
	assert.Equal(t, 1, selected)
}

func TestRenderCalendar_PastSelectionNotHighlighted(t *testing.T) {
	today := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	v := RenderCalendar(2024, time.March, today, "2024-3-2")
	_, _, _, selected := countCells(v)
	assert.Zero(t, selected)
}

func TestRenderCalendar_LeapFebruary(t *testing.T) {
	v := RenderCalendar(2024, time.February, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "")
	_, days, _, _ := countCells(v)
	assert.Equal(t, 29, days)
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
}

func TestMonthWrap(t *testing.T) {
	y, m := PrevMonth(2024, time.January)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, m)

	y, m = NextMonth(2024, time.December)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-3-5", DateKey(2024, time.March, 5))

	d, err := ParseDateKey("2024-3-5")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2024-3", "2024-02-30", "2024-13-1", "abc-1-1"} {
		_, err := ParseDateKey(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestIsPastDate(t *testing.T) {
	today := time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC)
	assert.True(t, IsPastDate(time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), today))
	assert.False(t, IsPastDate(time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), today))
	assert.False(t, IsPastDate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), today))
}
