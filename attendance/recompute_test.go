package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
)

func fullMonthBatch(t *testing.T, cal *attendance.Calendar) *attendance.Batch {
	t.Helper()
	records, err := attendance.BuildRecords(septemberRows(), nil)
	require.NoError(t, err)
	return attendance.NewBatch(records, cal, attendance.NewDate(2025, time.December, 31), nil)
}

func TestBatch_EditTime_RefreshesTotals(t *testing.T) {
	// GIVEN: a balanced month (shortage 0)
	b := fullMonthBatch(t, emptyCalendar())
	require.Equal(t, 0.0, b.Summary.ShortageHours)

	// WHEN: the first weekday leaves two hours early
	rec, err := b.EditTime(0, attendance.FieldEndTime, "16:00")

	// THEN: the record and the totals both reflect the change
	require.NoError(t, err)
	assert.Equal(t, 7.0, rec.WorkHours)
	assert.Equal(t, 6.0, rec.ActualWorkHours) // 7h - 1h break
	assert.Equal(t, attendance.StatusNormal, rec.Status)
	assert.Equal(t, 174.0, b.Summary.RegularHours)
	assert.Equal(t, -2.0, b.Summary.ShortageHours)
}

func TestBatch_EditTime_RejectsInvalidInput(t *testing.T) {
	b := fullMonthBatch(t, emptyCalendar())

	for _, in := range []string{"", "-", "9am", "25:00", "12:61", "9:0"} {
		_, err := b.EditTime(0, attendance.FieldStartTime, in)
		assert.ErrorIs(t, err, attendance.ErrInvalidTime, "input %q", in)
	}

	// Totals untouched by rejected edits.
	assert.Equal(t, 0.0, b.Summary.ShortageHours)
}

func TestBatch_EditTime_IndexOutOfRange(t *testing.T) {
	b := fullMonthBatch(t, emptyCalendar())
	_, err := b.EditTime(99, attendance.FieldStartTime, "09:00")
	assert.ErrorIs(t, err, attendance.ErrRecordIndex)
}

func TestBatch_EditLeaveHours(t *testing.T) {
	b := fullMonthBatch(t, emptyCalendar())

	// Adding 4 leave hours to a worked day raises its actual hours.
	rec, err := b.EditLeaveHours(0, "4")
	require.NoError(t, err)
	assert.Equal(t, 4.0, rec.AnnualLeaveHours)
	assert.Equal(t, 12.0, rec.ActualWorkHours) // 8 base + 4 leave
	assert.Equal(t, 180.0, b.Summary.RegularHours)
	assert.Equal(t, 4.0, b.Summary.ShortageHours)

	// Unparseable input silently resets to zero.
	rec, err = b.EditLeaveHours(0, "whole day")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.AnnualLeaveHours)
	assert.Equal(t, 8.0, rec.ActualWorkHours)
	assert.Equal(t, 176.0, b.Summary.RegularHours)
}

func TestBatch_EditTime_ClearedDayBecomesAbsent(t *testing.T) {
	rows := [][]attendance.Cell{
		header("날짜", "출근", "퇴근"),
		row("2025-09-01", "09:00", ""),
	}
	records, err := attendance.BuildRecords(rows, nil)
	require.NoError(t, err)
	b := attendance.NewBatch(records, emptyCalendar(), attendance.NewDate(2025, time.December, 31), nil)

	// Classified incomplete at ingestion, with the auto-completed end.
	require.Equal(t, attendance.StatusIncomplete, b.Records()[0].Status)

	// Editing the end time re-derives a normal day.
	rec, err := b.EditTime(0, attendance.FieldEndTime, "13:00")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNormal, rec.Status)
	assert.Equal(t, 4.0, rec.WorkHours)
	assert.Equal(t, 0.5, rec.BreakHours)
	assert.Equal(t, 3.5, rec.ActualWorkHours)
}

// =============================================================================
// HOLIDAY TOGGLES
// =============================================================================

func TestBatch_SetHoliday_DocumentedAsymmetry(t *testing.T) {
	// GIVEN: a balanced month
	b := fullMonthBatch(t, emptyCalendar())
	require.Equal(t, 22, b.Summary.NormalWorkDays)
	require.Equal(t, 176.0, b.Summary.RequiredWorkHours)

	// WHEN: marking a worked weekday as a holiday
	require.NoError(t, b.SetHoliday(0, true))

	// THEN: regular/shortage totals refresh, but the work-day baseline is
	// pinned at its ingestion-time value
	assert.Equal(t, 22, b.Summary.NormalWorkDays)
	assert.Equal(t, 176.0, b.Summary.RequiredWorkHours)
	assert.Equal(t, 176.0, b.Summary.RegularHours) // record hours unchanged by a toggle
	assert.Equal(t, 0.0, b.Summary.ShortageHours)
	assert.True(t, b.Calendar.IsHoliday(attendance.NewDate(2025, time.September, 1)))

	// Un-toggling an unprotected date succeeds.
	require.NoError(t, b.SetHoliday(0, false))
	assert.False(t, b.Calendar.IsHoliday(attendance.NewDate(2025, time.September, 1)))
}

func TestBatch_SetHoliday_ScheduledDayDropsFromTotals(t *testing.T) {
	// GIVEN: a single future weekday, counted as scheduled work
	rows := [][]attendance.Cell{
		header("날짜", "출근", "퇴근"),
		row("2025-09-22", "", ""), // Monday after "today"
	}
	records, err := attendance.BuildRecords(rows, nil)
	require.NoError(t, err)
	b := attendance.NewBatch(records, emptyCalendar(), attendance.NewDate(2025, time.September, 15), nil)
	require.Equal(t, attendance.StatusScheduled, b.Records()[0].Status)
	require.Equal(t, 8.0, b.Summary.RegularHours)

	// WHEN: marking that day as a holiday
	require.NoError(t, b.SetHoliday(0, true))

	// THEN: the record reclassifies to a day off and its hours leave the
	// totals, while the work-day baseline stays pinned
	assert.Equal(t, attendance.StatusDayOff, b.Records()[0].Status)
	assert.Equal(t, 0.0, b.Summary.RegularHours)
	assert.Equal(t, -8.0, b.Summary.ShortageHours)
	assert.Equal(t, 1, b.Summary.NormalWorkDays)
	assert.Equal(t, 8.0, b.Summary.RequiredWorkHours)
}

func TestBatch_SetHoliday_ProtectedDateRejected(t *testing.T) {
	protected := attendance.NewDate(2025, time.September, 1)
	cal := attendance.NewCalendar([]attendance.Date{protected}, []attendance.Date{protected})
	b := fullMonthBatch(t, cal)

	err := b.SetHoliday(0, false)

	assert.ErrorIs(t, err, attendance.ErrProtectedHoliday)
	assert.True(t, b.Calendar.IsHoliday(protected), "protected holiday must stay set")
}

func TestParseEditTime_Strict(t *testing.T) {
	ct, err := attendance.ParseEditTime("9:05")
	require.NoError(t, err)
	assert.Equal(t, attendance.ClockTime{Hour: 9, Minute: 5}, ct)

	// The forgiving ingestion grammar does not apply here.
	for _, in := range []string{"0900", "0.375", "9:00:00"} {
		_, err := attendance.ParseEditTime(in)
		assert.ErrorIs(t, err, attendance.ErrInvalidTime, "input %q", in)
	}
}
