package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
)

// septemberRows builds raw rows for every day of September 2025 (22
// weekdays), each weekday worked 09:00-18:00.
func septemberRows() [][]attendance.Cell {
	rows := [][]attendance.Cell{header("날짜", "출근", "퇴근", "비고", "상태")}
	for day := 1; day <= 30; day++ {
		d := attendance.NewDate(2025, time.September, day)
		if d.IsWeekend() {
			rows = append(rows, row(d.String(), "", "", "", ""))
		} else {
			rows = append(rows, row(d.String(), "09:00", "18:00", "", ""))
		}
	}
	return rows
}

func classifyAll(t *testing.T, rows [][]attendance.Cell, cal *attendance.Calendar) []attendance.ClassifiedRecord {
	t.Helper()
	records, err := attendance.BuildRecords(rows, nil)
	require.NoError(t, err)

	today := attendance.NewDate(2025, time.December, 31) // whole month in the past
	out := make([]attendance.ClassifiedRecord, len(records))
	for i, rec := range records {
		out[i] = attendance.Classify(rec, cal, today, nil)
	}
	return out
}

func TestAggregate_FullMonth(t *testing.T) {
	// GIVEN: a 22-weekday month, every weekday worked 09:00-18:00, no holidays
	cal := emptyCalendar()
	records := classifyAll(t, septemberRows(), cal)

	// WHEN: aggregating
	summary := attendance.Aggregate(records, cal)

	// THEN: the month balances exactly
	assert.Equal(t, 22, summary.NormalWorkDays)
	assert.Equal(t, 176.0, summary.RequiredWorkHours)
	assert.Equal(t, 176.0, summary.RegularHours)
	assert.Equal(t, 0.0, summary.ShortageHours)
	assert.Equal(t, 0.0, summary.OvertimeHours)
	assert.Equal(t, 22*9.0, summary.TotalWorkHours)
	assert.Equal(t, 22.0, summary.TotalBreakHours)
	assert.Equal(t, 0.0, summary.AnnualLeaveDays)
	assert.Len(t, summary.Records, 30)
}

func TestAggregate_WeekendWorkIsOvertime(t *testing.T) {
	cal := emptyCalendar()
	rows := [][]attendance.Cell{
		header("날짜", "출근", "퇴근"),
		row("2025-09-06", "10:00", "16:00"), // Saturday, 5h actual
	}
	records := classifyAll(t, rows, cal)
	summary := attendance.Aggregate(records, cal)

	assert.Equal(t, 0, summary.NormalWorkDays)
	assert.Equal(t, 5.0, summary.OvertimeHours)
	assert.Equal(t, 5.0, summary.RegularHours) // table total counts all actual hours
	assert.Equal(t, 5.0, summary.ShortageHours)
}

func TestAggregate_WeekdayOvertimePastEight(t *testing.T) {
	cal := emptyCalendar()
	rows := [][]attendance.Cell{
		header("날짜", "출근", "퇴근"),
		row("2025-09-01", "09:00", "21:00"), // 12h work, 1h break -> 11h actual
	}
	records := classifyAll(t, rows, cal)
	summary := attendance.Aggregate(records, cal)

	assert.Equal(t, 3.0, summary.OvertimeHours)
	assert.Equal(t, 11.0, summary.RegularHours)
	assert.Equal(t, 1, summary.NormalWorkDays)
}

func TestAggregate_HolidayRemovesNormalWorkDay(t *testing.T) {
	holiday := attendance.NewDate(2025, time.September, 1)
	cal := attendance.NewCalendar([]attendance.Date{holiday}, nil)

	rows := [][]attendance.Cell{
		header("날짜", "출근", "퇴근"),
		row("2025-09-01", "", ""),
		row("2025-09-02", "09:00", "18:00"),
	}
	records := classifyAll(t, rows, cal)
	summary := attendance.Aggregate(records, cal)

	assert.Equal(t, 1, summary.NormalWorkDays)
	assert.Equal(t, 8.0, summary.RequiredWorkHours)
}

func TestAggregate_LeaveDaysAccumulate(t *testing.T) {
	cal := emptyCalendar()
	rows := [][]attendance.Cell{
		header("날짜", "출근", "퇴근", "비고", "상태", "", "", "연차"),
		row("2025-09-01", "", "", "", "", "", "", "완료 ( 연차 8.00h )"),
		row("2025-09-02", "", "", "오후 반차", "", "", "", ""),
	}
	records := classifyAll(t, rows, cal)
	summary := attendance.Aggregate(records, cal)

	assert.Equal(t, 1.5, summary.AnnualLeaveDays)
	// Leave-source day counts its hours; half-day books none.
	assert.Equal(t, 8.0, summary.RegularHours)
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 0.33, attendance.RoundHours(1.0/3))
	assert.Equal(t, -1.5, attendance.RoundHours(-1.5))
	assert.Equal(t, 8.0, attendance.RoundHours(8))
}
