/*
aggregate.go - Monthly fold over classified records

PURPOSE:
  Folds a month of classified records into the MonthlySummary. The fold is a
  pure function of (records, calendar); it holds no state of its own and is
  re-run wholesale on ingestion.

FORMULAS:
  normalWorkDays    = records on a weekday that is not a holiday
  requiredWorkHours = normalWorkDays * 8
  regularHours      = sum of positive ActualWorkHours (table total)
  shortageHours     = regularHours - requiredWorkHours (signed)
  overtime          = whole worked day on weekend/holiday, or the hours past
                      8 on a worked weekday

ROUNDING:
  Totals accumulate in full float precision and are rounded to 2 decimal
  places exactly once, when the summary field is set.
*/
package attendance

import (
	"math"

	"github.com/shopspring/decimal"
)

// requiredHoursPerDay is the daily target a normal work day contributes.
const requiredHoursPerDay = 8

// Aggregate folds classified records into the monthly summary.
func Aggregate(records []ClassifiedRecord, cal *Calendar) MonthlySummary {
	var (
		totalWork  float64
		totalBreak float64
		regular    float64
		overtime   float64
		leaveDays  float64
		normalDays int
	)

	for _, r := range records {
		totalWork += r.WorkHours
		totalBreak += r.BreakHours
		leaveDays += r.LeaveDays

		offDay := r.Date.IsWeekend() || cal.IsHoliday(r.Date)
		if !offDay {
			normalDays++
		}

		if r.ActualWorkHours > 0 {
			regular += r.ActualWorkHours
		}

		// Overtime accrues only on days that were actually worked (or are
		// scheduled shifts); leave-only records never produce overtime.
		if r.WorkHours > 0 {
			if offDay {
				overtime += r.ActualWorkHours
			} else {
				overtime += math.Max(0, r.ActualWorkHours-requiredHoursPerDay)
			}
		}
	}

	required := float64(normalDays * requiredHoursPerDay)

	return MonthlySummary{
		TotalWorkHours:    RoundHours(totalWork),
		TotalBreakHours:   RoundHours(totalBreak),
		RegularHours:      RoundHours(regular),
		OvertimeHours:     RoundHours(overtime),
		AnnualLeaveDays:   leaveDays,
		ShortageHours:     RoundHours(regular - required),
		NormalWorkDays:    normalDays,
		RequiredWorkHours: required,
		Records:           records,
	}
}

// RoundHours rounds an hour total to 2 decimal places for exposure.
// decimal avoids the float artifacts of naive multiply-round-divide.
func RoundHours(h float64) float64 {
	f, _ := decimal.NewFromFloat(h).Round(2).Float64()
	return f
}
