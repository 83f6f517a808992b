/*
Package attendance implements the monthly attendance derivation engine.

PURPOSE:
  Turns a spreadsheet of daily time-clock rows into a monthly summary:
  total worked hours, break deductions, regular vs. overtime hours,
  annual-leave usage, and a signed shortage/surplus balance against the
  month's required hours.

KEY CONCEPTS IN THIS FILE (types.go):
  - Cell: A raw spreadsheet cell value (string, number, or date)
  - Date: A calendar day with no time component
  - ClockTime: A wall-clock hour/minute pair
  - Record: One parsed row, pre-classification
  - ClassifiedRecord: Record plus derived hours and status
  - MonthlySummary: The folded monthly totals

PIPELINE:
  raw rows -> InferColumns -> BuildRecords -> Classify -> Aggregate

  User edits re-enter through Batch (recompute.go), which re-derives the
  edited record with the same rules and re-folds the totals.

DESIGN PRINCIPLES:
  1. Parsers never fail hard: a bad cell yields an absent field, and the
     classifier treats absence as its own case.
  2. The holiday calendar is an explicit value passed into every
     classification and aggregation call, never package state.
  3. Edits derive new records; classified records are not mutated in place.

SEE ALSO:
  - parse.go: date/time field parsers
  - columns.go: header-to-role inference
  - classify.go: per-record rule cascade
  - aggregate.go: monthly fold
  - recompute.go: incremental edit handling
*/
package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// CELL - Raw spreadsheet value
// =============================================================================

// Cell is a raw cell value as delivered by the workbook decoder.
// Supported dynamic types: string, float64, int, and time.Time.
type Cell = any

// =============================================================================
// DATE - Calendar day, no time component
// =============================================================================

// Date is a calendar day at day granularity. All constructors normalize to
// midnight UTC, so Date values are directly comparable and usable as map keys.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar-day components.
// Components are taken literally; no timezone conversion is performed.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// SameMonth reports whether two dates share the same (month, year).
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// CLOCK TIME - Wall-clock hour and minute
// =============================================================================

// ClockTime is a wall-clock time of day. No timezone, no date.
type ClockTime struct {
	Hour   int
	Minute int
}

// Minutes returns the time as minutes since midnight.
func (ct ClockTime) Minutes() int { return ct.Hour*60 + ct.Minute }

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", ct.Hour, ct.Minute)
}

// =============================================================================
// STATUS VOCABULARY
// =============================================================================

// Status is the classified state of one attendance record. The vocabulary is
// the label set of the source spreadsheets (Korean HR terms).
type Status string

const (
	StatusNormal      Status = "정상"     // regular worked day
	StatusLeave       Status = "연차"     // annual leave
	StatusSick        Status = "병가"     // sick day
	StatusHalfDay     Status = "반차"     // half-day leave
	StatusOffSite     Status = "외근"     // off-site work
	StatusHolidayWork Status = "휴일근무" // worked on weekend/holiday
	StatusDayOff      Status = "휴무"     // weekend/holiday, not worked
	StatusIncomplete  Status = "미완료"   // clock-in without clock-out
	StatusScheduled   Status = "근무예정" // future weekday, not yet worked
	StatusAbsent      Status = "결근"     // weekday with no times and no leave
)

// =============================================================================
// RECORDS
// =============================================================================

// Record is one parsed attendance row before classification. Start and end
// times are nil when the cell was empty or unparseable.
type Record struct {
	Date      Date
	StartTime *ClockTime
	EndTime   *ClockTime

	// Free-text columns, kept raw for the classifier's pattern rules.
	Note            string
	RawStatus       string
	LeaveSourceText string

	// AnnualLeaveHours is populated by the classifier (or a later edit);
	// records are built with 0.
	AnnualLeaveHours float64
}

// ClassifiedRecord is a Record plus the hours and status derived by the
// classifier. LeaveDays is this record's contribution to the monthly
// annual-leave-day count (8 leave hours = 1 day, a half-day = 0.5).
type ClassifiedRecord struct {
	Record

	WorkHours       float64
	BreakHours      float64
	ActualWorkHours float64
	Status          Status
	LeaveDays       float64
}

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

// MonthlySummary holds the folded totals for one month of records.
// All hour fields are rounded to 2 decimal places at the point they are set;
// intermediate accumulation keeps full float precision.
type MonthlySummary struct {
	TotalWorkHours  float64
	TotalBreakHours float64

	// RegularHours is the table-displayed total: the sum of every record's
	// ActualWorkHours where it is positive. It is independent of the
	// per-record regular/overtime split.
	RegularHours  float64
	OvertimeHours float64

	AnnualLeaveDays float64

	// ShortageHours = RegularHours - RequiredWorkHours.
	// Positive = surplus, negative = shortfall.
	ShortageHours float64

	NormalWorkDays    int
	RequiredWorkHours float64

	Records []ClassifiedRecord
}
