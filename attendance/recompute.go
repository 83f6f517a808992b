/*
recompute.go - Incremental recomputation for user edits

PURPOSE:
  A Batch is one ingested month: its classified records, the folded summary,
  and the calendar in effect. User edits (a time field, a leave-hours value,
  a holiday flag) re-enter here: the touched record is re-derived with the
  same base-hours rules the classifier uses, and the displayed totals are
  refreshed by folding the full current record sequence. Ingestion is never
  re-run.

EDIT SEMANTICS:
  - Time edits parse strictly as H:MM; anything else is rejected with
    ErrInvalidTime. The record's base hours and status are re-derived,
    keeping its leave hours.
  - Leave-hours edits parse as a plain float, defaulting to 0 on empty or
    unparseable input.
  - Holiday toggles mutate the calendar; removing a protected default
    holiday is rejected and the flag stays on.

KNOWN ASYMMETRY:
  NormalWorkDays and RequiredWorkHours are pinned at ingestion time. A
  holiday toggle refreshes RegularHours and ShortageHours only, mirroring
  the upstream spreadsheet formulas this engine reproduces. See DESIGN.md.

IMMUTABILITY:
  Every edit derives a new ClassifiedRecord from the previous one plus the
  change; records in the slice are replaced, never mutated through shared
  pointers, so per-record views and totals cannot diverge.
*/
package attendance

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TimeField selects which clock time an edit targets.
type TimeField string

const (
	FieldStartTime TimeField = "start_time"
	FieldEndTime   TimeField = "end_time"
)

// Batch is one ingested month plus its live summary and calendar.
type Batch struct {
	Calendar *Calendar
	Summary  MonthlySummary

	today Date
	log   *slog.Logger
}

// NewBatch classifies the given records against the calendar and folds the
// initial summary.
func NewBatch(records []Record, cal *Calendar, today Date, log *slog.Logger) *Batch {
	if log == nil {
		log = slog.Default()
	}

	classified := make([]ClassifiedRecord, len(records))
	for i, rec := range records {
		classified[i] = Classify(rec, cal, today, log)
	}

	return &Batch{
		Calendar: cal,
		Summary:  Aggregate(classified, cal),
		today:    today,
		log:      log,
	}
}

// Records returns the batch's classified records in sheet order.
func (b *Batch) Records() []ClassifiedRecord {
	return b.Summary.Records
}

// =============================================================================
// EDITS
// =============================================================================

var editTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseEditTime parses a user-edited time strictly as H:MM with range
// checks. The forgiving ingestion grammar does not apply to edits.
func ParseEditTime(value string) (ClockTime, error) {
	m := editTimeRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return ClockTime{}, &InvalidTimeError{Value: value}
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h >= 24 || min >= 60 {
		return ClockTime{}, &InvalidTimeError{Value: value}
	}
	return ClockTime{Hour: h, Minute: min}, nil
}

// EditTime replaces one clock field on a record and re-derives its hours and
// status, then refreshes the displayed totals.
func (b *Batch) EditTime(index int, field TimeField, value string) (*ClassifiedRecord, error) {
	if index < 0 || index >= len(b.Summary.Records) {
		return nil, ErrRecordIndex
	}
	ct, err := ParseEditTime(value)
	if err != nil {
		return nil, err
	}

	rec := b.Summary.Records[index]
	switch field {
	case FieldStartTime:
		rec.StartTime = &ct
	case FieldEndTime:
		rec.EndTime = &ct
	default:
		return nil, fmt.Errorf("unknown time field %q", field)
	}

	b.rederiveBase(&rec)
	b.Summary.Records[index] = rec
	b.refreshTotals()

	b.log.Debug("time edited", "index", index, "field", string(field), "value", ct.String(),
		"actual", rec.ActualWorkHours)
	return &rec, nil
}

// EditLeaveHours replaces a record's annual-leave hours. Empty or
// unparseable input silently becomes 0, matching the source system.
func (b *Batch) EditLeaveHours(index int, value string) (*ClassifiedRecord, error) {
	if index < 0 || index >= len(b.Summary.Records) {
		return nil, ErrRecordIndex
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		hours = 0
	}

	rec := b.Summary.Records[index]
	rec.AnnualLeaveHours = hours
	b.rederiveBase(&rec)
	b.Summary.Records[index] = rec
	b.refreshTotals()

	b.log.Debug("leave hours edited", "index", index, "hours", hours, "actual", rec.ActualWorkHours)
	return &rec, nil
}

// SetHoliday toggles the holiday flag for a record's date. Removing a
// protected default holiday fails with ErrProtectedHoliday and the calendar
// is left unchanged.
func (b *Batch) SetHoliday(index int, holiday bool) error {
	if index < 0 || index >= len(b.Summary.Records) {
		return ErrRecordIndex
	}

	date := b.Summary.Records[index].Date
	if holiday {
		b.Calendar.Add(date)
	} else if err := b.Calendar.Remove(date); err != nil {
		return err
	}

	// The toggled date only affects its own record's classification; run it
	// through the same rules against the updated calendar.
	b.Summary.Records[index] = Classify(b.Summary.Records[index].Record, b.Calendar, b.today, b.log)
	b.refreshTotals()
	b.log.Debug("holiday toggled", "date", date, "holiday", holiday,
		"total_holidays", b.Calendar.Len())
	return nil
}

// rederiveBase recomputes one record's base hours from its clock times,
// keeping whatever leave hours it carries. Both times present makes a
// normal worked day; anything less is an absence.
func (b *Batch) rederiveBase(rec *ClassifiedRecord) {
	base := 0.0
	if rec.StartTime != nil && rec.EndTime != nil {
		work := ElapsedHours(*rec.StartTime, *rec.EndTime)
		brk := BreakTime(work)
		rec.WorkHours = work
		rec.BreakHours = brk
		rec.Status = StatusNormal
		base = math.Max(0, work-brk)
	} else {
		rec.WorkHours = 0
		rec.BreakHours = 0
		rec.Status = StatusAbsent
	}
	rec.ActualWorkHours = base + rec.AnnualLeaveHours
}

// refreshTotals re-folds the displayed totals over all records.
// NormalWorkDays and RequiredWorkHours are intentionally pinned (see the
// KNOWN ASYMMETRY note above).
func (b *Batch) refreshTotals() {
	var regular float64
	for _, r := range b.Summary.Records {
		if r.ActualWorkHours > 0 {
			regular += r.ActualWorkHours
		}
	}
	b.Summary.RegularHours = RoundHours(regular)
	b.Summary.ShortageHours = RoundHours(regular - b.Summary.RequiredWorkHours)
}
