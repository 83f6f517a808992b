/*
classify.go - Per-record attendance rule cascade

PURPOSE:
  Assigns each record a status and derives its work/break/actual hours.
  Spreadsheet input is ambiguous and often self-contradictory, so the rules
  run in a strict documented precedence and the first matching branch decides.

RULE ORDER:
  Annotation rules (leave signals), highest precedence first:
   1. leave-source column (fixed column H): extract leave hours, merge with
      any worked time below
   2. status column leave annotation: record is leave only, no merge
   3. note leave keywords: record is leave only, no merge
   4. note sick/half-day/off-site keywords: no merge

  Hour branches, evaluated when no annotation rule short-circuited:
   5. weekend/holiday: worked -> holiday-work (all overtime), else day-off
   6. both times present: elapsed minus break, plus any leave hours
   7. start only: end auto-completed at start+9h, status incomplete
   8. no times, future weekday: scheduled at 8 actual hours
   9. otherwise: leave hours only, or absent

  Final merge:
  10. leave hours found by rule 1 are re-merged into whatever branch 6-9
      produced, recomputing base hours from the clock times when present.

DESIGN:
  Each annotation rule is an ordered (name, eval) pair returning a tagged
  outcome {status, leave hours, leave days, shortCircuit} instead of relying
  on early-return control flow, so precedence is independently testable.

BREAK DEDUCTION:
  0 worked hours -> 0; under 4.5 hours -> 0.5; 4.5 hours and over -> 1.
*/
package attendance

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// autoShiftHours is the assumed shift length when only a clock-in exists:
// the clock-out is completed 9 hours later (8 worked + 1 break).
const autoShiftHours = 9

// =============================================================================
// LEAVE ANNOTATION PATTERNS
// =============================================================================

// leaveSourcePatterns extract a leave-hours value from the fixed leave-source
// column, tried in order. Forms like "완료 ( 연차 8.00h )", "연차 8h", "8h 연차".
var leaveSourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)완료\s*\(\s*연차\s*(\d+(?:\.\d+)?)h?\s*\)`),
	regexp.MustCompile(`(?i)완료\s*\(\s*연차\s*(\d+(?:\.\d+)?)\s*\)`),
	regexp.MustCompile(`(?i)연차\s*(\d+(?:\.\d+)?)h?`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)h?\s*연차`),
}

var (
	bareNumberRe     = regexp.MustCompile(`^(\d+(?:\.\d+)?)$`)
	statusLeaveRe    = regexp.MustCompile(`연차\s*(\d+(?:\.\d+)?)`)
	statusCompleteRe = regexp.MustCompile(`완료\s*\(\s*연차\s*(\d+(?:\.\d+)?)h?\s*\)`)
	noteLeaveHoursRe = regexp.MustCompile(`연차\s*(\d+(?:\.\d+)?)`)
)

// =============================================================================
// RULE CASCADE
// =============================================================================

// ruleOutcome is the tagged result of one annotation rule.
type ruleOutcome struct {
	matched    bool
	status     Status
	leaveHours float64
	leaveDays  float64

	// shortCircuit stops classification here: the record's hours stay at
	// zero and the hour branches never run.
	shortCircuit bool
}

type annotationRule struct {
	name string
	eval func(rec Record) ruleOutcome
}

// annotationRules in precedence order; the first match is applied and the
// remaining rules are skipped.
var annotationRules = []annotationRule{
	{name: "leave-source", eval: evalLeaveSource},
	{name: "status-column", eval: evalStatusColumn},
	{name: "note-leave", eval: evalNoteLeave},
	{name: "note-other", eval: evalNoteOther},
}

// evalLeaveSource reads the fixed leave-source column. A successful
// extraction merges with the base work-hours computation rather than
// short-circuiting, so a worked day with a partial-leave annotation counts
// both.
func evalLeaveSource(rec Record) ruleOutcome {
	text := strings.TrimSpace(rec.LeaveSourceText)
	if text == "" {
		return ruleOutcome{}
	}

	for _, re := range leaveSourcePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		hours, _ := strconv.ParseFloat(m[1], 64)
		return ruleOutcome{matched: true, status: StatusLeave, leaveHours: hours, leaveDays: hours / 8}
	}

	if m := bareNumberRe.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		if hours > 0 {
			return ruleOutcome{matched: true, status: StatusLeave, leaveHours: hours, leaveDays: hours / 8}
		}
	}

	return ruleOutcome{}
}

// evalStatusColumn reads the status column's leave annotation. The record is
// treated as leave only; worked time is never merged in.
func evalStatusColumn(rec Record) ruleOutcome {
	status := strings.ToLower(rec.RawStatus)
	if status == "" {
		return ruleOutcome{}
	}

	completeMatch := statusCompleteRe.FindStringSubmatch(status)
	leaveMatch := statusLeaveRe.FindStringSubmatch(status)
	if completeMatch == nil && leaveMatch == nil && !strings.Contains(status, "연차") {
		return ruleOutcome{}
	}

	hours := 8.0
	if completeMatch != nil {
		hours, _ = strconv.ParseFloat(completeMatch[1], 64)
	} else if leaveMatch != nil {
		hours, _ = strconv.ParseFloat(leaveMatch[1], 64)
	}
	return ruleOutcome{matched: true, status: StatusLeave, leaveHours: hours, leaveDays: hours / 8, shortCircuit: true}
}

// evalNoteLeave reads leave/vacation keywords from the free-text note.
// Without an explicit hour count the day counts as one whole leave day.
func evalNoteLeave(rec Record) ruleOutcome {
	note := strings.ToLower(rec.Note)
	if !strings.Contains(note, "연차") && !strings.Contains(note, "휴가") && !strings.Contains(note, "annual") {
		return ruleOutcome{}
	}

	if m := noteLeaveHoursRe.FindStringSubmatch(note); m != nil {
		hours, _ := strconv.ParseFloat(m[1], 64)
		return ruleOutcome{matched: true, status: StatusLeave, leaveHours: hours, leaveDays: hours / 8, shortCircuit: true}
	}
	return ruleOutcome{matched: true, status: StatusLeave, leaveHours: 8, leaveDays: 1, shortCircuit: true}
}

// evalNoteOther handles sick / half-day / off-site notes. A half-day books
// 0.5 leave days at 4 hours.
func evalNoteOther(rec Record) ruleOutcome {
	note := strings.ToLower(rec.Note)
	switch {
	case strings.Contains(note, "병가"):
		return ruleOutcome{matched: true, status: StatusSick, shortCircuit: true}
	case strings.Contains(note, "반차"):
		return ruleOutcome{matched: true, status: StatusHalfDay, leaveHours: 4, leaveDays: 0.5, shortCircuit: true}
	case strings.Contains(note, "외근"):
		return ruleOutcome{matched: true, status: StatusOffSite, shortCircuit: true}
	}
	return ruleOutcome{}
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify derives status and hours for one record. cal supplies the holiday
// set, today anchors the scheduled-vs-absent decision for empty weekdays.
func Classify(rec Record, cal *Calendar, today Date, log *slog.Logger) ClassifiedRecord {
	if log == nil {
		log = slog.Default()
	}

	out := ClassifiedRecord{Record: rec, Status: StatusNormal}

	// Annotation rules: first match wins.
	merged := false
	for _, rule := range annotationRules {
		o := rule.eval(rec)
		if !o.matched {
			continue
		}
		out.Status = o.status
		out.LeaveDays = o.leaveDays
		if o.leaveHours > 0 {
			out.AnnualLeaveHours = o.leaveHours
		}
		log.Debug("annotation rule matched",
			"date", rec.Date, "rule", rule.name, "status", o.status,
			"leave_hours", o.leaveHours, "short_circuit", o.shortCircuit)
		if o.shortCircuit {
			return out
		}
		merged = true
		break
	}

	offDay := rec.Date.IsWeekend() || cal.IsHoliday(rec.Date)
	bothTimes := rec.StartTime != nil && rec.EndTime != nil

	// Weekend/holiday without a full worked day is simply a day off: zero
	// hours, even when a leave annotation was found above.
	if offDay && !bothTimes {
		out.Status = StatusDayOff
		return out
	}

	switch {
	case bothTimes:
		work := ElapsedHours(*rec.StartTime, *rec.EndTime)
		brk := BreakTime(work)
		out.WorkHours = work
		out.BreakHours = brk
		out.ActualWorkHours = math.Max(0, work-brk) + out.AnnualLeaveHours
		if offDay {
			out.Status = StatusHolidayWork
		}

	case rec.StartTime != nil:
		end := ClockTime{Hour: rec.StartTime.Hour + autoShiftHours, Minute: rec.StartTime.Minute}
		if end.Hour >= 24 {
			end.Hour -= 24
		}
		out.EndTime = &end
		out.WorkHours = autoShiftHours
		out.BreakHours = BreakTime(autoShiftHours)
		out.ActualWorkHours = math.Max(0, autoShiftHours-out.BreakHours) + out.AnnualLeaveHours
		out.Status = StatusIncomplete

	case rec.Date.After(today) && !offDay:
		out.Status = StatusScheduled
		out.WorkHours = autoShiftHours
		out.BreakHours = 1
		out.ActualWorkHours = 8 + out.AnnualLeaveHours

	default:
		out.ActualWorkHours = out.AnnualLeaveHours
		if out.AnnualLeaveHours > 0 {
			out.Status = StatusLeave
		} else {
			out.Status = StatusAbsent
		}
	}

	// Re-merge leave hours found by the leave-source rule: actual hours are
	// always base hours (recomputed from the clock times when both exist)
	// plus the leave hours, regardless of which branch ran.
	if merged && out.AnnualLeaveHours > 0 {
		base := 0.0
		if out.StartTime != nil && out.EndTime != nil {
			work := ElapsedHours(*out.StartTime, *out.EndTime)
			brk := BreakTime(work)
			out.WorkHours = work
			out.BreakHours = brk
			base = math.Max(0, work-brk)
		}
		out.ActualWorkHours = base + out.AnnualLeaveHours
		log.Debug("leave hours merged",
			"date", rec.Date, "base_hours", base,
			"leave_hours", out.AnnualLeaveHours, "actual", out.ActualWorkHours)
	}

	return out
}

// =============================================================================
// HOUR HELPERS
// =============================================================================

// ElapsedHours returns the worked span between two clock times in hours.
// A span that crosses midnight wraps by a day instead of going negative.
func ElapsedHours(start, end ClockTime) float64 {
	minutes := end.Minutes() - start.Minutes()
	if minutes < 0 {
		minutes += 24 * 60
	}
	return float64(minutes) / 60
}

// BreakTime returns the statutory break deduction for a worked span.
func BreakTime(workHours float64) float64 {
	switch {
	case workHours == 0:
		return 0
	case workHours >= 4.5:
		return 1
	default:
		return 0.5
	}
}
