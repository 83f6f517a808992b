/*
format.go - Display formatting for summary and record values

The rendering collaborator shows times as HH:MM, hour totals as "H시간 M분"
or signed HH:MM, and dates with the Korean weekday letter. These helpers
keep that formatting next to the types so every consumer renders the same
way.
*/
package attendance

import (
	"fmt"
	"math"
)

var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// FormatClock renders an optional clock time, "-" when absent.
func FormatClock(ct *ClockTime) string {
	if ct == nil {
		return "-"
	}
	return ct.String()
}

// KoreanString renders a date as "2025-09-01 (월)".
func (d Date) KoreanString() string {
	return fmt.Sprintf("%s (%s)", d.String(), koreanWeekdays[int(d.Weekday())%len(koreanWeekdays)])
}

// FormatHoursHHMM renders an hour total as HH:MM, signed for shortfalls.
func FormatHoursHHMM(hours float64) string {
	abs := math.Abs(hours)
	whole := int(math.Floor(abs))
	minutes := int(math.Round((abs - float64(whole)) * 60))

	s := fmt.Sprintf("%02d:%02d", whole, minutes)
	if hours < 0 {
		return "-" + s
	}
	return s
}

// FormatHoursKorean renders an hour total as "H시간 M분", signed for
// shortfalls. Zero renders as "0시간 0분".
func FormatHoursKorean(hours float64) string {
	abs := math.Abs(hours)
	whole := int(math.Floor(abs))
	minutes := int(math.Round((abs - float64(whole)) * 60))

	s := ""
	if whole > 0 {
		s = fmt.Sprintf("%d시간", whole)
	}
	if minutes > 0 {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%d분", minutes)
	}
	if s == "" {
		s = "0시간 0분"
	}
	if hours < 0 {
		return "-" + s
	}
	return s
}
