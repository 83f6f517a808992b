/*
parse.go - Field parsers for heterogeneous spreadsheet cells

PURPOSE:
  Pure functions converting raw cell values into Date / ClockTime values.
  Sheets arrive with wildly inconsistent formats: structured dates, Excel
  serial numbers, a handful of literal date layouts, fraction-of-day time
  serials, and bare digit runs. Each parser tries its resolutions in a fixed
  order and the first match wins.

CONTRACT:
  Parsers never fail hard. A value that matches nothing yields ok=false and
  the caller records an absent field. No timezone conversion anywhere:
  day/month/year and hour/minute components are taken literally.
*/
package attendance

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is the day-serial origin used by legacy spreadsheets
// (serial 25569 = 1970-01-01).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// =============================================================================
// DATE PARSER
// =============================================================================

// datePatterns are tried in order; the first matching pattern wins and no
// further patterns are consulted.
var datePatterns = []struct {
	re    *regexp.Regexp
	order dateOrder
}{
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), orderYMD},  // 2025-09-01
	{regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`), orderYMD},  // 2025/09/01
	{regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})$`), orderYMD}, // 2025.09.01
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), orderMDY},  // 09/01/2025
	{regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), orderMDY},  // 09-01-2025
	{regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`), orderMDY}, // 09.01.2025
	{regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`), orderYMD},        // 20250901
	{regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})$`), orderYMD2},       // 250901
}

type dateOrder int

const (
	orderYMD dateOrder = iota
	orderMDY
	orderYMD2 // two-digit year, "20" prefixed
)

var serialDateRe = regexp.MustCompile(`^\d{5}$`)

// genericDateLayouts back the final fallback: anything the literal patterns
// missed that still denotes a valid calendar date.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006년 1월 2일",
}

// ParseDate converts a raw cell value into a calendar date.
//
// Resolution order, first match wins:
//  1. structured date value, used as-is
//  2. exactly 5 digits: legacy spreadsheet day serial
//  3. eight literal patterns (see datePatterns)
//  4. generic layout fallback
func ParseDate(cell Cell) (Date, bool) {
	switch v := cell.(type) {
	case nil:
		return Date{}, false
	case time.Time:
		return DateOf(v), true
	}

	s := strings.TrimSpace(cellString(cell))
	if s == "" {
		return Date{}, false
	}

	if serialDateRe.MatchString(s) {
		serial, _ := strconv.Atoi(s)
		return DateOf(excelEpoch.AddDate(0, 0, serial)), true
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		var year, month, day int
		switch p.order {
		case orderMDY:
			month, _ = strconv.Atoi(m[1])
			day, _ = strconv.Atoi(m[2])
			year, _ = strconv.Atoi(m[3])
		case orderYMD2:
			year, _ = strconv.Atoi("20" + m[1])
			month, _ = strconv.Atoi(m[2])
			day, _ = strconv.Atoi(m[3])
		default:
			year, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			day, _ = strconv.Atoi(m[3])
		}
		return NewDate(year, time.Month(month), day), true
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}

	return Date{}, false
}

// =============================================================================
// TIME PARSER
// =============================================================================

var (
	clockRe      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	dayFracRe    = regexp.MustCompile(`^0?\.\d+$|^\d+\.\d+$`)
	fourDigitRe  = regexp.MustCompile(`^(\d{2})(\d{2})$`)
	threeDigitRe = regexp.MustCompile(`^(\d)(\d{2})$`)
)

// timestampLayouts handle cells carrying a full date-time with a 'T'
// separator; only the clock components are kept.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime converts a raw cell value into a wall-clock time.
//
// Resolution order, first match wins:
//  1. structured date/time value: hour/minute extracted directly
//  2. 'T'-separated timestamp string
//  3. H:MM or H:MM:SS (seconds discarded)
//  4. decimal fraction of a day (spreadsheet time serial)
//  5. 4 digits HHMM, valid only when in range
//  6. 3 digits HMM, valid only when in range
func ParseTime(cell Cell) (ClockTime, bool) {
	switch v := cell.(type) {
	case nil:
		return ClockTime{}, false
	case time.Time:
		return ClockTime{Hour: v.Hour(), Minute: v.Minute()}, true
	}

	s := strings.TrimSpace(cellString(cell))
	if s == "" {
		return ClockTime{}, false
	}

	if strings.Contains(s, "T") {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, true
			}
		}
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return ClockTime{Hour: h, Minute: min}, true
	}

	if dayFracRe.MatchString(s) {
		frac, err := strconv.ParseFloat(s, 64)
		if err == nil {
			hours := int(math.Floor(frac * 24))
			minutes := int(math.Round((frac*24 - float64(hours)) * 60))
			return ClockTime{Hour: hours, Minute: minutes}, true
		}
	}

	if m := fourDigitRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return ClockTime{Hour: h, Minute: min}, true
		}
	}

	if m := threeDigitRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return ClockTime{Hour: h, Minute: min}, true
		}
	}

	return ClockTime{}, false
}

// =============================================================================
// CELL STRING CONVERSION
// =============================================================================

// cellString renders a cell the way the source sheets do: numbers without a
// trailing ".0", everything else via fmt-free conversion.
func cellString(cell Cell) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return ""
	}
}

// CellText returns the trimmed text of a cell, for free-text columns.
func CellText(cell Cell) string {
	return strings.TrimSpace(cellString(cell))
}
