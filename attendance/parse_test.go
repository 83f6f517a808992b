package attendance_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// DATE PARSER
// =============================================================================

func TestParseDate_EquivalentFormats(t *testing.T) {
	// All literal spellings of the same calendar date parse equal.
	want := attendance.NewDate(2025, time.September, 1)

	inputs := []string{
		"2025-9-1",
		"2025-09-01",
		"2025/09/01",
		"2025.09.01",
		"09/01/2025",
		"9/1/2025",
		"09-01-2025",
		"09.01.2025",
		"20250901",
		"250901",
	}
	for _, in := range inputs {
		got, ok := attendance.ParseDate(in)
		require.True(t, ok, "input %q", in)
		assert.True(t, got.Equal(want), "input %q parsed to %s", in, got)
	}
}

func TestParseDate_StructuredValue(t *testing.T) {
	ts := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	got, ok := attendance.ParseDate(ts)
	require.True(t, ok)
	assert.True(t, got.Equal(attendance.NewDate(2025, time.March, 15)))
}

func TestParseDate_ExcelSerial(t *testing.T) {
	// Serial 25569 is the 1970-01-01 offset.
	got, ok := attendance.ParseDate("25569")
	require.True(t, ok)
	assert.True(t, got.Equal(attendance.NewDate(1970, time.January, 1)))

	// 2025-09-01 is serial 45901.
	got, ok = attendance.ParseDate("45901")
	require.True(t, ok)
	assert.True(t, got.Equal(attendance.NewDate(2025, time.September, 1)))
}

func TestParseDate_SerialAsNumberCell(t *testing.T) {
	got, ok := attendance.ParseDate(float64(45901))
	require.True(t, ok)
	assert.True(t, got.Equal(attendance.NewDate(2025, time.September, 1)))
}

func TestParseDate_GenericFallback(t *testing.T) {
	got, ok := attendance.ParseDate("2025-09-01T09:00:00Z")
	require.True(t, ok)
	assert.True(t, got.Equal(attendance.NewDate(2025, time.September, 1)))
}

func TestParseDate_Failure(t *testing.T) {
	for _, in := range []attendance.Cell{"", "not a date", "99999999999", nil} {
		_, ok := attendance.ParseDate(in)
		assert.False(t, ok, "input %v", in)
	}
}

// =============================================================================
// TIME PARSER
// =============================================================================

func TestParseTime_RoundTrip(t *testing.T) {
	// Formatting h:m as HH:MM and parsing it back yields the same pair.
	for h := 0; h < 24; h += 3 {
		for m := 0; m < 60; m += 17 {
			in := fmt.Sprintf("%02d:%02d", h, m)
			got, ok := attendance.ParseTime(in)
			require.True(t, ok, "input %q", in)
			assert.Equal(t, attendance.ClockTime{Hour: h, Minute: m}, got)
		}
	}
}

func TestParseTime_Formats(t *testing.T) {
	tests := []struct {
		in   attendance.Cell
		want attendance.ClockTime
	}{
		{"9:00", attendance.ClockTime{Hour: 9, Minute: 0}},
		{"09:00:30", attendance.ClockTime{Hour: 9, Minute: 0}},       // seconds discarded
		{"2025-09-01T09:30:00Z", attendance.ClockTime{Hour: 9, Minute: 30}}, // timestamp
		{"0.375", attendance.ClockTime{Hour: 9, Minute: 0}},          // fraction of day
		{"0.5", attendance.ClockTime{Hour: 12, Minute: 0}},
		{".75", attendance.ClockTime{Hour: 18, Minute: 0}},
		{"0900", attendance.ClockTime{Hour: 9, Minute: 0}},           // HHMM
		{"1730", attendance.ClockTime{Hour: 17, Minute: 30}},
		{"930", attendance.ClockTime{Hour: 9, Minute: 30}},           // HMM
		{float64(0.375), attendance.ClockTime{Hour: 9, Minute: 0}},
		{time.Date(2025, 9, 1, 18, 15, 0, 0, time.UTC), attendance.ClockTime{Hour: 18, Minute: 15}},
	}
	for _, tt := range tests {
		got, ok := attendance.ParseTime(tt.in)
		require.True(t, ok, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestParseTime_Failure(t *testing.T) {
	for _, in := range []attendance.Cell{"", "-", "2500", "970", "abc", nil, "25:00x"} {
		_, ok := attendance.ParseTime(in)
		assert.False(t, ok, "input %v", in)
	}
}

func TestParseTime_DigitRunRangeChecks(t *testing.T) {
	// 4- and 3-digit runs are valid only when hours<24 and minutes<60.
	_, ok := attendance.ParseTime("2461")
	assert.False(t, ok)
	_, ok = attendance.ParseTime("1299")
	assert.False(t, ok)
}
