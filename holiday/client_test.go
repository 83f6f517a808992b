package holiday_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/holiday"
)

const samplePayload = `{
  "response": {
    "body": {
      "items": {
        "item": [
          {"locdate": 20250815, "dateName": "광복절"},
          {"locdate": 20251003, "dateName": "개천절"},
          {"locdate": 123, "dateName": "broken"}
        ]
      }
    }
  }
}`

func TestFetch_ParsesLocdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025", r.URL.Query().Get("solYear"))
		assert.Equal(t, "json", r.URL.Query().Get("_type"))
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := holiday.NewClient(srv.URL, "test-key", nil)
	dates, err := c.Fetch(context.Background(), 2025)

	require.NoError(t, err)
	// The malformed locdate is skipped, not fatal.
	require.Len(t, dates, 2)
	assert.Equal(t, attendance.NewDate(2025, time.August, 15), dates[0])
	assert.Equal(t, attendance.NewDate(2025, time.October, 3), dates[1])
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := holiday.NewClient(srv.URL, "test-key", nil)
	_, err := c.Fetch(context.Background(), 2025)
	assert.Error(t, err)
}

func TestLoad_MergesFetchedWithProtectedDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"body":{"items":{"item":[{"locdate":20250606,"dateName":"현충일"},{"locdate":20250506,"dateName":"대체공휴일"}]}}}}`))
	}))
	defer srv.Close()

	c := holiday.NewClient(srv.URL, "test-key", nil)
	cal := c.Load(context.Background(), 2025)

	// Fetched extras and defaults are both present.
	assert.True(t, cal.IsHoliday(attendance.NewDate(2025, time.May, 6)))
	assert.True(t, cal.IsHoliday(attendance.NewDate(2025, time.January, 1)))

	// Defaults are protected; fetched extras are not.
	assert.True(t, cal.IsProtected(attendance.NewDate(2025, time.June, 6)))
	assert.False(t, cal.IsProtected(attendance.NewDate(2025, time.May, 6)))
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := holiday.NewClient(srv.URL, "test-key", nil)
	cal := c.Load(context.Background(), 2025)

	assert.Equal(t, len(holiday.Defaults()), cal.Len())
	assert.True(t, cal.IsHoliday(attendance.NewDate(2025, time.December, 25)))
	assert.True(t, cal.IsProtected(attendance.NewDate(2025, time.December, 25)))
}

func TestDefaultCalendar_AllProtected(t *testing.T) {
	cal := holiday.DefaultCalendar()
	for _, d := range holiday.Defaults() {
		assert.True(t, cal.IsHoliday(d), "%s", d)
		assert.True(t, cal.IsProtected(d), "%s", d)
	}
}
