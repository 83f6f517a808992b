/*
client.go - Public holiday lookup

PURPOSE:
  Loads Korean public holidays for a year from the data.go.kr special-day
  API (한국천문연구원 특일정보). Any failure — network, HTTP status, JSON
  shape — falls back to the built-in default holiday list so the engine
  always has a usable calendar.

PROTECTION:
  The default holidays are always marked protected in the returned
  calendar: users can toggle extra holidays on and off, but the statutory
  defaults cannot be unchecked.
*/
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/warp/attendance-engine/attendance"
)

// DefaultBaseURL is the data.go.kr rest-day information endpoint.
const DefaultBaseURL = "https://apis.data.go.kr/B090041/openapi/service/SpcdeInfoService/getRestDeInfo"

// Client fetches public holidays for a year.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	log        *slog.Logger
}

// NewClient builds a holiday client. An empty baseURL selects
// DefaultBaseURL; a nil logger selects slog.Default().
func NewClient(baseURL, serviceKey string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		serviceKey: serviceKey,
		log:        log,
	}
}

// =============================================================================
// API RESPONSE SHAPE
// =============================================================================

type apiResponse struct {
	Response struct {
		Body struct {
			Items struct {
				Item []apiItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type apiItem struct {
	// locdate arrives as a YYYYMMDD number.
	Locdate json.Number `json:"locdate"`
	Name    string      `json:"dateName"`
}

// Fetch returns the holiday dates for a year from the API. It does not
// fall back; callers that want the default list on failure use Load.
func (c *Client) Fetch(ctx context.Context, year int) ([]attendance.Date, error) {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("solYear", fmt.Sprintf("%d", year))
	q.Set("numOfRows", "100")
	q.Set("_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned %s", resp.Status)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode holiday response: %w", err)
	}

	items := payload.Response.Body.Items.Item
	dates := make([]attendance.Date, 0, len(items))
	for _, item := range items {
		d, ok := parseLocdate(item.Locdate.String())
		if !ok {
			c.log.Warn("skipping malformed locdate", "locdate", item.Locdate, "name", item.Name)
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Load returns a calendar for the year: fetched holidays merged with the
// protected defaults, or the defaults alone when the fetch fails.
func (c *Client) Load(ctx context.Context, year int) *attendance.Calendar {
	fetched, err := c.Fetch(ctx, year)
	if err != nil {
		c.log.Warn("holiday API unavailable, using default holidays", "year", year, "error", err)
		return DefaultCalendar()
	}

	defaults := Defaults()
	c.log.Info("holidays loaded", "year", year, "count", len(fetched))
	return attendance.NewCalendar(append(fetched, defaults...), defaults)
}

// parseLocdate parses a YYYYMMDD string.
func parseLocdate(s string) (attendance.Date, bool) {
	if len(s) != 8 {
		return attendance.Date{}, false
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return attendance.Date{}, false
	}
	return attendance.DateOf(t), true
}

// =============================================================================
// DEFAULT HOLIDAYS
// =============================================================================

// Defaults returns the built-in 2025 Korean public holidays. These are the
// protected dates that cannot be toggled off.
func Defaults() []attendance.Date {
	return []attendance.Date{
		attendance.NewDate(2025, time.January, 1),   // 신정
		attendance.NewDate(2025, time.February, 9),  // 설날 연휴
		attendance.NewDate(2025, time.February, 10),
		attendance.NewDate(2025, time.February, 11),
		attendance.NewDate(2025, time.February, 12),
		attendance.NewDate(2025, time.March, 1),    // 삼일절
		attendance.NewDate(2025, time.May, 5),      // 어린이날
		attendance.NewDate(2025, time.May, 15),     // 부처님오신날
		attendance.NewDate(2025, time.June, 6),     // 현충일
		attendance.NewDate(2025, time.August, 15),  // 광복절
		attendance.NewDate(2025, time.October, 3),  // 추석 연휴
		attendance.NewDate(2025, time.October, 4),
		attendance.NewDate(2025, time.October, 5),
		attendance.NewDate(2025, time.October, 6),
		attendance.NewDate(2025, time.October, 9),   // 한글날
		attendance.NewDate(2025, time.December, 25), // 성탄절
	}
}

// DefaultCalendar returns a calendar seeded with the default holidays, all
// protected.
func DefaultCalendar() *attendance.Calendar {
	defaults := Defaults()
	return attendance.NewCalendar(defaults, defaults)
}
