/*
holiday.go - Mutable holiday calendar with a protected subset

PURPOSE:
  The calendar the classifier and aggregator consult. It is an explicit value
  threaded through every call, initialized once at session start (remote
  fetch or static fallback, see the holiday package) and mutated only by
  user-driven toggle events.

  A protected subset ("default holidays") can never be removed: unchecking a
  statutory holiday in the UI is rejected.
*/
package attendance

import "sort"

// Calendar is a set of holiday dates plus the protected default subset.
// It is not safe for concurrent mutation; callers serialize access.
type Calendar struct {
	holidays  map[Date]struct{}
	protected map[Date]struct{}
}

// NewCalendar builds a calendar from an initial holiday set and the
// protected subset. Protected dates need not appear in holidays; protection
// applies regardless of how the initial set was sourced.
func NewCalendar(holidays, protected []Date) *Calendar {
	c := &Calendar{
		holidays:  make(map[Date]struct{}, len(holidays)),
		protected: make(map[Date]struct{}, len(protected)),
	}
	for _, d := range holidays {
		c.holidays[d] = struct{}{}
	}
	for _, d := range protected {
		c.protected[d] = struct{}{}
	}
	return c
}

// IsHoliday reports whether d is in the holiday set. Nil-safe: a nil
// calendar has no holidays.
func (c *Calendar) IsHoliday(d Date) bool {
	if c == nil {
		return false
	}
	_, ok := c.holidays[d]
	return ok
}

// IsProtected reports whether d belongs to the default-holiday subset.
func (c *Calendar) IsProtected(d Date) bool {
	if c == nil {
		return false
	}
	_, ok := c.protected[d]
	return ok
}

// Add marks d as a holiday.
func (c *Calendar) Add(d Date) {
	c.holidays[d] = struct{}{}
}

// Remove unmarks d. Protected dates are rejected with ErrProtectedHoliday
// and remain in the set.
func (c *Calendar) Remove(d Date) error {
	if c.IsProtected(d) {
		return ErrProtectedHoliday
	}
	delete(c.holidays, d)
	return nil
}

// Len returns the number of holidays in the set.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.holidays)
}

// Dates returns the holiday set in ascending order.
func (c *Calendar) Dates() []Date {
	if c == nil {
		return nil
	}
	out := make([]Date, 0, len(c.holidays))
	for d := range c.holidays {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
