package types

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is a half-open interval [From, To) of instants. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange reads YYYY-MM-DD (or RFC3339) bounds in loc. The start
// begins at local midnight and the end day is included in full.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		from, err := parseDay(s, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid startDate %q", start)
		}
		r.From = &from
	}
	if e := strings.TrimSpace(end); e != "" {
		day, err := parseDay(e, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid endDate %q", end)
		}
		to := day.AddDate(0, 0, 1)
		r.To = &to
	}
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return DateRange{}, fmt.Errorf("startDate must not be after endDate")
	}
	return r, nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func parseDay(value string, loc *time.Location) (time.Time, error) {
	if day, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return day, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(ts, loc), nil
}
