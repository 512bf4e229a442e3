package rules

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// nowFunc is swapped in tests to pin the clock for is_within_next_days.
var nowFunc = time.Now

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	case float64, float32, int, int64, bool:
		return fmt.Sprintf("%v", s), true
	default:
		return "", false
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return *d, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// valuesEqual compares numerically when both sides coerce to numbers, and as
// strings otherwise.
func valuesEqual(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	sa, ok1 := toString(a)
	sb, ok2 := toString(b)
	if !ok1 || !ok2 {
		return false
	}
	return sa == sb
}

func compareNumeric(a, b interface{}, cmp func(a, b float64) bool) bool {
	fa, ok := toFloat(a)
	if !ok {
		return false
	}
	fb, ok := toFloat(b)
	if !ok {
		return false
	}
	return cmp(fa, fb)
}

// withinNextDays reports whether a date attribute falls inside the window
// from the start of today through n days out.
func withinNextDays(val, n interface{}) bool {
	d, ok := toTime(val)
	if !ok {
		return false
	}
	days, ok := toFloat(n)
	if !ok || days < 0 {
		return false
	}

	now := nowFunc()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	limit := startOfToday.AddDate(0, 0, int(days)+1)
	return !d.Before(startOfToday) && d.Before(limit)
}
