package normalize

import (
	"time"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/domain"
)

// Field resolution order for every canonical field: nested eventData first,
// then the legacy top-level location, then the documented default. The
// resolver centralizes the "where might this live" knowledge so each
// category formatter stays a flat list of field lookups.

// lookup returns the first non-nil value found for the given keys, checking
// all keys in eventData before falling back to the legacy top-level fields.
func lookup(e *domain.ActivityEvent, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if value, ok := e.EventData[key]; ok && value != nil {
			return value, true
		}
	}
	for _, key := range keys {
		if value, ok := e.Legacy[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func stringField(e *domain.ActivityEvent, def string, keys ...string) string {
	value, ok := lookup(e, keys...)
	if !ok {
		return def
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// intField tolerates JSON numbers arriving as float64 as well as native ints.
func intField(e *domain.ActivityEvent, def int, keys ...string) int {
	value, ok := lookup(e, keys...)
	if !ok {
		return def
	}
	switch n := value.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return def
	}
}

func floatField(e *domain.ActivityEvent, def float64, keys ...string) float64 {
	value, ok := lookup(e, keys...)
	if !ok {
		return def
	}
	switch n := value.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// boolField returns (default, false) when the field is absent or not a bool,
// so callers can distinguish "missing" from an explicit value.
func boolField(e *domain.ActivityEvent, def bool, keys ...string) (bool, bool) {
	value, ok := lookup(e, keys...)
	if !ok {
		return def, false
	}
	b, ok := value.(bool)
	if !ok {
		return def, false
	}
	return b, true
}

func mapField(e *domain.ActivityEvent, keys ...string) map[string]interface{} {
	value, ok := lookup(e, keys...)
	if !ok {
		return map[string]interface{}{}
	}
	m, ok := value.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}

func listField(e *domain.ActivityEvent, keys ...string) []interface{} {
	value, ok := lookup(e, keys...)
	if !ok {
		return nil
	}
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	return list
}

// timeField parses an instant from the locations given. Any value that fails
// to parse is treated as absent: the zero time and ok=false come back and the
// caller applies its documented default. Never an error.
func timeField(e *domain.ActivityEvent, keys ...string) (time.Time, bool) {
	value, ok := lookup(e, keys...)
	if !ok {
		return time.Time{}, false
	}
	return parseInstant(value)
}

func parseInstant(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts, true
		}
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", v); err == nil {
			return ts, true
		}
		return time.Time{}, false
	case float64:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v)).UTC(), true
	default:
		return time.Time{}, false
	}
}
