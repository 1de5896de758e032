package entity

import (
	"strconv"
	"time"

	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// Coerce normalizes a create/update payload in place. The three passes run
// in a fixed order and each touches only the fields in its named set:
//
//  1. empty-string sanitization for typed fields, plus numeric parsing
//  2. boolean coercion
//  3. date coercion
//
// The storage layer treats an empty string as invalid for typed columns, so
// empty strings in any typed set become nulls rather than write failures.
func Coerce(rec store.Record) {
	sanitizeEmpty(rec)
	coerceBooleans(rec)
	coerceDates(rec)
}

func sanitizeEmpty(rec store.Record) {
	for field, value := range rec {
		typed := numericFields[field] || booleanFields[field] || dateFields[field]
		if !typed {
			continue
		}
		s, isString := value.(string)
		if !isString {
			continue
		}
		if s == "" {
			rec[field] = nil
			continue
		}
		if numericFields[field] {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				rec[field] = n
			} else {
				rec[field] = nil
			}
		}
	}
}

func coerceBooleans(rec store.Record) {
	for field := range booleanFields {
		value, present := rec[field]
		if !present {
			continue
		}
		if s, isString := value.(string); isString {
			rec[field] = s == "true" || s == "1"
		}
	}
}

// dateOnlyLayout matches bare dates from the CSV import path.
const dateOnlyLayout = "2006-01-02"

// fallbackLayouts are tried for date strings that are neither bare dates
// nor RFC3339 timestamps.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123,
}

func coerceDates(rec store.Record) {
	for field := range dateFields {
		value, present := rec[field]
		if !present {
			continue
		}
		s, isString := value.(string)
		if !isString {
			continue
		}
		if t, ok := parseDate(s); ok {
			rec[field] = t
		} else {
			rec[field] = nil
		}
	}
}

// NumericValue normalizes a stored numeric attribute for readers. Depending
// on driver and wire protocol, a numeric column can scan back as float64,
// an integer type, or a string.
func NumericValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	// A bare date expands to UTC midnight.
	if t, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
