package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

func TestCoerceNumericStrings(t *testing.T) {
	rec := store.Record{
		"current_stock": "10",
		"unit_price":    "42.50",
		"quantity":      "not-a-number",
		"reorder_level": "",
	}

	Coerce(rec)

	assert.Equal(t, float64(10), rec["current_stock"])
	assert.Equal(t, 42.50, rec["unit_price"])
	assert.Nil(t, rec["quantity"])
	assert.Nil(t, rec["reorder_level"])
}

func TestCoerceNumericLeavesNumbersAlone(t *testing.T) {
	rec := store.Record{"amount": 99.0}

	Coerce(rec)

	assert.Equal(t, 99.0, rec["amount"])
}

func TestCoerceBooleanStrings(t *testing.T) {
	rec := store.Record{
		"is_active": "true",
		"is_veg":    "1",
		"delivered": "yes",
		"paused":    "false",
	}

	Coerce(rec)

	assert.Equal(t, true, rec["is_active"])
	assert.Equal(t, true, rec["is_veg"])
	assert.Equal(t, false, rec["delivered"])
	assert.Equal(t, false, rec["paused"])
}

func TestCoerceEmptyBooleanBecomesNull(t *testing.T) {
	rec := store.Record{"is_active": ""}

	Coerce(rec)

	assert.Nil(t, rec["is_active"])
}

func TestCoerceBareDateExpandsToUTCMidnight(t *testing.T) {
	rec := store.Record{"due_date": "2026-01-01"}

	Coerce(rec)

	got, ok := rec["due_date"].(time.Time)
	assert.True(t, ok, "expected a time.Time, got %T", rec["due_date"])
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestCoerceTimestampDates(t *testing.T) {
	rec := store.Record{
		"start_date": "2026-03-15T08:30:00Z",
		"end_date":   "2026-03-15 08:30:00",
	}

	Coerce(rec)

	start, ok := rec["start_date"].(time.Time)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC), start.UTC())

	end, ok := rec["end_date"].(time.Time)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC), end.UTC())
}

func TestCoerceUnparsableDateBecomesNull(t *testing.T) {
	rec := store.Record{
		"delivery_date": "tomorrow-ish",
		"paid_at":       "",
	}

	Coerce(rec)

	assert.Nil(t, rec["delivery_date"])
	assert.Nil(t, rec["paid_at"])
}

func TestCoerceIgnoresUntypedFields(t *testing.T) {
	rec := store.Record{
		"name":  "",
		"notes": "1",
	}

	Coerce(rec)

	assert.Equal(t, "", rec["name"])
	assert.Equal(t, "1", rec["notes"])
}

func TestNumericValue(t *testing.T) {
	testCases := []struct {
		value    interface{}
		expected float64
		ok       bool
	}{
		{450.0, 450.0, true},
		{float32(2.5), 2.5, true},
		{int64(7), 7.0, true},
		{3, 3.0, true},
		{"450.00", 450.0, true},
		{"not-a-number", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}

	for _, tc := range testCases {
		got, ok := NumericValue(tc.value)
		assert.Equal(t, tc.ok, ok, "value %v", tc.value)
		assert.Equal(t, tc.expected, got, "value %v", tc.value)
	}
}
