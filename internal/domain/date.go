package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in query parameters and
// request bodies.
const DateLayout = "2006-01-02"

// Date is a time read from JSON as either a bare YYYY-MM-DD date or an
// RFC 3339 timestamp. null and "" leave it zero.
type Date struct{ time.Time }

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("date %q must be YYYY-MM-DD or RFC 3339", raw)
}

// MarshalJSON implements json.Marshaler, writing null for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time)
}
