package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-10-17"`, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)},
		{`"2026-10-17T09:30:00Z"`, time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)},
		{`"2026-10-17T09:30:00.5+02:00"`, time.Date(2026, 10, 17, 7, 30, 0, 500000000, time.UTC)},
		{`""`, time.Time{}},
		{`null`, time.Time{}},
	}
	for _, tt := range tests {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(tt.in), &d), tt.in)
		assert.True(t, d.Equal(tt.want), "%s: got %v", tt.in, d.Time)
	}
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	for _, in := range []string{`"17.10.2026"`, `"yesterday"`, `20261017`} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Day  Date  `json:"day"`
		Zero Date  `json:"zero"`
		Nil  *Date `json:"nil,omitempty"`
	}{Day: Date{time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2026-10-17T00:00:00Z","zero":null}`, string(b))
}
