package internal

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestSafeParseTimestamp(t *testing.T) {
	fixedNow := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixedNow }

	tests := []struct {
		name string
		raw  RawTimestamp
		want time.Time
	}{
		{
			name: "unset",
			raw:  RawTimestamp{},
			want: fixedNow,
		},
		{
			name: "zero",
			raw:  NewRawTimestamp(0),
			want: fixedNow,
		},
		{
			name: "valid milliseconds",
			raw:  NewRawTimestamp(1700000000123),
			want: time.UnixMilli(1700000000123).UTC(),
		},
		{
			name: "out of range",
			raw:  NewRawTimestamp(1e20),
			want: fixedNow,
		},
		{
			name: "negative out of range",
			raw:  NewRawTimestamp(-1e20),
			want: fixedNow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := safeParseTimestampAt(tt.raw, now)
			if !got.Equal(tt.want) {
				t.Errorf("safeParseTimestampAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSafeParseTimestamp_GarbageJSON(t *testing.T) {
	inputs := []string{`"garbage"`, `null`, `{}`, `[1,2]`, `true`, `"1700000000000"`}
	before := time.Now().Add(-time.Second)

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var raw RawTimestamp
			if err := json.Unmarshal([]byte(input), &raw); err != nil {
				t.Fatalf("RawTimestamp should never fail to decode, got %v", err)
			}
			got := SafeParseTimestamp(raw)
			if got.Before(before) || got.After(time.Now().Add(time.Second)) {
				t.Errorf("SafeParseTimestamp(%s) = %v, want current time", input, got)
			}
		})
	}
}

func TestRawTimestamp_NonFinite(t *testing.T) {
	fixedNow := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	got := safeParseTimestampAt(NewRawTimestamp(math.NaN()), func() time.Time { return fixedNow })
	if !got.Equal(fixedNow) {
		t.Errorf("safeParseTimestampAt(NaN) = %v, want now", got)
	}
}

func TestFirstTimestamp(t *testing.T) {
	fixedNow := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixedNow }

	updated := NewRawTimestamp(1700000002000)
	created := NewRawTimestamp(1700000001000)

	if got := firstTimestamp(now, updated, created); !got.Equal(time.UnixMilli(1700000002000)) {
		t.Errorf("firstTimestamp() = %v, want lastUpdatedAt", got)
	}
	if got := firstTimestamp(now, RawTimestamp{}, created); !got.Equal(time.UnixMilli(1700000001000)) {
		t.Errorf("firstTimestamp() = %v, want createdAt", got)
	}
	if got := firstTimestamp(now, RawTimestamp{}, RawTimestamp{}); !got.Equal(fixedNow) {
		t.Errorf("firstTimestamp() = %v, want now", got)
	}
}
