package internal

import (
	"math"
	"time"
)

// maxEpochMillis is the largest magnitude a JavaScript Date accepts
const maxEpochMillis = 8.64e15

// SafeParseTimestamp converts a millisecond epoch value to a UTC instant.
// Missing, zero or out-of-range values yield the current time; it never fails.
func SafeParseTimestamp(raw RawTimestamp) time.Time {
	return safeParseTimestampAt(raw, time.Now)
}

func safeParseTimestampAt(raw RawTimestamp, now func() time.Time) time.Time {
	if !raw.IsSet() {
		return normalizeInstant(now())
	}
	ms := raw.Millis()
	if math.IsNaN(ms) || ms > maxEpochMillis || ms < -maxEpochMillis {
		LogDebug("Timestamp out of range, using current time: %v", ms)
		return normalizeInstant(now())
	}
	return normalizeInstant(time.UnixMilli(int64(ms)))
}

// firstTimestamp returns the first set timestamp, or now when none is set
func firstTimestamp(now func() time.Time, candidates ...RawTimestamp) time.Time {
	for _, candidate := range candidates {
		if candidate.IsSet() {
			return safeParseTimestampAt(candidate, now)
		}
	}
	return normalizeInstant(now())
}

// normalizeInstant keeps millisecond precision in UTC, the resolution the
// stores record
func normalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
