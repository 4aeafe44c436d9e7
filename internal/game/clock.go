package game

import "time"

// Timestamps are kept in UTC at microsecond precision so they survive a
// round trip through Postgres unchanged.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Microsecond)
}
