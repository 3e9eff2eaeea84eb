package astro

import (
	"math"
	"time"
)

// UnixEpochJD is the Julian Date of 1970-01-01T00:00:00Z.
const UnixEpochJD = 2440587.5

const msPerDay = 86400000.0

// JulianDate converts a time to a Julian Date using the Unix epoch offset:
// JD = unixMillis/86400000 + 2440587.5.
func JulianDate(t time.Time) float64 {
	return float64(t.UnixMilli())/msPerDay + UnixEpochJD
}

// TimeFromJulian is the inverse of JulianDate, rounded to the millisecond.
func TimeFromJulian(jd float64) time.Time {
	ms := math.Round((jd - UnixEpochJD) * msPerDay)
	return time.UnixMilli(int64(ms)).UTC()
}

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}
