package timescale

import "time"

// leap records the TAI-UTC offset in effect from a given UTC instant.
type leap struct {
	start  time.Time
	offset time.Duration
}

func d(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// leaps lists the TAI-UTC offsets announced by the IERS since 1972,
// most recent last. Readings before 1972 use the 1972 offset; the
// pre-1972 rubber-second era is out of range for observatory telemetry.
var leaps = []leap{
	{d(1972, time.January), 10 * time.Second},
	{d(1972, time.July), 11 * time.Second},
	{d(1973, time.January), 12 * time.Second},
	{d(1974, time.January), 13 * time.Second},
	{d(1975, time.January), 14 * time.Second},
	{d(1976, time.January), 15 * time.Second},
	{d(1977, time.January), 16 * time.Second},
	{d(1978, time.January), 17 * time.Second},
	{d(1979, time.January), 18 * time.Second},
	{d(1980, time.January), 19 * time.Second},
	{d(1981, time.July), 20 * time.Second},
	{d(1982, time.July), 21 * time.Second},
	{d(1983, time.July), 22 * time.Second},
	{d(1985, time.July), 23 * time.Second},
	{d(1988, time.January), 24 * time.Second},
	{d(1990, time.January), 25 * time.Second},
	{d(1991, time.January), 26 * time.Second},
	{d(1992, time.July), 27 * time.Second},
	{d(1993, time.July), 28 * time.Second},
	{d(1994, time.July), 29 * time.Second},
	{d(1996, time.January), 30 * time.Second},
	{d(1997, time.July), 31 * time.Second},
	{d(1999, time.January), 32 * time.Second},
	{d(2006, time.January), 33 * time.Second},
	{d(2009, time.January), 34 * time.Second},
	{d(2012, time.July), 35 * time.Second},
	{d(2015, time.July), 36 * time.Second},
	{d(2017, time.January), 37 * time.Second},
}

// offsetAtUTC returns the TAI-UTC offset in effect at the given UTC instant.
func offsetAtUTC(utc time.Time) time.Duration {
	for i := len(leaps) - 1; i >= 0; i-- {
		if !utc.Before(leaps[i].start) {
			return leaps[i].offset
		}
	}
	return leaps[0].offset
}

// utcToTAI converts a UTC clock reading to the equivalent TAI reading.
func utcToTAI(utc time.Time) time.Time {
	return utc.Add(offsetAtUTC(utc))
}

// taiToUTC converts a TAI clock reading to the equivalent UTC reading.
// The applicable offset is the one in effect at the resulting UTC instant.
func taiToUTC(tai time.Time) time.Time {
	for i := len(leaps) - 1; i >= 0; i-- {
		utc := tai.Add(-leaps[i].offset)
		if !utc.Before(leaps[i].start) {
			return utc
		}
	}
	return tai.Add(-leaps[0].offset)
}
