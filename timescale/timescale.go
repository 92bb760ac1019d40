package timescale

import (
	"fmt"
	"math"
	"time"
)

// Scale identifies the time scale a reading is expressed in.
//
// The EFD stores most internal timestamp columns in TAI (International
// Atomic Time), while InfluxDB row indexes are nominally UTC. The two
// differ by the accumulated leap-second offset (37 seconds since 2017).
type Scale int

const (
	// UTC is Coordinated Universal Time, the civil time scale.
	UTC Scale = iota

	// TAI is International Atomic Time. TAI runs ahead of UTC by the
	// accumulated leap-second count.
	TAI
)

// String returns the lower-case scale name.
func (s Scale) String() string {
	switch s {
	case TAI:
		return "tai"
	default:
		return "utc"
	}
}

// ParseScale converts a scale name ("utc" or "tai") to a Scale.
func ParseScale(name string) (Scale, error) {
	switch name {
	case "utc", "UTC":
		return UTC, nil
	case "tai", "TAI":
		return TAI, nil
	default:
		return UTC, fmt.Errorf("timescale: unknown scale %q", name)
	}
}

// Time is an instant paired with the scale its clock reading belongs to.
//
// The wall-clock reading is held as a time.Time in location UTC; the Scale
// records whether that reading is a UTC or a TAI clock value. Convert moves
// a reading between scales by applying the leap-second offset.
type Time struct {
	wall  time.Time
	scale Scale
}

// New wraps a standard library time as a reading on the given scale.
// The location of t is discarded; the instant is kept.
func New(t time.Time, scale Scale) Time {
	return Time{wall: t.UTC(), scale: scale}
}

// FromUnix interprets sec as seconds since the 1970-01-01 epoch on the
// given scale's clock. Fractional seconds are preserved to nanosecond
// resolution.
func FromUnix(sec float64, scale Scale) Time {
	whole, frac := math.Modf(sec)
	return Time{
		wall:  time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC(),
		scale: scale,
	}
}

// Std returns the underlying wall-clock reading. The result is a clock
// value on t's scale, not necessarily a civil UTC instant.
func (t Time) Std() time.Time { return t.wall }

// Scale returns the scale the reading is expressed in.
func (t Time) Scale() Scale { return t.scale }

// IsZero reports whether t is the zero Time.
func (t Time) IsZero() bool { return t.wall.IsZero() }

// Add returns the reading shifted by d on the same scale.
func (t Time) Add(d time.Duration) Time {
	return Time{wall: t.wall.Add(d), scale: t.scale}
}

// Sub returns the elapsed duration t - u after converting u to t's scale.
func (t Time) Sub(u Time) time.Duration {
	return t.wall.Sub(u.Convert(t.scale).wall)
}

// Convert re-expresses the reading on the target scale.
func (t Time) Convert(scale Scale) Time {
	if t.scale == scale {
		return t
	}
	switch scale {
	case TAI:
		return Time{wall: utcToTAI(t.wall), scale: TAI}
	default:
		return Time{wall: taiToUTC(t.wall), scale: UTC}
	}
}

// UTC is shorthand for Convert(UTC).
func (t Time) UTC() Time { return t.Convert(UTC) }

// TAI is shorthand for Convert(TAI).
func (t Time) TAI() Time { return t.Convert(TAI) }

// Unix returns the reading as seconds since the epoch on t's scale.
func (t Time) Unix() float64 {
	return float64(t.wall.UnixNano()) / float64(time.Second)
}

// ISOT formats the reading as an ISO 8601 "T"-separated string with
// millisecond precision, e.g. "2020-01-28T23:07:19.000". No scale or zone
// designator is appended; callers add the trailing 'Z' where required.
func (t Time) ISOT() string {
	return t.wall.Round(time.Millisecond).Format("2006-01-02T15:04:05.000")
}

// String implements fmt.Stringer.
func (t Time) String() string {
	return t.ISOT() + " " + t.scale.String()
}
