package timescale

import (
	"testing"
	"time"
)

// TestISOT verifies millisecond ISO 8601 formatting.
func TestISOT(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "whole second",
			in:   time.Date(2020, 1, 28, 23, 7, 19, 0, time.UTC),
			want: "2020-01-28T23:07:19.000",
		},
		{
			name: "millisecond fraction",
			in:   time.Date(2020, 1, 28, 23, 7, 19, 250e6, time.UTC),
			want: "2020-01-28T23:07:19.250",
		},
		{
			name: "sub-millisecond rounds",
			in:   time.Date(2020, 1, 28, 23, 7, 19, 1_999_600, time.UTC),
			want: "2020-01-28T23:07:19.002",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.in, UTC).ISOT()
			if got != tt.want {
				t.Errorf("ISOT() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConvertModernOffset verifies the 37 s TAI-UTC offset for dates after
// the 2017 leap second.
func TestConvertModernOffset(t *testing.T) {
	utc := New(time.Date(2020, 1, 28, 23, 7, 19, 0, time.UTC), UTC)

	tai := utc.TAI()
	if tai.Scale() != TAI {
		t.Fatalf("Scale() = %v, want TAI", tai.Scale())
	}
	if got := tai.Std().Sub(utc.Std()); got != 37*time.Second {
		t.Errorf("TAI-UTC = %v, want 37s", got)
	}

	back := tai.UTC()
	if !back.Std().Equal(utc.Std()) {
		t.Errorf("round trip = %v, want %v", back.Std(), utc.Std())
	}
}

// TestConvertHistoricalOffset checks an offset from an earlier leap era.
func TestConvertHistoricalOffset(t *testing.T) {
	utc := New(time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC), UTC)
	if got := utc.TAI().Std().Sub(utc.Std()); got != 29*time.Second {
		t.Errorf("TAI-UTC in 1995 = %v, want 29s", got)
	}
}

// TestConvertIdempotent verifies converting to the current scale is a no-op.
func TestConvertIdempotent(t *testing.T) {
	utc := New(time.Date(2020, 1, 28, 23, 7, 19, 0, time.UTC), UTC)
	if got := utc.Convert(UTC); got != utc {
		t.Errorf("Convert(UTC) = %v, want %v", got, utc)
	}
}

// TestFromUnix verifies fractional epoch-second construction.
func TestFromUnix(t *testing.T) {
	ts := FromUnix(1580252839.5, TAI)
	if ts.Scale() != TAI {
		t.Fatalf("Scale() = %v, want TAI", ts.Scale())
	}
	want := time.Unix(1580252839, 500e6).UTC()
	if !ts.Std().Equal(want) {
		t.Errorf("Std() = %v, want %v", ts.Std(), want)
	}
	if got := ts.Unix(); got != 1580252839.5 {
		t.Errorf("Unix() = %v, want 1580252839.5", got)
	}
}

// TestParseScale verifies name parsing and rejection.
func TestParseScale(t *testing.T) {
	if s, err := ParseScale("tai"); err != nil || s != TAI {
		t.Errorf("ParseScale(tai) = %v, %v", s, err)
	}
	if s, err := ParseScale("utc"); err != nil || s != UTC {
		t.Errorf("ParseScale(utc) = %v, %v", s, err)
	}
	if _, err := ParseScale("tdb"); err == nil {
		t.Error("ParseScale(tdb) expected error, got nil")
	}
}

// TestSubCrossScale verifies subtraction converts to a common scale first.
func TestSubCrossScale(t *testing.T) {
	utc := New(time.Date(2020, 1, 28, 23, 7, 19, 0, time.UTC), UTC)
	tai := utc.TAI()
	if got := tai.Sub(utc); got != 0 {
		t.Errorf("same instant across scales: Sub = %v, want 0", got)
	}
}
