package efd

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/lsst-sqre/efd-client-go/dataframe"
)

func frame(t *testing.T, name string, stamps []time.Time, values []float64) *dataframe.DataFrame {
	t.Helper()
	df, err := dataframe.New(stamps, dataframe.Floats(name, values))
	if err != nil {
		t.Fatalf("build frame %s: %v", name, err)
	}
	return df
}

func TestResample(t *testing.T) {
	t0 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)
	t2 := t0.Add(2 * time.Second)

	a := frame(t, "x", []time.Time{t0, t2}, []float64{0, 2})
	b := frame(t, "y", []time.Time{t1}, []float64{10})

	out, err := Resample(a, b, "time")
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	// Every input row keeps its own output row.
	if out.Len() != a.Len()+b.Len() {
		t.Fatalf("Len() = %d, want %d", out.Len(), a.Len()+b.Len())
	}

	index := out.Index()
	wantIndex := []time.Time{t0, t1, t2}
	for i := range wantIndex {
		if !index[i].Equal(wantIndex[i]) {
			t.Errorf("index[%d] = %v, want %v", i, index[i], wantIndex[i])
		}
	}

	// x is known at t0 and t2; the t1 gap interpolates halfway.
	xs, err := out.Float64s("x")
	if err != nil {
		t.Fatalf("Float64s(x) error = %v", err)
	}
	if math.Abs(xs[1]-1) > 1e-9 {
		t.Errorf("x[1] = %v, want 1", xs[1])
	}

	// y is known only at t1; the leading edge stays missing while the
	// trailing edge carries the last value forward.
	if v := out.At(0, "y"); v != nil {
		t.Errorf("y[0] = %v, want missing", v)
	}
	got, _ := dataframe.AsFloat(out.At(1, "y"))
	if got != 10 {
		t.Errorf("y[1] = %v, want 10", got)
	}
	got, _ = dataframe.AsFloat(out.At(2, "y"))
	if got != 10 {
		t.Errorf("y[2] = %v, want 10", got)
	}
}

func TestResampleCarriesLastValueForward(t *testing.T) {
	t0 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	a := frame(t, "x", []time.Time{t0, t0.Add(time.Second)}, []float64{1, 2})
	b := frame(t, "y", []time.Time{t0.Add(2 * time.Second), t0.Add(3 * time.Second)},
		[]float64{10, 20})

	out, err := Resample(a, b, "time")
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	// x ends before b's rows begin: both trailing rows repeat x's last
	// sample rather than staying missing.
	xs, err := out.Float64s("x")
	if err != nil {
		t.Fatalf("Float64s(x) error = %v", err)
	}
	if xs[2] != 2 || xs[3] != 2 {
		t.Errorf("x tail = [%v %v], want [2 2]", xs[2], xs[3])
	}

	// y starts after a's rows: leading rows stay missing.
	if v := out.At(0, "y"); v != nil {
		t.Errorf("y[0] = %v, want missing", v)
	}
	if v := out.At(1, "y"); v != nil {
		t.Errorf("y[1] = %v, want missing", v)
	}
}

func TestResampleCollidingColumns(t *testing.T) {
	t0 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	a := frame(t, "v", []time.Time{t0}, []float64{1})
	b := frame(t, "v", []time.Time{t0.Add(time.Second)}, []float64{2})

	out, err := Resample(a, b, "linear")
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	want := []string{"v_x", "v_y"}
	if !reflect.DeepEqual(out.ColumnNames(), want) {
		t.Errorf("columns = %v, want %v", out.ColumnNames(), want)
	}
}

func TestResampleBadKind(t *testing.T) {
	t0 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	a := frame(t, "x", []time.Time{t0}, []float64{1})
	b := frame(t, "y", []time.Time{t0}, []float64{2})

	_, err := Resample(a, b, "cubic")
	if !errors.Is(err, ErrInterpolation) {
		t.Errorf("error = %v, want ErrInterpolation", err)
	}
}

func TestRendezvousDataFramesBackward(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	left := frame(t, "obs", []time.Time{base.Add(10 * time.Second), base.Add(30 * time.Second)},
		[]float64{1, 2})
	right := frame(t, "state", []time.Time{base, base.Add(25 * time.Second), base.Add(40 * time.Second)},
		[]float64{100, 200, 300})

	out, err := RendezvousDataFrames(left, right, RendezvousOptions{})
	if err != nil {
		t.Fatalf("RendezvousDataFrames() error = %v", err)
	}

	// Left-preserving: same rows, same index.
	if out.Len() != left.Len() {
		t.Fatalf("Len() = %d, want %d", out.Len(), left.Len())
	}
	if !out.Index()[0].Equal(left.Index()[0]) {
		t.Errorf("index changed: %v", out.Index()[0])
	}

	state, err := out.Float64s("state")
	if err != nil {
		t.Fatalf("Float64s(state) error = %v", err)
	}
	// Backward matches the nearest right row at or before each left row.
	if want := []float64{100, 200}; !reflect.DeepEqual(state, want) {
		t.Errorf("state = %v, want %v", state, want)
	}
}

func TestRendezvousDataFramesTolerance(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	left := frame(t, "obs", []time.Time{base.Add(time.Hour)}, []float64{1})
	right := frame(t, "state", []time.Time{base}, []float64{100})

	out, err := RendezvousDataFrames(left, right, RendezvousOptions{Tolerance: time.Minute})
	if err != nil {
		t.Fatalf("RendezvousDataFrames() error = %v", err)
	}
	// The only right row is an hour away; outside tolerance means a
	// missing value, not an error.
	if out.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", out.Len())
	}
	if v := out.At(0, "state"); v != nil {
		t.Errorf("state = %v, want missing", v)
	}
}

func TestRendezvousDataFramesDirections(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	left := frame(t, "obs", []time.Time{base.Add(10 * time.Second)}, []float64{1})
	right := frame(t, "state", []time.Time{base, base.Add(12 * time.Second)}, []float64{100, 200})

	cases := []struct {
		dir  Direction
		want float64
	}{
		{DirectionBackward, 100},
		{DirectionForward, 200},
		{DirectionNearest, 200},
	}
	for _, tc := range cases {
		t.Run(string(tc.dir), func(t *testing.T) {
			out, err := RendezvousDataFrames(left, right, RendezvousOptions{Direction: tc.dir})
			if err != nil {
				t.Fatalf("RendezvousDataFrames() error = %v", err)
			}
			got, _ := dataframe.AsFloat(out.At(0, "state"))
			if got != tc.want {
				t.Errorf("state = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRendezvousDataFramesForwardExactMatch(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	left := frame(t, "obs", []time.Time{base}, []float64{1})
	right := frame(t, "state", []time.Time{base, base.Add(time.Second)}, []float64{100, 200})

	out, err := RendezvousDataFrames(left, right, RendezvousOptions{Direction: DirectionForward})
	if err != nil {
		t.Fatalf("RendezvousDataFrames() error = %v", err)
	}
	// A right row exactly at the left timestamp wins over a later one.
	got, _ := dataframe.AsFloat(out.At(0, "state"))
	if got != 100 {
		t.Errorf("state = %v, want 100", got)
	}
}

func TestRendezvousDataFramesSuffixes(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	left := frame(t, "v", []time.Time{base}, []float64{1})
	right := frame(t, "v", []time.Time{base}, []float64{2})

	out, err := RendezvousDataFrames(left, right, RendezvousOptions{})
	if err != nil {
		t.Fatalf("RendezvousDataFrames() error = %v", err)
	}
	want := []string{"v_x", "v_y"}
	if !reflect.DeepEqual(out.ColumnNames(), want) {
		t.Errorf("columns = %v, want %v", out.ColumnNames(), want)
	}
}

func TestRendezvousDataFramesBadDirection(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	left := frame(t, "obs", []time.Time{base}, []float64{1})
	right := frame(t, "state", []time.Time{base}, []float64{2})

	if _, err := RendezvousDataFrames(left, right, RendezvousOptions{Direction: "sideways"}); err == nil {
		t.Error("unknown direction accepted, want error")
	}
}
