package gridworld

import (
	"math"
	"testing"

	"gpsroute/internal/position"
)

func within(got, want, pct float64) bool {
	return math.Abs(got-want) <= math.Abs(want)*pct/100
}

func TestPoint_CentreAndCorners(t *testing.T) {
	w := Default()
	m, err := w.Point('M')
	if err != nil {
		t.Fatalf("Point(M) error: %v", err)
	}
	if m.Latitude() != 0 || m.Longitude() != 0 {
		t.Fatalf("M=%v want centre", m)
	}
	a, _ := w.Point('A')
	y, _ := w.Point('Y')
	if a.Latitude() <= 0 || a.Longitude() >= 0 {
		t.Fatalf("A=%v want north-west of centre", a)
	}
	if y.Latitude() >= 0 || y.Longitude() <= 0 {
		t.Fatalf("Y=%v want south-east of centre", y)
	}
}

func TestPoint_Spacing(t *testing.T) {
	w := Default()
	pairs := []struct {
		a, b byte
		want float64
	}{
		{'A', 'B', 10000},
		{'A', 'F', 10000},
		{'A', 'G', 14142},
		{'A', 'E', 40000},
		{'E', 'F', 41231},
		{'M', 'I', 14142},
		{'A', 'Y', 56569},
	}
	for _, tc := range pairs {
		pa, _ := w.Point(tc.a)
		pb, _ := w.Point(tc.b)
		if d := position.DistanceBetween(pa, pb); !within(d, tc.want, 0.1) {
			t.Fatalf("%c-%c=%v want ~%v", tc.a, tc.b, d, tc.want)
		}
	}
}

func TestPoint_OffCentreWorld(t *testing.T) {
	w := World{Centre: position.New(53.381, -1.4701, 120), HorizontalUnit: 1000, VerticalUnit: 500}
	m, _ := w.Point('M')
	n, _ := w.Point('N')
	h, _ := w.Point('H')
	if d := position.DistanceBetween(m, n); !within(d, 1000, 0.1) {
		t.Fatalf("M-N=%v want ~1000", d)
	}
	if d := position.DistanceBetween(m, h); !within(d, 500, 0.1) {
		t.Fatalf("M-H=%v want ~500", d)
	}
	if n.Elevation() != 120 {
		t.Fatalf("elevation=%v want centre elevation", n.Elevation())
	}
}

func TestRoute(t *testing.T) {
	pts, err := Default().Route("ABA")
	if err != nil {
		t.Fatalf("Route() error: %v", err)
	}
	if len(pts) != 3 || pts[0] != pts[2] {
		t.Fatalf("route=%v", pts)
	}
	for _, bad := range []string{"", "AZ", "ab", "A-B"} {
		if _, err := Default().Route(bad); err == nil {
			t.Fatalf("Route(%q) expected error", bad)
		}
	}
}
