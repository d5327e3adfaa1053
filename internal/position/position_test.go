package position

import (
	"errors"
	"math"
	"testing"
)

func closeTo(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s=%v want %v (tol %v)", what, got, want, tol)
	}
}

func TestNew_NormalisesLongitudeOnly(t *testing.T) {
	p := New(95, -180, 12.5)
	if p.Latitude() != 95 {
		t.Fatalf("lat=%v want 95 (no clamping)", p.Latitude())
	}
	if p.Longitude() != 180 {
		t.Fatalf("lon=%v want 180", p.Longitude())
	}
	if p.Elevation() != 12.5 {
		t.Fatalf("ele=%v want 12.5", p.Elevation())
	}
	closeTo(t, "lon", New(0, 370, 0).Longitude(), 10, 1e-9)
}

func TestFromDecimalStrings(t *testing.T) {
	p, err := FromDecimalStrings("53.381", "-1.4701", "")
	if err != nil {
		t.Fatalf("FromDecimalStrings() error: %v", err)
	}
	closeTo(t, "lat", p.Latitude(), 53.381, 1e-12)
	closeTo(t, "lon", p.Longitude(), -1.4701, 1e-12)
	if p.Elevation() != 0 {
		t.Fatalf("ele=%v want 0", p.Elevation())
	}

	if _, err := FromDecimalStrings("+1.5e1", "-0.25", "1E2"); err != nil {
		t.Fatalf("exponent notation: %v", err)
	}

	p, err = FromDecimalStrings("-12", "190", "-3.5")
	if err != nil {
		t.Fatalf("FromDecimalStrings() error: %v", err)
	}
	closeTo(t, "lon", p.Longitude(), -170, 1e-9)
	closeTo(t, "ele", p.Elevation(), -3.5, 1e-12)
}

func TestFromDecimalStrings_Malformed(t *testing.T) {
	cases := []struct {
		name          string
		lat, lon, ele string
	}{
		{"BadLat", "north", "1", "0"},
		{"BadLon", "1", "", "0"},
		{"BadEle", "1", "1", "high"},
		{"NaN", "NaN", "1", "0"},
		{"Inf", "1", "+Inf", "0"},
		{"HexLat", "0x1p-2", "1", "0"},
		{"NegativeHexLon", "1", "-0X10", "0"},
		{"LeadingSpace", " 1", "1", "0"},
		{"TrailingSpace", "1", "1 ", "0"},
		{"BlankEle", "1", "1", " "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromDecimalStrings(tc.lat, tc.lon, tc.ele)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err=%v want ErrMalformed", err)
			}
		})
	}
}

func TestDDMToDD(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"5425.31", 54 + 25.31/60},
		{"107.03", 1 + 7.03/60},
		{"00559.2458", 5 + 59.2458/60},
		{"3722.5993", 37 + 22.5993/60},
		{"12", 12.0 / 60},
		{"4807", 48 + 7.0/60},
		{"0.5", 0},
	}
	for _, tc := range cases {
		got, err := DDMToDD(tc.in)
		if tc.in == "0.5" {
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("DDMToDD(%q) err=%v want ErrMalformed", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("DDMToDD(%q) error: %v", tc.in, err)
		}
		closeTo(t, "DDMToDD("+tc.in+")", got, tc.want, 1e-12)
	}
}

func TestDDMToDD_Malformed(t *testing.T) {
	for _, in := range []string{"", "three", "?&*", "-5425.31", "54.25.31", "54 25.31", "1e5", "."} {
		if _, err := DDMToDD(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("DDMToDD(%q) err=%v want ErrMalformed", in, err)
		}
	}
}

func TestFromDDM_Hemispheres(t *testing.T) {
	lat := 54 + 25.31/60
	lon := 1 + 7.03/60
	cases := []struct {
		ns, ew           byte
		wantLat, wantLon float64
	}{
		{'N', 'E', lat, lon},
		{'N', 'W', lat, -lon},
		{'S', 'E', -lat, lon},
		{'S', 'W', -lat, -lon},
	}
	for _, tc := range cases {
		p, err := FromDDM("5425.31", tc.ns, "107.03", tc.ew, "")
		if err != nil {
			t.Fatalf("FromDDM(%c,%c) error: %v", tc.ns, tc.ew, err)
		}
		closeTo(t, "lat", p.Latitude(), tc.wantLat, 1e-12)
		closeTo(t, "lon", p.Longitude(), tc.wantLon, 1e-12)
		if p.Elevation() != 0 {
			t.Fatalf("ele=%v want 0", p.Elevation())
		}
	}
}

func TestFromDDM_Malformed(t *testing.T) {
	cases := []struct {
		name string
		lat  string
		ns   byte
		lon  string
		ew   byte
		ele  string
	}{
		{"LatHemisphereE", "5425.31", 'E', "107.03", 'W', ""},
		{"LonHemisphereN", "5425.31", 'N', "107.03", 'N', ""},
		{"LowerCase", "5425.31", 'n', "107.03", 'w', ""},
		{"BadLat", "three", 'N', "107.03", 'W', ""},
		{"BadLon", "5425.31", 'N', "?&*", 'W', ""},
		{"BadEle", "5425.31", 'N', "107.03", 'W', "zero"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromDDM(tc.lat, tc.ns, tc.lon, tc.ew, tc.ele); !errors.Is(err, ErrMalformed) {
				t.Fatalf("err=%v want ErrMalformed", err)
			}
		})
	}
}

func TestDistanceBetween(t *testing.T) {
	a := New(0, 0, 0)
	b := New(0, 1, 0)
	// One degree of arc on the mean-radius sphere.
	closeTo(t, "equator degree", DistanceBetween(a, b), EarthMeanRadius*math.Pi/180, 1e-6)

	sheffield := New(53.381, -1.4701, 0)
	london := New(51.5074, -0.1278, 500)
	d := DistanceBetween(sheffield, london)
	if d < 225000 || d > 230000 {
		t.Fatalf("sheffield-london=%v want ~227km", d)
	}
}

func TestDistanceBetween_SymmetricAndZero(t *testing.T) {
	pts := []Position{
		New(0, 0, 0),
		New(53.381, -1.4701, 100),
		New(-33.86, 151.21, 0),
		New(89.9, 179.9, 0),
		New(-89.9, -179.9, 0),
		New(10, 180, 0),
	}
	for _, a := range pts {
		if d := DistanceBetween(a, a); d != 0 {
			t.Fatalf("DistanceBetween(%v,%v)=%v want 0", a, a, d)
		}
		for _, b := range pts {
			if DistanceBetween(a, b) != DistanceBetween(b, a) {
				t.Fatalf("asymmetric distance for %v / %v", a, b)
			}
		}
	}
}

func TestDistanceBetween_IgnoresElevation(t *testing.T) {
	a := New(10, 10, 0)
	b := New(10, 10, 8848)
	if d := DistanceBetween(a, b); d != 0 {
		t.Fatalf("distance=%v want 0", d)
	}
}

func TestDistanceBetween_Antipodal(t *testing.T) {
	d := DistanceBetween(New(0, 0, 0), New(0, 180, 0))
	closeTo(t, "antipodal", d, math.Pi*EarthMeanRadius, 1e-3)
}
