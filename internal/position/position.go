package position

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gpsroute/internal/geometry"
)

// EarthMeanRadius is the sphere radius used for all distance work, in metres.
const EarthMeanRadius = 6371000.0

// ErrMalformed is wrapped by every constructor failure.
var ErrMalformed = errors.New("position: malformed")

// Position is an immutable WGS84-style point. Longitude is kept in (-180, 180];
// latitude is stored as given.
type Position struct {
	lat float64
	lon float64
	ele float64
}

func New(lat, lon, ele float64) Position {
	return Position{lat: lat, lon: geometry.NormaliseDeg(lon), ele: ele}
}

// FromDecimalStrings parses decimal-degree latitude/longitude and elevation in
// metres. An empty eleStr means 0.
func FromDecimalStrings(latStr, lonStr, eleStr string) (Position, error) {
	lat, err := parseDecimal("latitude", latStr)
	if err != nil {
		return Position{}, err
	}
	lon, err := parseDecimal("longitude", lonStr)
	if err != nil {
		return Position{}, err
	}
	ele, err := parseElevation(eleStr)
	if err != nil {
		return Position{}, err
	}
	return New(lat, lon, ele), nil
}

// FromDDM parses unsigned DDM latitude/longitude strings with their
// hemisphere letters (N/S, E/W). An empty eleStr means 0.
func FromDDM(ddmLat string, northing byte, ddmLon string, easting byte, eleStr string) (Position, error) {
	lat, err := DDMToDD(ddmLat)
	if err != nil {
		return Position{}, err
	}
	switch northing {
	case 'N':
	case 'S':
		lat = -lat
	default:
		return Position{}, fmt.Errorf("%w: latitude hemisphere %q", ErrMalformed, northing)
	}

	lon, err := DDMToDD(ddmLon)
	if err != nil {
		return Position{}, err
	}
	switch easting {
	case 'E':
	case 'W':
		lon = -lon
	default:
		return Position{}, fmt.Errorf("%w: longitude hemisphere %q", ErrMalformed, easting)
	}

	ele, err := parseElevation(eleStr)
	if err != nil {
		return Position{}, err
	}
	return New(lat, lon, ele), nil
}

// DDMToDD converts a DDM angle (dddmm.mmmm) to decimal degrees.
//
// The two integer digits before the decimal point are whole minutes; any
// digits before those are degrees.
func DDMToDD(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty DDM value", ErrMalformed)
	}
	dot := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && dot == -1:
			dot = i
		default:
			return 0, fmt.Errorf("%w: DDM value %q", ErrMalformed, s)
		}
	}
	intLen := len(s)
	if dot != -1 {
		intLen = dot
	}
	if intLen < 2 {
		return 0, fmt.Errorf("%w: DDM value %q has no whole minutes", ErrMalformed, s)
	}

	deg := 0.0
	if degPart := s[:intLen-2]; degPart != "" {
		d, err := strconv.ParseUint(degPart, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: DDM degrees %q", ErrMalformed, degPart)
		}
		deg = float64(d)
	}
	mins, err := strconv.ParseFloat(s[intLen-2:], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: DDM minutes %q", ErrMalformed, s[intLen-2:])
	}
	return deg + mins/60.0, nil
}

func (p Position) Latitude() float64  { return p.lat }
func (p Position) Longitude() float64 { return p.lon }
func (p Position) Elevation() float64 { return p.ele }

func (p Position) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.1f", p.lat, p.lon, p.ele)
}

func (p Position) StringNoElevation() string {
	return fmt.Sprintf("%.6f,%.6f", p.lat, p.lon)
}

// DistanceBetween is the great-circle distance in metres on a sphere of
// EarthMeanRadius. Elevation is ignored.
func DistanceBetween(a, b Position) float64 {
	latA := geometry.DegToRad(a.lat)
	latB := geometry.DegToRad(b.lat)
	dLat := latB - latA
	dLon := geometry.DegToRad(b.lon - a.lon)

	h := geometry.SinSqr(dLat/2) + math.Cos(latA)*math.Cos(latB)*geometry.SinSqr(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthMeanRadius * math.Asin(math.Sqrt(h))
}

// parseDecimal accepts plain decimal or exponent notation only: no
// surrounding space, no hex floats, no NaN or infinities.
func parseDecimal(what, s string) (float64, error) {
	unsigned := strings.TrimLeft(s, "+-")
	if s != strings.TrimSpace(s) || strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformed, what, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformed, what, s)
	}
	return v, nil
}

func parseElevation(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return parseDecimal("elevation", s)
}
