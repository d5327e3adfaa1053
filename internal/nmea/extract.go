package nmea

import (
	"errors"
	"fmt"

	"gpsroute/internal/position"
)

var (
	ErrMalformedInput    = errors.New("nmea: malformed input")
	ErrUnsupportedFormat = errors.New("nmea: unsupported format")
)

// ExtractPosition builds a Position from a decomposed GLL, RMC or GGA sentence.
// Errors wrap ErrUnsupportedFormat or ErrMalformedInput.
func ExtractPosition(p Pair) (position.Position, error) {
	switch p.Format {
	case FormatGLL:
		return extractGLL(p)
	case FormatRMC:
		return extractRMC(p)
	case FormatGGA:
		return extractGGA(p)
	case FormatUnsupported:
		return position.Position{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, p.Type)
	default:
		return position.Position{}, fmt.Errorf("%w: %q (format %d)", ErrUnsupportedFormat, p.Type, int(p.Format))
	}
}

// GLL: Geographic Position - Latitude/Longitude
//
//	0: latitude (ddmm.mm)
//	1: N/S
//	2: longitude (dddmm.mm)
//	3: E/W
//	4: time (hhmmss)
func extractGLL(p Pair) (position.Position, error) {
	if err := requireFields(p, 4); err != nil {
		return position.Position{}, err
	}
	f := p.Fields
	return ddmPosition(p.Type, f[0], f[1], f[2], f[3], "")
}

// RMC: Recommended Minimum Specific GNSS Data
//
//	0: time (hhmmss.sss)
//	1: status (A=active, V=void)
//	2: latitude (ddmm.mmmm)
//	3: N/S
//	4: longitude (dddmm.mmmm)
//	5: E/W
//	6: speed over ground (knots)
//	7: course over ground (deg)
//	8: date (ddmmyy)
//	9: magnetic variation
//	10: mode
func extractRMC(p Pair) (position.Position, error) {
	if err := requireFields(p, 6); err != nil {
		return position.Position{}, err
	}
	f := p.Fields
	return ddmPosition(p.Type, f[2], f[3], f[4], f[5], "")
}

// GGA: Global Positioning System Fix Data
//
//	0: time
//	1: latitude
//	2: N/S
//	3: longitude
//	4: E/W
//	5: fix quality
//	6: number of satellites
//	7: HDOP
//	8: altitude (meters)
//	9: units (M)
func extractGGA(p Pair) (position.Position, error) {
	if err := requireFields(p, 9); err != nil {
		return position.Position{}, err
	}
	f := p.Fields
	if f[8] == "" {
		return position.Position{}, fmt.Errorf("%w: %s missing altitude", ErrMalformedInput, p.Type)
	}
	return ddmPosition(p.Type, f[1], f[2], f[3], f[4], f[8])
}

func requireFields(p Pair, n int) error {
	if len(p.Fields) < n {
		return fmt.Errorf("%w: %s has %d fields, need %d", ErrMalformedInput, p.Type, len(p.Fields), n)
	}
	return nil
}

func ddmPosition(sentenceType, lat, ns, lon, ew, ele string) (position.Position, error) {
	switch {
	case lat == "":
		return position.Position{}, fmt.Errorf("%w: %s missing latitude", ErrMalformedInput, sentenceType)
	case lon == "":
		return position.Position{}, fmt.Errorf("%w: %s missing longitude", ErrMalformedInput, sentenceType)
	case len(ns) != 1:
		return position.Position{}, fmt.Errorf("%w: %s latitude hemisphere %q", ErrMalformedInput, sentenceType, ns)
	case len(ew) != 1:
		return position.Position{}, fmt.Errorf("%w: %s longitude hemisphere %q", ErrMalformedInput, sentenceType, ew)
	}
	pos, err := position.FromDDM(lat, ns[0], lon, ew[0], ele)
	if err != nil {
		return position.Position{}, fmt.Errorf("%w: %s: %v", ErrMalformedInput, sentenceType, err)
	}
	return pos, nil
}
