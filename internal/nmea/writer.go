package nmea

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	gonmea "github.com/adrianmo/go-nmea"

	"gpsroute/internal/position"
)

// FormatSentence wraps a payload such as "GPGLL,..." into "$payload*HH".
func FormatSentence(payload string) string {
	return "$" + payload + "*" + gonmea.Checksum(payload)
}

// Writer emits one sentence per position in a fixed format.
type Writer struct {
	w      *bufio.Writer
	format Format
	closed bool
}

func NewWriter(w io.Writer, f Format) (*Writer, error) {
	if f == FormatUnsupported {
		return nil, fmt.Errorf("%w: cannot write %s sentences", ErrUnsupportedFormat, f)
	}
	return &Writer{w: bufio.NewWriter(w), format: f}, nil
}

// ParseFormat accepts "gll", "rmc" or "gga" in any case.
func ParseFormat(s string) (Format, error) {
	f := FormatOf("GP" + strings.ToUpper(strings.TrimSpace(s)))
	if f == FormatUnsupported {
		return f, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

func (ww *Writer) WritePosition(at time.Time, p position.Position) error {
	if ww.closed {
		return errors.New("nmea writer is closed")
	}
	at = at.UTC()
	lat, ns := ddm(p.Latitude(), 2, 'N', 'S')
	lon, ew := ddm(p.Longitude(), 3, 'E', 'W')
	hms := at.Format("150405") + ".00"

	var payload string
	switch ww.format {
	case FormatGLL:
		payload = fmt.Sprintf("GPGLL,%s,%c,%s,%c,%s,A", lat, ns, lon, ew, hms)
	case FormatRMC:
		payload = fmt.Sprintf("GPRMC,%s,A,%s,%c,%s,%c,0.000,0.00,%s,,A", hms, lat, ns, lon, ew, at.Format("020106"))
	case FormatGGA:
		payload = fmt.Sprintf("GPGGA,%s,%s,%c,%s,%c,1,08,1.0,%.1f,M,,M,,", hms, lat, ns, lon, ew, p.Elevation())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ww.format)
	}
	if _, err := ww.w.WriteString(FormatSentence(payload) + "\r\n"); err != nil {
		return err
	}
	return nil
}

func (ww *Writer) Flush() error {
	if ww.closed {
		return nil
	}
	return ww.w.Flush()
}

func (ww *Writer) Close() error {
	if ww.closed {
		return nil
	}
	ww.closed = true
	return ww.w.Flush()
}

// ddm renders |deg| as DDM with degWidth integer degree digits and four
// decimal places of minutes, plus the hemisphere letter.
func ddm(deg float64, degWidth int, pos, neg byte) (string, byte) {
	hemi := pos
	if deg < 0 {
		hemi = neg
		deg = -deg
	}
	whole := math.Floor(deg)
	mins := math.Round((deg-whole)*60*1e4) / 1e4
	if mins >= 60 {
		whole++
		mins -= 60
	}
	return fmt.Sprintf("%0*d%07.4f", degWidth, int(whole), mins), hemi
}
