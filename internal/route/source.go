package route

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gpsroute/internal/gpx"
	"gpsroute/internal/nmea"
)

// Source names the file format a route is read from.
type Source string

const (
	SourceAuto Source = "auto"
	SourceNMEA Source = "nmea"
	SourceGPX  Source = "gpx"
)

func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return SourceAuto, nil
	case SourceAuto, SourceNMEA, SourceGPX:
		return src, nil
	default:
		return "", fmt.Errorf("unknown route format %q (want auto, nmea or gpx)", s)
	}
}

// SourceForPath guesses the format from a file extension.
func SourceForPath(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx", ".xml":
		return SourceGPX
	case ".nmea", ".log", ".txt":
		return SourceNMEA
	default:
		return SourceAuto
	}
}

// Read builds a route from r. SourceAuto treats input whose first
// non-blank byte is '<' as GPX and anything else as an NMEA log.
// The returned Source is the format actually used.
func Read(r io.Reader, src Source, opts ...Option) (*Route, Source, error) {
	br := bufio.NewReader(r)
	if src == SourceAuto || src == "" {
		var err error
		src, err = sniff(br)
		if err != nil {
			return nil, "", err
		}
	}

	switch src {
	case SourceGPX:
		doc, err := gpx.Parse(br)
		if err != nil {
			return nil, src, err
		}
		return fromDocument(doc, opts), src, nil
	case SourceNMEA:
		pts, err := nmea.NewReader(br).ReadAll()
		if err != nil {
			return nil, src, err
		}
		return New(pts, opts...), src, nil
	default:
		return nil, "", fmt.Errorf("unknown route format %q", src)
	}
}

// Load opens path and reads it with Read. SourceAuto first tries the file
// extension, then sniffs the content.
func Load(path string, src Source, opts ...Option) (*Route, Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	if src == SourceAuto || src == "" {
		src = SourceForPath(path)
	}
	return Read(f, src, opts...)
}

func sniff(br *bufio.Reader) (Source, error) {
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return SourceNMEA, nil
		}
		if err != nil {
			return "", err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n', 0xEF, 0xBB, 0xBF:
			// whitespace and a UTF-8 BOM
			if _, err := br.ReadByte(); err != nil {
				return "", err
			}
		case '<':
			return SourceGPX, nil
		default:
			return SourceNMEA, nil
		}
	}
}
