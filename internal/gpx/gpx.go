// Package gpx reads and writes the part of a GPX document a route needs:
// a name, a description and an ordered list of points.
package gpx

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"gpsroute/internal/position"
)

var ErrNoPoints = errors.New("gpx: no route or track points")

const namespace = "http://www.topografix.com/GPX/1/1"

// Document is what a GPX file contributes to a route.
type Document struct {
	Name        string
	Description string
	Positions   []position.Position
}

func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse uses the first <rte> that has points. Without one, the points of
// every <trk>/<trkseg> are concatenated in document order. Names fall back
// to the document metadata.
func Parse(r io.Reader) (Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("gpx: read: %w", err)
	}
	g, err := gpxgo.ParseBytes(b)
	if err != nil {
		return Document{}, fmt.Errorf("gpx: decode: %w", err)
	}

	doc := Document{Name: g.Name, Description: g.Description}
	var pts []gpxgo.GPXPoint
	for _, rte := range g.Routes {
		if len(rte.Points) == 0 {
			continue
		}
		pts = rte.Points
		doc.Name, doc.Description = firstNonEmpty(rte.Name, doc.Name), firstNonEmpty(rte.Description, doc.Description)
		break
	}
	if pts == nil {
		for _, trk := range g.Tracks {
			n := len(pts)
			for _, seg := range trk.Segments {
				pts = append(pts, seg.Points...)
			}
			if len(pts) > n && doc.Name == "" {
				doc.Name, doc.Description = trk.Name, firstNonEmpty(trk.Description, doc.Description)
			}
		}
	}
	if len(pts) == 0 {
		return Document{}, ErrNoPoints
	}

	doc.Positions = make([]position.Position, 0, len(pts))
	for i, pt := range pts {
		p, err := toPosition(pt)
		if err != nil {
			return Document{}, fmt.Errorf("gpx: point %d: %w", i, err)
		}
		doc.Positions = append(doc.Positions, p)
	}
	return doc, nil
}

// toPosition rejects NaN and infinite coordinates, which the XML layer
// accepts as floats.
func toPosition(pt gpxgo.GPXPoint) (position.Position, error) {
	ele := 0.0
	if pt.Elevation.NotNull() {
		ele = pt.Elevation.Value()
	}
	for _, v := range []float64{pt.Latitude, pt.Longitude, ele} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return position.Position{}, fmt.Errorf("%w: non-finite value in %v,%v,%v", position.ErrMalformed, pt.Latitude, pt.Longitude, ele)
		}
	}
	return position.New(pt.Latitude, pt.Longitude, ele), nil
}

// Write emits a GPX 1.1 document holding a single <rte>.
func Write(w io.Writer, name, desc string, positions []position.Position) error {
	rte := gpxgo.GPXRoute{Name: name, Description: desc}
	for _, p := range positions {
		rte.Points = append(rte.Points, gpxgo.GPXPoint{
			Point: gpxgo.Point{
				Latitude:  p.Latitude(),
				Longitude: p.Longitude(),
				Elevation: *gpxgo.NewNullableFloat64(p.Elevation()),
			},
		})
	}
	g := gpxgo.GPX{
		XMLNs:   namespace,
		Version: "1.1",
		Creator: "gpsroute",
		Routes:  []gpxgo.GPXRoute{rte},
	}

	b, err := g.ToXml(gpxgo.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("gpx: encode: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
