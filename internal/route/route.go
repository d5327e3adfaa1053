// Package route computes metrics over an ordered sequence of positions.
package route

import (
	"io"
	"math"

	"github.com/bradfitz/latlong"

	"gpsroute/internal/gpx"
	"gpsroute/internal/nmea"
	"gpsroute/internal/position"
)

// Route is immutable after construction; every metric is recomputed from the
// stored positions on each call.
type Route struct {
	name        string
	desc        string
	positions   []position.Position
	granularity float64
}

type Option func(*Route)

// WithGranularity sets the minimum distance in metres a point must be from
// the last accepted point to count towards TotalLength. The default is 0.
func WithGranularity(m float64) Option {
	return func(r *Route) { r.granularity = m }
}

func WithName(name string) Option {
	return func(r *Route) { r.name = name }
}

func WithDescription(desc string) Option {
	return func(r *Route) { r.desc = desc }
}

// New copies positions; later changes to the slice do not affect the route.
func New(positions []position.Position, opts ...Option) *Route {
	r := &Route{positions: append([]position.Position(nil), positions...)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromGPXFile loads a route from a GPX file. The GPX name and description
// are used unless an option overrides them.
func FromGPXFile(path string, opts ...Option) (*Route, error) {
	doc, err := gpx.Load(path)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, opts), nil
}

func FromGPX(r io.Reader, opts ...Option) (*Route, error) {
	doc, err := gpx.Parse(r)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, opts), nil
}

// FromNMEALogFile builds a route from every extractable sentence in an NMEA log.
func FromNMEALogFile(path string, opts ...Option) (*Route, error) {
	pts, err := nmea.RouteFromLog(path)
	if err != nil {
		return nil, err
	}
	return New(pts, opts...), nil
}

func fromDocument(doc gpx.Document, opts []Option) *Route {
	base := []Option{WithName(doc.Name), WithDescription(doc.Description)}
	return New(doc.Positions, append(base, opts...)...)
}

func (r *Route) Name() string         { return r.name }
func (r *Route) Description() string  { return r.desc }
func (r *Route) Granularity() float64 { return r.granularity }
func (r *Route) NumPositions() int    { return len(r.positions) }

// Positions returns a copy of the raw sequence.
func (r *Route) Positions() []position.Position {
	return append([]position.Position(nil), r.positions...)
}

// walk visits every point accepted by the granularity filter. The first
// point is always accepted with a zero segment; each later point is compared
// against the last accepted one only.
func (r *Route) walk(visit func(p position.Position, segment float64)) {
	if len(r.positions) == 0 {
		return
	}
	anchor := r.positions[0]
	visit(anchor, 0)
	for _, p := range r.positions[1:] {
		d := position.DistanceBetween(anchor, p)
		if d >= r.granularity {
			visit(p, d)
			anchor = p
		}
	}
}

// TotalLength sums the distances between consecutive accepted points.
func (r *Route) TotalLength() float64 {
	total := 0.0
	r.walk(func(_ position.Position, d float64) { total += d })
	return total
}

// AcceptedPositions returns the points kept by the granularity filter.
func (r *Route) AcceptedPositions() []position.Position {
	var out []position.Position
	r.walk(func(p position.Position, _ float64) { out = append(out, p) })
	return out
}

// NetLength is the distance from the first to the last position.
func (r *Route) NetLength() float64 {
	if len(r.positions) < 2 {
		return 0
	}
	return position.DistanceBetween(r.positions[0], r.positions[len(r.positions)-1])
}

func (r *Route) TotalHeightGain() float64 {
	gain := 0.0
	for i := 1; i < len(r.positions); i++ {
		if d := r.positions[i].Elevation() - r.positions[i-1].Elevation(); d > 0 {
			gain += d
		}
	}
	return gain
}

func (r *Route) TotalHeightLoss() float64 {
	loss := 0.0
	for i := 1; i < len(r.positions); i++ {
		if d := r.positions[i-1].Elevation() - r.positions[i].Elevation(); d > 0 {
			loss += d
		}
	}
	return loss
}

// MinElevation is the lowest raw elevation, 0 for an empty route.
func (r *Route) MinElevation() float64 {
	b, _ := r.Bounds()
	return b.MinEle
}

// MaxElevation is the highest raw elevation, 0 for an empty route.
func (r *Route) MaxElevation() float64 {
	b, _ := r.Bounds()
	return b.MaxEle
}

// Bounds is the smallest lat/lon box holding every position. It does not
// handle routes that cross the antimeridian.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	MinEle float64 `json:"min_ele"`
	MaxEle float64 `json:"max_ele"`
}

// Bounds reports false for an empty route.
func (r *Route) Bounds() (Bounds, bool) {
	if len(r.positions) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
		MinEle: math.Inf(1), MaxEle: math.Inf(-1),
	}
	for _, p := range r.positions {
		b.MinLat = math.Min(b.MinLat, p.Latitude())
		b.MaxLat = math.Max(b.MaxLat, p.Latitude())
		b.MinLon = math.Min(b.MinLon, p.Longitude())
		b.MaxLon = math.Max(b.MaxLon, p.Longitude())
		b.MinEle = math.Min(b.MinEle, p.Elevation())
		b.MaxEle = math.Max(b.MaxEle, p.Elevation())
	}
	return b, true
}

type Summary struct {
	Name          string  `json:"name,omitempty"`
	Description   string  `json:"description,omitempty"`
	Positions     int     `json:"positions"`
	Accepted      int     `json:"accepted_positions"`
	GranularityM  float64 `json:"granularity_m"`
	TotalLengthM  float64 `json:"total_length_m"`
	NetLengthM    float64 `json:"net_length_m"`
	HeightGainM   float64 `json:"height_gain_m"`
	HeightLossM   float64 `json:"height_loss_m"`
	Bounds        *Bounds `json:"bounds,omitempty"`
	StartTimeZone string  `json:"start_time_zone,omitempty"`
}

func (r *Route) Summary() Summary {
	s := Summary{
		Name:         r.name,
		Description:  r.desc,
		Positions:    len(r.positions),
		GranularityM: r.granularity,
		NetLengthM:   r.NetLength(),
		HeightGainM:  r.TotalHeightGain(),
		HeightLossM:  r.TotalHeightLoss(),
	}
	r.walk(func(_ position.Position, d float64) {
		s.Accepted++
		s.TotalLengthM += d
	})
	if b, ok := r.Bounds(); ok {
		s.Bounds = &b
		start := r.positions[0]
		s.StartTimeZone = latlong.LookupZoneName(start.Latitude(), start.Longitude())
	}
	return s
}
