// Package gridworld lays out a 5x5 grid of lettered points for building
// synthetic routes with known lengths.
//
//	A B C D E
//	F G H I J
//	K L M N O
//	P Q R S T
//	U V W X Y
//
// M sits on the centre position; A is the north-west corner.
package gridworld

import (
	"fmt"
	"math"

	"gpsroute/internal/geometry"
	"gpsroute/internal/position"
)

const (
	Size             = 5
	DefaultGridUnitM = 10000.0
)

const firstLetter byte = 'A'

type World struct {
	Centre         position.Position
	HorizontalUnit float64 // metres between columns
	VerticalUnit   float64 // metres between rows
}

func Default() World {
	return World{
		Centre:         position.New(0, 0, 0),
		HorizontalUnit: DefaultGridUnitM,
		VerticalUnit:   DefaultGridUnitM,
	}
}

// Point returns the position of a grid letter (A..Y, upper case).
func (w World) Point(letter byte) (position.Position, error) {
	if letter < firstLetter || letter >= firstLetter+Size*Size {
		return position.Position{}, fmt.Errorf("gridworld: no point %q", letter)
	}
	idx := int(letter - firstLetter)
	row, col := idx/Size, idx%Size
	mid := Size / 2

	north := float64(mid-row) * w.VerticalUnit
	east := float64(col-mid) * w.HorizontalUnit

	lat := w.Centre.Latitude() + geometry.RadToDeg(north/position.EarthMeanRadius)
	lonScale := position.EarthMeanRadius * math.Cos(geometry.DegToRad(w.Centre.Latitude()))
	lon := w.Centre.Longitude() + geometry.RadToDeg(east/lonScale)
	return position.New(lat, lon, w.Centre.Elevation()), nil
}

// Route maps each letter of letters to its point, in order.
func (w World) Route(letters string) ([]position.Position, error) {
	if letters == "" {
		return nil, fmt.Errorf("gridworld: empty route")
	}
	out := make([]position.Position, 0, len(letters))
	for i := 0; i < len(letters); i++ {
		p, err := w.Point(letters[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
