package noding

import (
	"math"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

// ScaledNoder runs an integer-grid noder at an arbitrary precision by
// multiplying coordinates by Scale before noding and dividing afterwards.
type ScaledNoder struct {
	Noder Noder
	Scale float64
}

// NewScaledNoder wraps noder to work at the given scale.
func NewScaledNoder(noder Noder, scale float64) *ScaledNoder {
	return &ScaledNoder{Noder: noder, Scale: scale}
}

// Node implements [Noder].
func (n *ScaledNoder) Node(ss []*SegmentString) ([]*SegmentString, error) {
	if n.Scale == 1 {
		return n.Noder.Node(ss)
	}
	scaled := make([]*SegmentString, 0, len(ss))
	for _, s := range ss {
		pts := make([]geom.Coord, len(s.Coords))
		for i, p := range s.Coords {
			pts[i] = geom.C(math.Floor(p.X*n.Scale+0.5), math.Floor(p.Y*n.Scale+0.5))
		}
		if pts = geom.RemoveRepeated(pts); len(pts) >= 2 {
			scaled = append(scaled, NewSegmentString(pts, s.Label))
		}
	}
	out, err := n.Noder.Node(scaled)
	if err != nil {
		return nil, err
	}
	for _, s := range out {
		for i, p := range s.Coords {
			s.Coords[i] = geom.C(p.X/n.Scale, p.Y/n.Scale)
		}
	}
	return out, nil
}
