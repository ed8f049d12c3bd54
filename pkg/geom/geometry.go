package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Type identifies the concrete kind of a [Geometry].
type Type int

const (
	TypePoint Type = iota
	TypeLineString
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeCollection
)

var typeNames = [...]string{
	TypePoint:           "Point",
	TypeLineString:      "LineString",
	TypePolygon:         "Polygon",
	TypeMultiPoint:      "MultiPoint",
	TypeMultiLineString: "MultiLineString",
	TypeMultiPolygon:    "MultiPolygon",
	TypeCollection:      "GeometryCollection",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

// Geometry is implemented by every geometry value in this package.
type Geometry interface {
	Type() Type
	IsEmpty() bool
	Envelope() r2.Rect
}

// Point is a single coordinate. Empty points carry no coordinate.
type Point struct {
	Coord Coord
	Empty bool
}

// NewPoint returns a non-empty point at (x, y).
func NewPoint(x, y float64) Point { return Point{Coord: C(x, y)} }

func (p Point) Type() Type    { return TypePoint }
func (p Point) IsEmpty() bool { return p.Empty }
func (p Point) Envelope() r2.Rect {
	if p.Empty {
		return r2.EmptyRect()
	}
	return r2.RectFromPoints(p.Coord)
}

// LineString is an ordered sequence of coordinates.
type LineString struct {
	Coords []Coord
}

func (l LineString) Type() Type        { return TypeLineString }
func (l LineString) IsEmpty() bool     { return len(l.Coords) == 0 }
func (l LineString) Envelope() r2.Rect { return EnvelopeOf(l.Coords) }

// IsClosed reports whether the line is a ring.
func (l LineString) IsClosed() bool { return IsClosedRing(l.Coords) }

// Polygon is a shell ring followed by zero or more hole rings. Every ring is
// closed.
type Polygon struct {
	Rings [][]Coord
}

func (p Polygon) Type() Type    { return TypePolygon }
func (p Polygon) IsEmpty() bool { return len(p.Rings) == 0 || len(p.Rings[0]) == 0 }
func (p Polygon) Envelope() r2.Rect {
	if p.IsEmpty() {
		return r2.EmptyRect()
	}
	return EnvelopeOf(p.Rings[0])
}

// Shell returns the exterior ring, or nil for an empty polygon.
func (p Polygon) Shell() []Coord {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}

// Holes returns the interior rings.
func (p Polygon) Holes() [][]Coord {
	if len(p.Rings) < 2 {
		return nil
	}
	return p.Rings[1:]
}

// Area returns the area of the shell minus the area of the holes.
func (p Polygon) Area() float64 {
	if p.IsEmpty() {
		return 0
	}
	a := math.Abs(SignedArea(p.Rings[0]))
	for _, h := range p.Holes() {
		a -= math.Abs(SignedArea(h))
	}
	return a
}

// MultiPoint is a set of points.
type MultiPoint struct {
	Points []Point
}

func (m MultiPoint) Type() Type { return TypeMultiPoint }
func (m MultiPoint) IsEmpty() bool {
	for _, p := range m.Points {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}
func (m MultiPoint) Envelope() r2.Rect {
	env := r2.EmptyRect()
	for _, p := range m.Points {
		env = env.Union(p.Envelope())
	}
	return env
}

// MultiLineString is a set of line strings.
type MultiLineString struct {
	Lines []LineString
}

func (m MultiLineString) Type() Type { return TypeMultiLineString }
func (m MultiLineString) IsEmpty() bool {
	for _, l := range m.Lines {
		if !l.IsEmpty() {
			return false
		}
	}
	return true
}
func (m MultiLineString) Envelope() r2.Rect {
	env := r2.EmptyRect()
	for _, l := range m.Lines {
		env = env.Union(l.Envelope())
	}
	return env
}

// MultiPolygon is a set of polygons.
type MultiPolygon struct {
	Polygons []Polygon
}

func (m MultiPolygon) Type() Type { return TypeMultiPolygon }
func (m MultiPolygon) IsEmpty() bool {
	for _, p := range m.Polygons {
		if !p.IsEmpty() {
			return false
		}
	}
	return true
}
func (m MultiPolygon) Envelope() r2.Rect {
	env := r2.EmptyRect()
	for _, p := range m.Polygons {
		env = env.Union(p.Envelope())
	}
	return env
}

// Area returns the summed area of the member polygons.
func (m MultiPolygon) Area() float64 {
	var a float64
	for _, p := range m.Polygons {
		a += p.Area()
	}
	return a
}

// Collection is a heterogeneous set of geometries.
type Collection struct {
	Geometries []Geometry
}

func (c Collection) Type() Type { return TypeCollection }
func (c Collection) IsEmpty() bool {
	for _, g := range c.Geometries {
		if !g.IsEmpty() {
			return false
		}
	}
	return true
}
func (c Collection) Envelope() r2.Rect {
	env := r2.EmptyRect()
	for _, g := range c.Geometries {
		env = env.Union(g.Envelope())
	}
	return env
}

// Area returns the area of polygonal geometries and 0 for everything else.
func Area(g Geometry) float64 {
	switch t := g.(type) {
	case Polygon:
		return t.Area()
	case MultiPolygon:
		return t.Area()
	case Collection:
		var a float64
		for _, m := range t.Geometries {
			a += Area(m)
		}
		return a
	}
	return 0
}

// Polygons returns the polygon members of a polygonal geometry.
func Polygons(g Geometry) []Polygon {
	switch t := g.(type) {
	case Polygon:
		if t.IsEmpty() {
			return nil
		}
		return []Polygon{t}
	case MultiPolygon:
		return t.Polygons
	}
	return nil
}

// NumCoords counts the coordinates of g.
func NumCoords(g Geometry) int {
	switch t := g.(type) {
	case Point:
		if t.Empty {
			return 0
		}
		return 1
	case LineString:
		return len(t.Coords)
	case Polygon:
		n := 0
		for _, r := range t.Rings {
			n += len(r)
		}
		return n
	case MultiPoint:
		n := 0
		for _, p := range t.Points {
			n += NumCoords(p)
		}
		return n
	case MultiLineString:
		n := 0
		for _, l := range t.Lines {
			n += len(l.Coords)
		}
		return n
	case MultiPolygon:
		n := 0
		for _, p := range t.Polygons {
			n += NumCoords(p)
		}
		return n
	case Collection:
		n := 0
		for _, m := range t.Geometries {
			n += NumCoords(m)
		}
		return n
	}
	return 0
}
