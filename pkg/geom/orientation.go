package geom

import "math/big"

// Orientation indices returned by [Orient].
const (
	Clockwise        = -1
	Collinear        = 0
	CounterClockwise = 1

	Right = Clockwise
	Left  = CounterClockwise
)

// safeEpsilon bounds the relative error of the floating-point determinant.
const safeEpsilon = 1e-15

// Orient returns the orientation of q relative to the directed line p1->p2:
// [CounterClockwise] when q is to the left, [Clockwise] when it is to the
// right and [Collinear] when it lies on the line.
//
// The fast floating-point determinant is used whenever its error bound
// proves the sign; otherwise the determinant is evaluated exactly.
func Orient(p1, p2, q Coord) int {
	if s, ok := orientFilter(p1, p2, q); ok {
		return s
	}
	return orientExact(p1, p2, q)
}

func orientFilter(pa, pb, pc Coord) (int, bool) {
	detLeft := (pa.X - pc.X) * (pb.Y - pc.Y)
	detRight := (pa.Y - pc.Y) * (pb.X - pc.X)
	det := detLeft - detRight

	var detSum float64
	switch {
	case detLeft > 0:
		if detRight <= 0 {
			return sign(det), true
		}
		detSum = detLeft + detRight
	case detLeft < 0:
		if detRight >= 0 {
			return sign(det), true
		}
		detSum = -detLeft - detRight
	default:
		return sign(det), true
	}

	errBound := safeEpsilon * detSum
	if det >= errBound || -det >= errBound {
		return sign(det), true
	}
	return 0, false
}

func orientExact(pa, pb, pc Coord) int {
	rat := func(v float64) *big.Rat { return new(big.Rat).SetFloat64(v) }
	sub := func(a, b float64) *big.Rat { return new(big.Rat).Sub(rat(a), rat(b)) }

	left := new(big.Rat).Mul(sub(pa.X, pc.X), sub(pb.Y, pc.Y))
	right := new(big.Rat).Mul(sub(pa.Y, pc.Y), sub(pb.X, pc.X))
	return left.Sub(left, right).Sign()
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SignedArea returns the shoelace area of a closed ring. It is positive for
// counter-clockwise rings.
func SignedArea(ring []Coord) float64 {
	if len(ring) < 3 {
		return 0
	}
	// Shift to the first vertex to limit cancellation.
	x0, y0 := ring[0].X, ring[0].Y
	var sum float64
	for i := 1; i < len(ring)-1; i++ {
		x1, y1 := ring[i].X-x0, ring[i].Y-y0
		x2, y2 := ring[i+1].X-x0, ring[i+1].Y-y0
		sum += x1*y2 - x2*y1
	}
	return sum / 2
}

// IsCCW reports whether a closed ring is oriented counter-clockwise. Rings
// with zero area are not.
func IsCCW(ring []Coord) bool {
	return SignedArea(ring) > 0
}

// RingLocation is the position of a point relative to a ring.
type RingLocation int

const (
	RingExterior RingLocation = iota
	RingBoundary
	RingInterior
)

// LocateInRing classifies p against a closed ring using a crossing count
// along a ray to the right of p.
func LocateInRing(p Coord, ring []Coord) RingLocation {
	crossings := 0
	for i := 1; i < len(ring); i++ {
		p1, p2 := ring[i-1], ring[i]
		if p1.X < p.X && p2.X < p.X {
			continue
		}
		if p == p2 {
			return RingBoundary
		}
		if p1.Y == p.Y && p2.Y == p.Y {
			lo, hi := p1.X, p2.X
			if lo > hi {
				lo, hi = hi, lo
			}
			if p.X >= lo && p.X <= hi {
				return RingBoundary
			}
			continue
		}
		if (p1.Y > p.Y && p2.Y <= p.Y) || (p2.Y > p.Y && p1.Y <= p.Y) {
			o := Orient(p1, p2, p)
			if o == Collinear {
				return RingBoundary
			}
			if p2.Y < p1.Y {
				o = -o
			}
			if o == Left {
				crossings++
			}
		}
	}
	if crossings%2 == 1 {
		return RingInterior
	}
	return RingExterior
}

// InRing reports whether p lies inside or on the boundary of ring.
func InRing(p Coord, ring []Coord) bool {
	return LocateInRing(p, ring) != RingExterior
}
