package topology

// Location is the position of a point relative to an area.
type Location int

const (
	LocNone Location = iota
	LocInterior
	LocBoundary
	LocExterior
)

func (l Location) String() string {
	switch l {
	case LocInterior:
		return "i"
	case LocBoundary:
		return "b"
	case LocExterior:
		return "e"
	}
	return "-"
}

// Position selects a side of a directed edge.
type Position int

const (
	PosOn Position = iota
	PosLeft
	PosRight
)

// Opposite returns the other side. PosOn is its own opposite.
func (p Position) Opposite() Position {
	switch p {
	case PosLeft:
		return PosRight
	case PosRight:
		return PosLeft
	}
	return p
}

func (p Position) String() string {
	switch p {
	case PosLeft:
		return "left"
	case PosRight:
		return "right"
	}
	return "on"
}

// Label records the location of an edge itself (On) and of the areas to its
// left and right.
type Label struct {
	On, Left, Right Location
}

// AreaLabel returns a boundary label with the given side locations.
func AreaLabel(left, right Location) Label {
	return Label{On: LocBoundary, Left: left, Right: right}
}

// Get returns the location at pos.
func (l Label) Get(pos Position) Location {
	switch pos {
	case PosLeft:
		return l.Left
	case PosRight:
		return l.Right
	}
	return l.On
}

// Flip returns the label with its sides swapped.
func (l Label) Flip() Label {
	l.Left, l.Right = l.Right, l.Left
	return l
}

// Merge returns a label where every position that is unset in l takes the
// value from other.
func (l Label) Merge(other Label) Label {
	if l.On == LocNone {
		l.On = other.On
	}
	if l.Left == LocNone {
		l.Left = other.Left
	}
	if l.Right == LocNone {
		l.Right = other.Right
	}
	return l
}

// IsArea reports whether either side location is known.
func (l Label) IsArea() bool { return l.Left != LocNone || l.Right != LocNone }

// IsInteriorArea reports whether both sides of the edge are interior, which
// marks an edge that has collapsed inside the area.
func (l Label) IsInteriorArea() bool { return l.Left == LocInterior && l.Right == LocInterior }

// DepthDelta returns the change in depth when crossing the edge from its
// right side to its left side.
func (l Label) DepthDelta() int {
	switch {
	case l.Left == LocInterior && l.Right == LocExterior:
		return 1
	case l.Left == LocExterior && l.Right == LocInterior:
		return -1
	}
	return 0
}

func (l Label) String() string {
	return l.Left.String() + l.On.String() + l.Right.String()
}
