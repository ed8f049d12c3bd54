package buffer

import "github.com/matzehuels/geobuffer/pkg/geom"

// vertexList accumulates the vertices of one raw offset curve. Points are
// rounded to the precision model and dropped when they fall within
// minDist of the previous point.
type vertexList struct {
	pts     []geom.Coord
	pm      geom.PrecisionModel
	minDist float64
}

func newVertexList(pm geom.PrecisionModel, minDist float64) *vertexList {
	return &vertexList{pm: pm, minDist: minDist}
}

func (l *vertexList) add(p geom.Coord) {
	p = l.pm.MakePrecise(p)
	if n := len(l.pts); n > 0 && geom.Distance(l.pts[n-1], p) < l.minDist {
		return
	}
	l.pts = append(l.pts, p)
}

func (l *vertexList) addAll(pts []geom.Coord, forward bool) {
	if forward {
		for _, p := range pts {
			l.add(p)
		}
		return
	}
	for i := len(pts) - 1; i >= 0; i-- {
		l.add(pts[i])
	}
}

func (l *vertexList) closeRing() {
	if len(l.pts) == 0 {
		return
	}
	if first := l.pts[0]; l.pts[len(l.pts)-1] != first {
		l.pts = append(l.pts, first)
	}
}

func (l *vertexList) coords() []geom.Coord { return l.pts }
