package buffer

import (
	"fmt"
	"strings"

	"github.com/matzehuels/geobuffer/pkg/errors"
)

// Cap is the style of the ends of a buffered line.
type Cap int

const (
	CapRound Cap = iota
	CapFlat
	CapSquare
)

var capNames = map[Cap]string{CapRound: "round", CapFlat: "flat", CapSquare: "square"}

func (c Cap) String() string {
	if s, ok := capNames[c]; ok {
		return s
	}
	return fmt.Sprintf("cap(%d)", int(c))
}

// ParseCap parses a cap style name. "butt" is accepted for flat.
func ParseCap(s string) (Cap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round", "":
		return CapRound, nil
	case "flat", "butt":
		return CapFlat, nil
	case "square":
		return CapSquare, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidParameter, "unknown cap style %q (want round, flat or square)", s)
}

// Join is the style of the corners of a buffered line or ring.
type Join int

const (
	JoinRound Join = iota
	JoinMitre
	JoinBevel
)

var joinNames = map[Join]string{JoinRound: "round", JoinMitre: "mitre", JoinBevel: "bevel"}

func (j Join) String() string {
	if s, ok := joinNames[j]; ok {
		return s
	}
	return fmt.Sprintf("join(%d)", int(j))
}

// ParseJoin parses a join style name. "miter" is accepted for mitre.
func ParseJoin(s string) (Join, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round", "":
		return JoinRound, nil
	case "mitre", "miter":
		return JoinMitre, nil
	case "bevel":
		return JoinBevel, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidParameter, "unknown join style %q (want round, mitre or bevel)", s)
}

// Default parameter values.
const (
	DefaultQuadrantSegments = 8
	DefaultMitreLimit       = 5.0
)

// Parameters control the shape of a buffer.
type Parameters struct {
	// QuadrantSegments is the number of segments used to approximate a
	// quarter circle. Values below 1 are treated as 1.
	QuadrantSegments int
	Cap              Cap
	Join             Join
	// MitreLimit bounds the distance of a mitre corner from its vertex, as
	// a multiple of the buffer distance.
	MitreLimit float64
	// SingleSided buffers lines on one side only: left for positive
	// distances, right for negative ones.
	SingleSided bool
	// InvertOrientation treats clockwise rings as counter-clockwise and
	// vice versa.
	InvertOrientation bool
}

// DefaultParameters returns round caps and joins with 8 segments per
// quadrant.
func DefaultParameters() Parameters {
	return Parameters{
		QuadrantSegments: DefaultQuadrantSegments,
		Cap:              CapRound,
		Join:             JoinRound,
		MitreLimit:       DefaultMitreLimit,
	}
}

// Validate checks the parameters for values callers should not send.
func (p Parameters) Validate() error {
	if err := errors.ValidateQuadrantSegments(p.QuadrantSegments); err != nil {
		return err
	}
	if err := errors.ValidateMitreLimit(p.MitreLimit); err != nil {
		return err
	}
	if _, ok := capNames[p.Cap]; !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid cap style %d", int(p.Cap))
	}
	if _, ok := joinNames[p.Join]; !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid join style %d", int(p.Join))
	}
	return nil
}

func (p Parameters) quadrantSegments() int { return max(p.QuadrantSegments, 1) }
