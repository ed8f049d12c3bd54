package buffer

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/noding"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// maxPrecisionDigits is the number of significant digits tried first when
// falling back to reduced precision.
const maxPrecisionDigits = 12

// Strategy identifies how an attempt nodes the raw curves.
type Strategy int

const (
	// StrategyInput nodes at the input precision with the indexed noder.
	StrategyInput Strategy = iota
	// StrategyFixed snap-rounds at the fixed input precision.
	StrategyFixed
	// StrategyReduced snap-rounds at a precision derived from a number of
	// significant digits.
	StrategyReduced
)

func (s Strategy) String() string {
	switch s {
	case StrategyInput:
		return "input"
	case StrategyFixed:
		return "fixed"
	case StrategyReduced:
		return "reduced"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Attempt describes one build attempt made by [Op.Buffer].
type Attempt struct {
	Strategy Strategy
	Digits   int     // Significant digits; only set for StrategyReduced
	Scale    float64 // Precision scale; 0 means floating
	Err      error
}

// Op computes buffers, retrying at reduced precision when a build fails
// with a topology or robustness error.
//
// An Op is not safe for concurrent use; create one per goroutine.
type Op struct {
	Params Parameters
	// Precision is the precision of the input coordinates. When fixed, the
	// only retry snap-rounds at that scale.
	Precision geom.PrecisionModel
	Logger    *log.Logger
	// OnAttempt, if set, is called after every attempt.
	OnAttempt func(Attempt)

	graph *topology.Graph
}

// NewOp returns an Op for floating-precision input.
func NewOp(params Parameters) *Op {
	return &Op{Params: params}
}

// Buffer returns the buffer of g at distance.
func Buffer(g geom.Geometry, distance float64, params Parameters) (geom.Geometry, error) {
	return NewOp(params).Buffer(g, distance)
}

// Graph returns the topology graph built by the last attempt, or nil.
func (o *Op) Graph() *topology.Graph { return o.graph }

// Buffer returns the buffer of g at distance. Errors other than topology
// and robustness failures are returned as soon as they occur; when every
// attempt fails the error of the last attempt is returned.
func (o *Op) Buffer(g geom.Geometry, distance float64) (geom.Geometry, error) {
	o.graph = nil
	if g == nil || g.IsEmpty() {
		return geom.Polygon{}, nil
	}
	if err := errors.ValidateDistance(distance); err != nil {
		return nil, err
	}

	result, err := o.attempt(g, distance, Attempt{Strategy: StrategyInput, Scale: o.Precision.Scale()},
		o.Precision, noding.NewIndexedNoder(o.Precision))
	if err == nil || !errors.IsRecoverable(err) {
		return result, err
	}
	lastErr := err

	if !o.Precision.IsFloating() {
		scale := o.Precision.Scale()
		return o.attempt(g, distance, Attempt{Strategy: StrategyFixed, Scale: scale},
			o.Precision, noding.NewScaledNoder(noding.NewSnapRoundingNoder(), scale))
	}

	for digits := maxPrecisionDigits; digits >= 0; digits-- {
		scale := precisionScale(g, distance, digits)
		pm := geom.Fixed(scale)
		result, err := o.attempt(g, distance, Attempt{Strategy: StrategyReduced, Digits: digits, Scale: scale},
			pm, noding.NewScaledNoder(noding.NewSnapRoundingNoder(), scale))
		if err == nil || !errors.IsRecoverable(err) {
			return result, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// attempt runs one build and reports it. A panic inside the build is
// returned as a robustness error.
func (o *Op) attempt(g geom.Geometry, distance float64, a Attempt, pm geom.PrecisionModel, noder noding.Noder) (result geom.Geometry, err error) {
	b := &Builder{Params: o.Params, Precision: pm, Noder: noder}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.New(errors.ErrCodeRobustness, "buffer build failed: %v", r)
		}
		o.graph = b.Graph()
		a.Err = err
		o.report(a)
	}()
	return b.Buffer(g, distance)
}

func (o *Op) report(a Attempt) {
	logger := o.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if a.Err != nil {
		logger.Debug("buffer attempt failed", "strategy", a.Strategy, "digits", a.Digits, "scale", a.Scale, "err", a.Err)
	} else {
		logger.Debug("buffer attempt succeeded", "strategy", a.Strategy, "digits", a.Digits, "scale", a.Scale)
	}
	if o.OnAttempt != nil {
		o.OnAttempt(a)
	}
}

// precisionScale returns the scale keeping digits significant digits for
// the largest ordinate the buffer of g can reach.
func precisionScale(g geom.Geometry, distance float64, digits int) float64 {
	env := g.Envelope()
	extent := max(math.Abs(env.X.Lo), math.Abs(env.X.Hi), math.Abs(env.Y.Lo), math.Abs(env.Y.Hi))
	extent += 2 * max(distance, 0)
	magnitude := int(math.Ceil(math.Log10(max(extent, 1))))
	return math.Pow(10, float64(digits-magnitude+1))
}
