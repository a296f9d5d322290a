package distribution

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the default guard added inside the log of the
// squashing correction so that the correction stays finite when a
// squashed action component saturates to exactly ±1.
const DefaultEpsilon float64 = 1e-6

// TanhGaussian implements a diagonal Gaussian distribution whose
// samples are squashed into (-1, 1) by the hyperbolic tangent.
// Squashing bounds the actions without clipping, which would stop
// gradients and bias the policy at the action boundaries. TanhGaussian
// composes an inner Gaussian with the tanh bijection; the log density
// of a squashed action is the inner Gaussian log density at the
// pre-squash value minus the log determinant of the tanh Jacobian.
//
// Sample and Mode record the pre-squash draw, available from
// PreSquash. The recorded value is valid for exactly the most recent
// batch of actions produced by this TanhGaussian. Passing it to
// LogProbPreSquash avoids recovering the pre-image through the
// inverse tanh, which takes a different numerical path than the
// forward sampling pass. Actions obtained anywhere else must go
// through LogProb, which recomputes the pre-image.
type TanhGaussian struct {
	gaussian *Gaussian
	epsilon  float64

	preSquash *mat.Dense // pre-tanh values of the last Sample or Mode
}

// NewTanhGaussian returns a new tanh-squashed diagonal Gaussian
// distribution over actions with actionDims dimensions. An epsilon
// of 0 or less selects DefaultEpsilon.
func NewTanhGaussian(actionDims int, epsilon float64,
	seed uint64) (*TanhGaussian, error) {
	gaussian, err := NewGaussian(actionDims, seed)
	if err != nil {
		return nil, fmt.Errorf("newTanhGaussian: %v", err)
	}

	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	return &TanhGaussian{
		gaussian: gaussian,
		epsilon:  epsilon,
	}, nil
}

// Dims returns the dimensionality of a single action vector
func (t *TanhGaussian) Dims() int {
	return t.gaussian.Dims()
}

// Parameterize sets the parameters of the inner Gaussian for one
// forward pass and returns a batch of squashed actions. See
// Gaussian.Parameterize.
func (t *TanhGaussian) Parameterize(mean *mat.Dense, logStd *mat.VecDense,
	deterministic bool) (*mat.Dense, error) {
	// Mode is used only to set the parameters; the returned squashed
	// actions come from a fresh Mode or Sample call below.
	if _, err := t.gaussian.Parameterize(mean, logStd, true); err != nil {
		return nil, fmt.Errorf("parameterize: %v", err)
	}

	if deterministic {
		return t.Mode()
	}
	return t.Sample()
}

// Sample draws a batch of actions from the inner Gaussian and
// squashes each into (-1, 1), recording the pre-squash draw
func (t *TanhGaussian) Sample() (*mat.Dense, error) {
	preSquash, err := t.gaussian.Sample()
	if err != nil {
		return nil, err
	}
	t.preSquash = preSquash
	return squash(preSquash), nil
}

// Mode returns the squashed mean of the inner Gaussian for each batch
// row, recording the pre-squash mean
func (t *TanhGaussian) Mode() (*mat.Dense, error) {
	preSquash, err := t.gaussian.Mode()
	if err != nil {
		return nil, err
	}
	t.preSquash = preSquash
	return squash(preSquash), nil
}

// PreSquash returns the pre-squash values of the most recent batch of
// actions produced by Sample or Mode, or nil if no actions have been
// produced. The returned matrix corresponds to that batch only.
func (t *TanhGaussian) PreSquash() *mat.Dense {
	return t.preSquash
}

// LogProb returns the log density of each row of squashed actions
// under the current parameterization. The pre-squash values are
// recovered through the inverse hyperbolic tangent, which is
// evaluated in a numerically stable form rather than as
// 0.5*log((1+x)/(1-x)), and the inner Gaussian log density at the
// recovered values is corrected by the log determinant of the tanh
// Jacobian.
//
// For actions produced by this TanhGaussian's own Sample or Mode,
// LogProbPreSquash with PreSquash skips the inverse transform and
// should be preferred.
func (t *TanhGaussian) LogProb(actions *mat.Dense) (*mat.VecDense, error) {
	rows, cols := actions.Dims()
	preSquash := mat.NewDense(rows, cols, nil)
	preSquash.Apply(func(i, j int, v float64) float64 {
		return math.Atanh(v)
	}, actions)

	return t.LogProbPreSquash(actions, preSquash)
}

// LogProbPreSquash returns the log density of each row of squashed
// actions given their known pre-squash values, skipping the inverse
// tanh. The pre-squash values must be the ones that produced actions,
// such as those recorded by Sample and returned from PreSquash.
//
// For each row, the log density is the inner Gaussian log density at
// the pre-squash values minus the squashing correction
// Σ log(1 - a² + ε) over the action dimensions. The ε guard keeps the
// correction finite when an action component has saturated to ±1, at
// the cost of a negligible bias in the density.
func (t *TanhGaussian) LogProbPreSquash(actions,
	preSquash *mat.Dense) (*mat.VecDense, error) {
	rows, cols := actions.Dims()
	if r, c := preSquash.Dims(); r != rows || c != cols {
		return nil, fmt.Errorf("logProbPreSquash: action dimensions "+
			"(%v x %v) must match pre-squash dimensions (%v x %v)",
			rows, cols, r, c)
	}

	logProb, err := t.gaussian.LogProb(preSquash)
	if err != nil {
		return nil, err
	}

	for b := 0; b < rows; b++ {
		var correction float64
		for i := 0; i < cols; i++ {
			a := actions.At(b, i)
			correction += math.Log(1.0 - a*a + t.epsilon)
		}
		logProb.SetVec(b, logProb.AtVec(b)-correction)
	}
	return logProb, nil
}

// Entropy returns ErrNoEntropy: the entropy of a squashed Gaussian
// has no closed form
func (t *TanhGaussian) Entropy() (*mat.VecDense, error) {
	return nil, ErrNoEntropy
}

// KLDiv is not implemented for tanh-squashed Gaussian distributions
func (t *TanhGaussian) KLDiv(other Distribution) (*mat.VecDense, error) {
	return nil, ErrNoKL
}

// SampleWithLogProb parameterizes the distribution, samples a batch
// of squashed actions, and returns the actions together with their
// log densities. The log densities are computed from the recorded
// pre-squash draw, avoiding the inverse tanh and its precision loss.
func (t *TanhGaussian) SampleWithLogProb(mean *mat.Dense,
	logStd *mat.VecDense) (*mat.Dense, *mat.VecDense, error) {
	if _, err := t.gaussian.Parameterize(mean, logStd, true); err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}

	actions, err := t.Sample()
	if err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}

	logProb, err := t.LogProbPreSquash(actions, t.preSquash)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}
	return actions, logProb, nil
}

// squash applies the hyperbolic tangent elementwise
func squash(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	squashed := mat.NewDense(rows, cols, nil)
	squashed.Apply(func(i, j int, v float64) float64 {
		return math.Tanh(v)
	}, x)
	return squashed
}
