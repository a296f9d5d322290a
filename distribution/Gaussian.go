package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/godist/utils/floatutils"
)

// Gaussian implements a diagonal Gaussian distribution over
// vector-valued actions. Each action dimension is an independent
// Gaussian with its own mean and standard deviation. The mean of each
// dimension may differ across the batch, but the log standard
// deviation is shared across the batch: it is a single vector with one
// entry per action dimension, learned independently of the state.
//
// Sampling uses the reparameterization trick: an action is computed as
// μ + σ ⊙ ε where ε is drawn from a standard normal, so the sampled
// action is a differentiable function of μ and σ.
type Gaussian struct {
	actionDims int
	noise      distmv.Rander // standard normal noise for sampling

	// Parameters of the most recent forward pass. A nil mean means
	// the distribution has never been parameterized.
	mean   *mat.Dense    // batch x actionDims
	logStd *mat.VecDense // actionDims, shared across the batch
	stddev *mat.VecDense // exp(logStd)
}

// NewGaussian returns a new diagonal Gaussian distribution over
// actions with actionDims dimensions. The seed seeds the noise source
// used for sampling.
func NewGaussian(actionDims int, seed uint64) (*Gaussian, error) {
	if actionDims < 1 {
		return nil, fmt.Errorf("newGaussian: invalid action dimensions "+
			"\n\twant(>= 1) \n\thave(%v)", actionDims)
	}

	means := make([]float64, actionDims)
	stds := mat.NewDiagDense(actionDims, floatutils.Ones(actionDims))
	source := rand.NewSource(seed)
	noise, ok := distmv.NewNormal(means, stds, source)
	if !ok {
		return nil, fmt.Errorf("newGaussian: could not create standard " +
			"normal for action sampling")
	}

	return &Gaussian{
		actionDims: actionDims,
		noise:      noise,
	}, nil
}

// Dims returns the dimensionality of a single action vector
func (g *Gaussian) Dims() int {
	return g.actionDims
}

// Parameterize sets the parameters of the distribution for one
// forward pass and returns a batch of actions drawn from it. The mean
// holds one action mean per batch row. The log standard deviation has
// no batch dimension; it is broadcast across the batch. The standard
// deviation used is the elementwise exp of logStd.
//
// If deterministic, the returned actions are Mode(); otherwise they
// are Sample().
func (g *Gaussian) Parameterize(mean *mat.Dense, logStd *mat.VecDense,
	deterministic bool) (*mat.Dense, error) {
	_, cols := mean.Dims()
	if cols != g.actionDims {
		return nil, fmt.Errorf("parameterize: invalid mean dimensions "+
			"\n\twant(%v) \n\thave(%v)", g.actionDims, cols)
	}
	if logStd.Len() != g.actionDims {
		return nil, fmt.Errorf("parameterize: invalid log std length "+
			"\n\twant(%v) \n\thave(%v)", g.actionDims, logStd.Len())
	}

	stddev := mat.NewVecDense(g.actionDims, nil)
	for i := 0; i < g.actionDims; i++ {
		stddev.SetVec(i, math.Exp(logStd.AtVec(i)))
	}

	g.mean = mat.DenseCopyOf(mean)
	g.logStd = mat.VecDenseCopyOf(logStd)
	g.stddev = stddev

	if deterministic {
		return g.Mode()
	}
	return g.Sample()
}

// Sample draws a batch of actions using the reparameterization trick:
// each action is μ + σ ⊙ ε for standard normal noise ε.
func (g *Gaussian) Sample() (*mat.Dense, error) {
	if g.mean == nil {
		return nil, ErrNotParameterized
	}

	batch, dims := g.mean.Dims()
	actions := mat.NewDense(batch, dims, nil)
	for b := 0; b < batch; b++ {
		eps := g.noise.Rand(nil)
		for i := 0; i < dims; i++ {
			actions.Set(b, i, g.mean.At(b, i)+g.stddev.AtVec(i)*eps[i])
		}
	}
	return actions, nil
}

// Mode returns the mean of the distribution for each batch row
func (g *Gaussian) Mode() (*mat.Dense, error) {
	if g.mean == nil {
		return nil, ErrNotParameterized
	}
	return mat.DenseCopyOf(g.mean), nil
}

// LogProb returns the log density of each row of actions under the
// current parameterization. The per-dimension Gaussian log densities
// are summed across the action dimensions of each row, giving one
// value per batch row.
func (g *Gaussian) LogProb(actions *mat.Dense) (*mat.VecDense, error) {
	if g.mean == nil {
		return nil, ErrNotParameterized
	}

	batch, dims := g.mean.Dims()
	if r, c := actions.Dims(); r != batch || c != dims {
		return nil, fmt.Errorf("logProb: invalid action dimensions "+
			"\n\twant(%v x %v) \n\thave(%v x %v)", batch, dims, r, c)
	}

	logProb := mat.NewVecDense(batch, nil)
	for b := 0; b < batch; b++ {
		var total float64
		for i := 0; i < dims; i++ {
			norm := distuv.Normal{
				Mu:    g.mean.At(b, i),
				Sigma: g.stddev.AtVec(i),
			}
			total += norm.LogProb(actions.At(b, i))
		}
		logProb.SetVec(b, total)
	}
	return logProb, nil
}

// Entropy returns the differential entropy of the distribution at
// each batch row: the closed-form per-dimension Gaussian entropy
// summed across the action dimensions. The entropy depends only on
// the standard deviation, so every batch row has the same entropy.
func (g *Gaussian) Entropy() (*mat.VecDense, error) {
	if g.mean == nil {
		return nil, ErrNotParameterized
	}

	var perRow float64
	for i := 0; i < g.actionDims; i++ {
		norm := distuv.Normal{Mu: 0, Sigma: g.stddev.AtVec(i)}
		perRow += norm.Entropy()
	}

	batch, _ := g.mean.Dims()
	entropy := mat.NewVecDense(batch, nil)
	for b := 0; b < batch; b++ {
		entropy.SetVec(b, perRow)
	}
	return entropy, nil
}

// KLDiv is not implemented for Gaussian distributions
func (g *Gaussian) KLDiv(other Distribution) (*mat.VecDense, error) {
	return nil, ErrNoKL
}

// SampleWithLogProb parameterizes the distribution, samples a batch
// of actions, and returns the actions together with their log
// densities. Training code that needs both in the same pass should
// use this instead of calling Sample and LogProb separately.
func (g *Gaussian) SampleWithLogProb(mean *mat.Dense,
	logStd *mat.VecDense) (*mat.Dense, *mat.VecDense, error) {
	actions, err := g.Parameterize(mean, logStd, false)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}

	logProb, err := g.LogProb(actions)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}
	return actions, logProb, nil
}
