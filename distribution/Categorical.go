package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/godist/utils/floatutils"
)

// Categorical implements a categorical distribution over a finite set
// of actions, parameterized by unnormalized log weights (logits). The
// logits are normalized internally with a log-sum-exp reduction, so
// callers never softmax them and large logits do not overflow.
//
// Actions are integer indices in [0, NumActions()), carried as the
// single column of a (batch x 1) matrix so that discrete and
// continuous distributions share one action representation.
type Categorical struct {
	numActions int
	source     rand.Source

	logits *mat.Dense           // batch x numActions, nil until parameterized
	rows   []distuv.Categorical // one distribution per batch row
}

// NewCategorical returns a new categorical distribution over
// numActions actions. The seed seeds the source used for sampling.
func NewCategorical(numActions int, seed uint64) (*Categorical, error) {
	if numActions < 1 {
		return nil, fmt.Errorf("newCategorical: invalid number of actions "+
			"\n\twant(>= 1) \n\thave(%v)", numActions)
	}

	return &Categorical{
		numActions: numActions,
		source:     rand.NewSource(seed),
	}, nil
}

// NumActions returns the number of actions the distribution covers
func (c *Categorical) NumActions() int {
	return c.numActions
}

// Parameterize sets the logits of the distribution for one forward
// pass and returns a batch of action indices, one per row of logits.
// If deterministic, the returned actions are Mode(); otherwise they
// are Sample().
func (c *Categorical) Parameterize(logits *mat.Dense,
	deterministic bool) (*mat.Dense, error) {
	batch, cols := logits.Dims()
	if cols != c.numActions {
		return nil, fmt.Errorf("parameterize: invalid logits dimensions "+
			"\n\twant(%v) \n\thave(%v)", c.numActions, cols)
	}

	rows := make([]distuv.Categorical, batch)
	for b := 0; b < batch; b++ {
		row := logits.RawRowView(b)

		// Stable softmax over the row's logits
		logSumExp := floats.LogSumExp(row)
		weights := make([]float64, c.numActions)
		for i, logit := range row {
			weights[i] = math.Exp(logit - logSumExp)
		}

		rows[b] = distuv.NewCategorical(weights, c.source)
	}

	c.logits = mat.DenseCopyOf(logits)
	c.rows = rows

	if deterministic {
		return c.Mode()
	}
	return c.Sample()
}

// Sample draws an action index for each batch row, proportionally to
// the softmax of the row's logits
func (c *Categorical) Sample() (*mat.Dense, error) {
	if c.logits == nil {
		return nil, ErrNotParameterized
	}

	batch := len(c.rows)
	actions := mat.NewDense(batch, 1, nil)
	for b := 0; b < batch; b++ {
		actions.Set(b, 0, c.rows[b].Rand())
	}
	return actions, nil
}

// Mode returns the index of the highest probability action for each
// batch row. Ties are broken toward the lowest index, so Mode is
// deterministic across calls.
func (c *Categorical) Mode() (*mat.Dense, error) {
	if c.logits == nil {
		return nil, ErrNotParameterized
	}

	batch, _ := c.logits.Dims()
	actions := mat.NewDense(batch, 1, nil)
	for b := 0; b < batch; b++ {
		_, indices := floatutils.MaxSlice(c.logits.RawRowView(b))
		actions.Set(b, 0, float64(indices[0]))
	}
	return actions, nil
}

// LogProb returns the log probability of each row's action index
// under the current parameterization. The actions must be a
// (batch x 1) matrix of integer indices in [0, NumActions()).
func (c *Categorical) LogProb(actions *mat.Dense) (*mat.VecDense, error) {
	if c.logits == nil {
		return nil, ErrNotParameterized
	}

	batch := len(c.rows)
	if r, co := actions.Dims(); r != batch || co != 1 {
		return nil, fmt.Errorf("logProb: invalid action dimensions "+
			"\n\twant(%v x 1) \n\thave(%v x %v)", batch, r, co)
	}

	logProb := mat.NewVecDense(batch, nil)
	for b := 0; b < batch; b++ {
		action := actions.At(b, 0)
		index := int(action)
		if float64(index) != action || index < 0 || index >= c.numActions {
			return nil, fmt.Errorf("logProb: invalid action index %v for "+
				"%v actions", action, c.numActions)
		}
		logProb.SetVec(b, c.rows[b].LogProb(action))
	}
	return logProb, nil
}

// Entropy returns the Shannon entropy of the distribution at each
// batch row
func (c *Categorical) Entropy() (*mat.VecDense, error) {
	if c.logits == nil {
		return nil, ErrNotParameterized
	}

	batch := len(c.rows)
	entropy := mat.NewVecDense(batch, nil)
	for b := 0; b < batch; b++ {
		entropy.SetVec(b, c.rows[b].Entropy())
	}
	return entropy, nil
}

// KLDiv is not implemented for categorical distributions
func (c *Categorical) KLDiv(other Distribution) (*mat.VecDense, error) {
	return nil, ErrNoKL
}

// SampleWithLogProb parameterizes the distribution, samples a batch
// of action indices, and returns the indices together with their log
// probabilities
func (c *Categorical) SampleWithLogProb(logits *mat.Dense) (*mat.Dense,
	*mat.VecDense, error) {
	actions, err := c.Parameterize(logits, false)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}

	logProb, err := c.LogProb(actions)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleWithLogProb: %v", err)
	}
	return actions, logProb, nil
}
