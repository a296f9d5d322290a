// Package distribution provides action probability distributions for
// reinforcement learning policies. A policy network produces the
// parameters of a distribution (means and log standard deviations for
// continuous action spaces, logits for discrete action spaces), and a
// Distribution turns those parameters into actions, log probabilities,
// and entropies for use in a policy gradient loss.
//
// A Distribution is parameterized once per forward pass and queried a
// few times on the same batch before being parameterized again.
// Querying a Distribution before it has ever been parameterized
// returns ErrNotParameterized, which indicates a programming error in
// the caller. Distributions hold no state across forward passes other
// than their random number source, so one Distribution per concurrent
// forward pass is safe; a single Distribution must not be shared
// between passes.
//
// Actions are always batched: continuous actions are (batch x dims)
// matrices of action vectors, and discrete actions are (batch x 1)
// matrices of action indices. Per-batch-element quantities such as log
// probabilities and entropies are vectors with one entry per row of
// the batch.
package distribution

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotParameterized is returned when a Distribution is queried
	// before its parameters have been set
	ErrNotParameterized = errors.New("distribution has not been " +
		"parameterized")

	// ErrNoEntropy is returned by distributions whose entropy has no
	// closed form. Callers needing an entropy bonus for such
	// distributions should estimate it from the negative log
	// probability of fresh samples.
	ErrNoEntropy = errors.New("entropy has no closed form")

	// ErrNoKL is returned by distributions which do not implement a
	// KL divergence
	ErrNoKL = errors.New("kl divergence not implemented")
)

// Distribution is a parameterized probability distribution over the
// actions of a policy
type Distribution interface {
	// Sample draws a stochastic batch of actions from the
	// distribution. The draw is reparameterized: it is a
	// deterministic function of the distribution's parameters and
	// independent noise, so that gradients of the sampled actions
	// with respect to the parameters are well defined.
	Sample() (*mat.Dense, error)

	// Mode returns the highest probability batch of actions, with no
	// noise. Mode is for evaluation and deployment, not exploration.
	Mode() (*mat.Dense, error)

	// LogProb returns the log probability (or log density, for
	// continuous actions) of each row of a batch of actions under the
	// current parameterization, one value per row
	LogProb(actions *mat.Dense) (*mat.VecDense, error)

	// Entropy returns the entropy of the distribution at each batch
	// element, or ErrNoEntropy if the distribution's entropy has no
	// closed form
	Entropy() (*mat.VecDense, error)

	// KLDiv returns the KL divergence between this distribution and
	// other at each batch element. No current Distribution implements
	// this; each returns ErrNoKL.
	KLDiv(other Distribution) (*mat.VecDense, error)
}
