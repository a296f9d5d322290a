// Package policy implements policies that select actions by sampling
// from an action probability distribution parameterized by a head
// network. A policy owns one head network and one distribution, and
// parameterizes the distribution exactly once per forward pass. A
// policy holds no state across forward passes, so one policy per
// concurrent rollout worker is safe.
package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/godist/distribution"
	"github.com/samuelfneumann/godist/network"
)

// continuousDist is a distribution parameterized by action means and
// a log standard deviation vector
type continuousDist interface {
	distribution.Distribution
	Parameterize(mean *mat.Dense, logStd *mat.VecDense,
		deterministic bool) (*mat.Dense, error)
}

// Gaussian implements a Gaussian policy over continuous, vector
// valued actions. The policy's head network predicts the action mean
// for each latent feature vector and learns a batch-invariant log
// standard deviation. Actions may optionally be squashed into (-1, 1)
// by the hyperbolic tangent, with the log probabilities corrected for
// the squashing.
type Gaussian struct {
	head *network.GaussianHead
	dist continuousDist

	squashed bool
}

// NewGaussian returns a new Gaussian policy over actions with
// actionDims dimensions. The head network consumes batch latent
// feature vectors of width features per forward pass; its layers are
// described by hiddenSizes, biases, activations, and init, and its
// log standard deviation is initialized to logStdInit. If squash, the
// policy's actions are squashed into (-1, 1). The seed seeds the
// action sampler.
func NewGaussian(features, batch, actionDims int, logStdInit float64,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, squash bool, seed uint64) (*Gaussian, error) {
	head, err := network.NewGaussianHead(features, batch, actionDims,
		logStdInit, hiddenSizes, biases, activations, init)
	if err != nil {
		return nil, fmt.Errorf("newGaussian: could not create head "+
			"network: %v", err)
	}

	var dist continuousDist
	if squash {
		dist, err = distribution.NewTanhGaussian(actionDims,
			distribution.DefaultEpsilon, seed)
	} else {
		dist, err = distribution.NewGaussian(actionDims, seed)
	}
	if err != nil {
		return nil, fmt.Errorf("newGaussian: could not create "+
			"distribution: %v", err)
	}

	return &Gaussian{
		head:     head,
		dist:     dist,
		squashed: squash,
	}, nil
}

// SelectAction runs the policy's head on a batch of latent feature
// vectors, parameterizes the policy's distribution with the predicted
// means and log standard deviation, and returns a batch of actions
// together with their log probabilities. If deterministic, the
// actions are the distribution's mode; otherwise they are sampled.
func (p *Gaussian) SelectAction(latent []float64,
	deterministic bool) (*mat.Dense, *mat.VecDense, error) {
	mean, logStd, err := p.head.Forward(latent)
	if err != nil {
		return nil, nil, fmt.Errorf("selectAction: %v", err)
	}

	actions, err := p.dist.Parameterize(mean, logStd, deterministic)
	if err != nil {
		return nil, nil, fmt.Errorf("selectAction: %v", err)
	}

	// For squashed actions, the recorded pre-squash draw gives the
	// log probabilities without an inverse tanh pass
	var logProb *mat.VecDense
	if squashed, ok := p.dist.(*distribution.TanhGaussian); ok {
		logProb, err = squashed.LogProbPreSquash(actions,
			squashed.PreSquash())
	} else {
		logProb, err = p.dist.LogProb(actions)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("selectAction: %v", err)
	}

	return actions, logProb, nil
}

// Entropy returns the entropy of the policy's distribution at each
// element of the last batch, or distribution.ErrNoEntropy for a
// squashed policy
func (p *Gaussian) Entropy() (*mat.VecDense, error) {
	return p.dist.Entropy()
}

// Squashed returns whether the policy's actions are squashed into
// (-1, 1)
func (p *Gaussian) Squashed() bool {
	return p.squashed
}

// Network returns the head network of the policy
func (p *Gaussian) Network() network.NeuralNet {
	return p.head
}
