package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/godist/distribution"
	"github.com/samuelfneumann/godist/network"
)

// Categorical implements a softmax policy over a finite set of
// actions. The policy's head network predicts one unnormalized logit
// per action for each latent feature vector, and actions are sampled
// proportionally to the softmax of the logits.
type Categorical struct {
	head *network.CategoricalHead
	dist *distribution.Categorical
}

// NewCategorical returns a new categorical policy over numActions
// actions. The head network consumes batch latent feature vectors of
// width features per forward pass; its layers are described by
// hiddenSizes, biases, activations, and init. The seed seeds the
// action sampler.
func NewCategorical(features, batch, numActions int, hiddenSizes []int,
	biases []bool, activations []*network.Activation, init G.InitWFn,
	seed uint64) (*Categorical, error) {
	head, err := network.NewCategoricalHead(features, batch, numActions,
		hiddenSizes, biases, activations, init)
	if err != nil {
		return nil, fmt.Errorf("newCategorical: could not create head "+
			"network: %v", err)
	}

	dist, err := distribution.NewCategorical(numActions, seed)
	if err != nil {
		return nil, fmt.Errorf("newCategorical: could not create "+
			"distribution: %v", err)
	}

	return &Categorical{
		head: head,
		dist: dist,
	}, nil
}

// SelectAction runs the policy's head on a batch of latent feature
// vectors, parameterizes the policy's distribution with the predicted
// logits, and returns a batch of action indices together with their
// log probabilities. If deterministic, each action is the highest
// probability index; otherwise indices are sampled.
func (p *Categorical) SelectAction(latent []float64,
	deterministic bool) (*mat.Dense, *mat.VecDense, error) {
	logits, err := p.head.Forward(latent)
	if err != nil {
		return nil, nil, fmt.Errorf("selectAction: %v", err)
	}

	actions, err := p.dist.Parameterize(logits, deterministic)
	if err != nil {
		return nil, nil, fmt.Errorf("selectAction: %v", err)
	}

	logProb, err := p.dist.LogProb(actions)
	if err != nil {
		return nil, nil, fmt.Errorf("selectAction: %v", err)
	}

	return actions, logProb, nil
}

// Entropy returns the entropy of the policy's distribution at each
// element of the last batch
func (p *Categorical) Entropy() (*mat.VecDense, error) {
	return p.dist.Entropy()
}

// Network returns the head network of the policy
func (p *Categorical) Network() network.NeuralNet {
	return p.head
}
