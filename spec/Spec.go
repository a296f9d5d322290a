// Package spec describes the action spaces that a policy can act in.
// A Spec tells the cardinality, shape, and bounds of the actions an
// environment accepts. Distributions are constructed from an action
// Spec once, at policy construction time.
package spec

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Cardinality determines the cardinality of an action space
// (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"

	// Recognized but unsupported action space cardinalities. No
	// probability distribution exists for these; constructing a
	// distribution from them is a configuration error.
	MultiDiscrete Cardinality = "MultiDiscrete"
	MultiBinary   Cardinality = "MultiBinary"
)

// Action implements an action space specification, which tells the
// cardinality, shape, and bounds of the actions in an environment.
// For continuous action spaces, Shape determines the dimensionality
// of the action vector. For discrete action spaces, actions are
// integers in [0, UpperBound[0]].
type Action struct {
	Shape      mat.Vector
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewContinuous constructs the specification of a continuous,
// vector-valued action space with actionDims dimensions. The lower
// and upper bounds may be nil, in which case the action space is
// unbounded.
func NewContinuous(actionDims int, lowerBound, upperBound mat.Vector) Action {
	if actionDims < 1 {
		panic(fmt.Sprintf("newContinuous: invalid action dimensions %v",
			actionDims))
	}
	if lowerBound != nil && lowerBound.Len() != actionDims {
		panic(fmt.Sprintf("newContinuous: lower bound length %v must "+
			"match action dimensions %v", lowerBound.Len(), actionDims))
	}
	if upperBound != nil && upperBound.Len() != actionDims {
		panic(fmt.Sprintf("newContinuous: upper bound length %v must "+
			"match action dimensions %v", upperBound.Len(), actionDims))
	}
	shape := mat.NewVecDense(actionDims, nil)
	return Action{shape, lowerBound, upperBound, Continuous}
}

// NewDiscrete constructs the specification of a discrete action space
// with numActions available actions, indexed from 0.
func NewDiscrete(numActions int) Action {
	if numActions < 1 {
		panic(fmt.Sprintf("newDiscrete: invalid number of actions %v",
			numActions))
	}
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, nil)
	upperBound := mat.NewVecDense(1, []float64{float64(numActions - 1)})
	return Action{shape, lowerBound, upperBound, Discrete}
}

// Dims returns the dimensionality of a single action vector in a
// continuous action space.
func (a Action) Dims() int {
	return a.Shape.Len()
}

// NumActions returns the number of available actions in a discrete
// action space.
func (a Action) NumActions() int {
	return int(a.UpperBound.AtVec(0)) + 1
}
