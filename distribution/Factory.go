package distribution

import (
	"fmt"

	"github.com/samuelfneumann/godist/spec"
)

// FromActionSpec returns the Distribution matching an action space
// specification: a Gaussian for continuous action spaces and a
// Categorical for discrete action spaces. Tanh squashing of a
// continuous distribution is a caller decision made with
// NewTanhGaussian, not part of this dispatch.
//
// Any other cardinality is a configuration error and is reported
// here, at policy construction time, naming the offending
// cardinality. MultiDiscrete and MultiBinary action spaces are
// explicitly unsupported.
func FromActionSpec(s spec.Action, seed uint64) (Distribution, error) {
	switch s.Cardinality {
	case spec.Continuous:
		return NewGaussian(s.Dims(), seed)

	case spec.Discrete:
		return NewCategorical(s.NumActions(), seed)

	default:
		return nil, fmt.Errorf("fromActionSpec: no distribution "+
			"implemented for action space of cardinality %q: must be %q "+
			"or %q", s.Cardinality, spec.Continuous, spec.Discrete)
	}
}
