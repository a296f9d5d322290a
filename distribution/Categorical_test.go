package distribution

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TestCategoricalUniformEntropy checks that uniform logits over three
// actions give entropy log(3)
func TestCategoricalUniformEntropy(t *testing.T) {
	const tolerance float64 = 1e-10

	logits := mat.NewDense(1, 3, nil)

	categorical, err := NewCategorical(3, seed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := categorical.Parameterize(logits, false); err != nil {
		t.Fatal(err)
	}

	entropy, err := categorical.Entropy()
	if err != nil {
		t.Fatal(err)
	}

	expected := math.Log(3.0)
	if math.Abs(entropy.AtVec(0)-expected) > tolerance {
		t.Errorf("incorrect uniform entropy \n\twant(%v) \n\thave(%v)",
			expected, entropy.AtVec(0))
	}
}

// TestCategoricalModeTies checks that the mode of tied logits is the
// lowest index and is deterministic across calls
func TestCategoricalModeTies(t *testing.T) {
	logits := mat.NewDense(1, 3, nil)

	categorical, err := NewCategorical(3, seed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := categorical.Parameterize(logits, true); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		mode, err := categorical.Mode()
		if err != nil {
			t.Fatal(err)
		}
		if mode.At(0, 0) != 0.0 {
			t.Fatalf("tied mode not broken to lowest index \n\twant(0) "+
				"\n\thave(%v)", mode.At(0, 0))
		}
	}
}

// TestCategoricalMode checks that the mode is the index of the
// maximum logit for each batch row
func TestCategoricalMode(t *testing.T) {
	logits := mat.NewDense(2, 4, []float64{
		0.1, 3.0, -1.0, 0.5,
		-2.0, 0.0, 0.0, 7.5,
	})

	categorical, err := NewCategorical(4, seed)
	if err != nil {
		t.Fatal(err)
	}

	mode, err := categorical.Parameterize(logits, true)
	if err != nil {
		t.Fatal(err)
	}

	expected := []float64{1.0, 3.0}
	for b := 0; b < 2; b++ {
		if mode.At(b, 0) != expected[b] {
			t.Errorf("incorrect mode at batch row %v \n\twant(%v) "+
				"\n\thave(%v)", b, expected[b], mode.At(b, 0))
		}
	}
}

// TestCategoricalSampleRange checks that sampled indices are integers
// in [0, numActions)
func TestCategoricalSampleRange(t *testing.T) {
	const numActions int = 5
	const batch int = 1000

	logits := mat.NewDense(batch, numActions, nil)

	categorical, err := NewCategorical(numActions, seed)
	if err != nil {
		t.Fatal(err)
	}

	actions, err := categorical.Parameterize(logits, false)
	if err != nil {
		t.Fatal(err)
	}

	for b := 0; b < batch; b++ {
		action := actions.At(b, 0)
		index := int(action)
		if float64(index) != action || index < 0 || index >= numActions {
			t.Fatalf("sampled action %v at batch row %v not an index in "+
				"[0, %v)", action, b, numActions)
		}
	}
}

// TestCategoricalLogProb checks log probabilities against a direct
// log-sum-exp computation
func TestCategoricalLogProb(t *testing.T) {
	const tolerance float64 = 1e-10

	row := []float64{1.0, 2.0, 3.0}
	logits := mat.NewDense(1, 3, row)

	categorical, err := NewCategorical(3, seed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := categorical.Parameterize(logits, false); err != nil {
		t.Fatal(err)
	}

	for index := 0; index < 3; index++ {
		actions := mat.NewDense(1, 1, []float64{float64(index)})
		logProb, err := categorical.LogProb(actions)
		if err != nil {
			t.Fatal(err)
		}

		expected := row[index] - floats.LogSumExp(row)
		if math.Abs(logProb.AtVec(0)-expected) > tolerance {
			t.Errorf("incorrect log probability of action %v \n\twant(%v)"+
				" \n\thave(%v)", index, expected, logProb.AtVec(0))
		}
		if logProb.AtVec(0) > 0 {
			t.Errorf("log probability of action %v is positive: %v",
				index, logProb.AtVec(0))
		}
	}
}

// TestCategoricalLargeLogits checks that normalization is stable
// against logits large enough to overflow a naive softmax
func TestCategoricalLargeLogits(t *testing.T) {
	const tolerance float64 = 1e-10

	logits := mat.NewDense(1, 2, []float64{1000.0, 1000.0})

	categorical, err := NewCategorical(2, seed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := categorical.Parameterize(logits, false); err != nil {
		t.Fatal(err)
	}

	entropy, err := categorical.Entropy()
	if err != nil {
		t.Fatal(err)
	}

	expected := math.Log(2.0)
	if math.Abs(entropy.AtVec(0)-expected) > tolerance {
		t.Errorf("normalization not stable for large logits \n\twant(%v)"+
			" \n\thave(%v)", expected, entropy.AtVec(0))
	}
}

// TestCategoricalInvalidActions checks that non-integer and
// out-of-range action indices are rejected
func TestCategoricalInvalidActions(t *testing.T) {
	logits := mat.NewDense(1, 3, nil)

	categorical, err := NewCategorical(3, seed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := categorical.Parameterize(logits, false); err != nil {
		t.Fatal(err)
	}

	for _, action := range []float64{-1.0, 3.0, 0.5} {
		actions := mat.NewDense(1, 1, []float64{action})
		if _, err := categorical.LogProb(actions); err == nil {
			t.Errorf("expected error for action index %v", action)
		}
	}
}

// TestCategoricalNotParameterized checks that querying before
// parameterization is an invalid state error
func TestCategoricalNotParameterized(t *testing.T) {
	categorical, err := NewCategorical(3, seed)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := categorical.Sample(); !errors.Is(err,
		ErrNotParameterized) {
		t.Errorf("expected ErrNotParameterized from Sample, got %v", err)
	}
	if _, err := categorical.Entropy(); !errors.Is(err,
		ErrNotParameterized) {
		t.Errorf("expected ErrNotParameterized from Entropy, got %v", err)
	}
}

// TestCategoricalKLDiv checks that the KL divergence is reported as
// not implemented
func TestCategoricalKLDiv(t *testing.T) {
	categorical, err := NewCategorical(3, seed)
	if err != nil {
		t.Fatal(err)
	}

	other, err := NewCategorical(3, seed+1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := categorical.KLDiv(other); !errors.Is(err, ErrNoKL) {
		t.Errorf("expected ErrNoKL, got %v", err)
	}
}
