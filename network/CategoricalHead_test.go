package network

import (
	"testing"

	G "gorgonia.org/gorgonia"
)

// TestCategoricalHeadForward checks that a zero-initialized linear
// head predicts uniform (all zero) logits of the right shape
func TestCategoricalHeadForward(t *testing.T) {
	const features int = 3
	const batch int = 2
	const numActions int = 5

	head, err := NewCategoricalHead(features, batch, numActions, []int{},
		[]bool{}, []*Activation{}, G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}

	if head.Outputs() != numActions {
		t.Errorf("incorrect outputs \n\twant(%v) \n\thave(%v)", numActions,
			head.Outputs())
	}

	latent := []float64{0.5, -1, 2, 0, 1, -2}
	logits, err := head.Forward(latent)
	if err != nil {
		t.Fatal(err)
	}

	rows, cols := logits.Dims()
	if rows != batch || cols != numActions {
		t.Fatalf("incorrect logits dimensions \n\twant(%v x %v) "+
			"\n\thave(%v x %v)", batch, numActions, rows, cols)
	}
	for b := 0; b < rows; b++ {
		for i := 0; i < cols; i++ {
			if logits.At(b, i) != 0.0 {
				t.Errorf("zero-initialized head predicted nonzero logit "+
					"at (%v, %v): %v", b, i, logits.At(b, i))
			}
		}
	}
}

// TestCategoricalHeadInvalidInput checks that a latent batch of the
// wrong size is rejected
func TestCategoricalHeadInvalidInput(t *testing.T) {
	head, err := NewCategoricalHead(3, 2, 4, []int{}, []bool{},
		[]*Activation{}, G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := head.Forward([]float64{1, 2, 3}); err == nil {
		t.Error("expected error for invalid latent batch size")
	}
}
