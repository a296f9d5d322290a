package floatutils

import "testing"

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{0.5, 3.0, -1.0, 3.0})
	if max != 3.0 {
		t.Errorf("incorrect max \n\twant(3) \n\thave(%v)", max)
	}
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 3 {
		t.Errorf("incorrect max indices \n\twant([1 3]) \n\thave(%v)",
			indices)
	}

	// Ties include the first element
	_, indices = MaxSlice([]float64{1.0, 1.0, 0.0})
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 1 {
		t.Errorf("incorrect tied max indices \n\twant([0 1]) \n\thave(%v)",
			indices)
	}
}

func TestClip(t *testing.T) {
	if clipped := Clip(2.0, -1.0, 1.0); clipped != 1.0 {
		t.Errorf("incorrect clip \n\twant(1) \n\thave(%v)", clipped)
	}
	if clipped := Clip(-2.0, -1.0, 1.0); clipped != -1.0 {
		t.Errorf("incorrect clip \n\twant(-1) \n\thave(%v)", clipped)
	}
	if clipped := Clip(0.5, -1.0, 1.0); clipped != 0.5 {
		t.Errorf("incorrect clip \n\twant(0.5) \n\thave(%v)", clipped)
	}
}
