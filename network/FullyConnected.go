package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Layer is a single layer of a neural network
type Layer interface {
	fwd(*G.Node) (*G.Node, error)
	Weights() *G.Node
	Bias() *G.Node
	Activation() *Activation
}

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// Fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	if f.Weights() != nil {
		x = G.Must(G.Mul(x, f.Weights()))
	}
	if f.Bias() != nil {
		// Broadcast the bias weights to all samples along the batch
		// dimension
		x = G.Must(G.BroadcastAdd(x, f.Bias(), nil, []byte{0}))
	}
	if f.Activation() == nil || f.Activation().IsIdentity() {
		return x, nil
	}
	return f.Activation().fwd(x)
}

func (f *fcLayer) Activation() *Activation {
	return f.act
}

func (f *fcLayer) Bias() *G.Node {
	return f.bias
}

func (f *fcLayer) Weights() *G.Node {
	return f.weights
}

// addfcLayers creates the fully connected layers of a network on the
// graph g. For index i, hiddenSizes[i] is the number of units in
// layer i, biases[i] is whether layer i has a bias unit, and
// activations[i] is the activation of layer i. The parameter init
// determines the weight initialization scheme, and features is the
// number of inputs to the first layer. The suffix distinguishes the
// node names of separate networks sharing a graph.
func addfcLayers(g *G.ExprGraph, hiddenSizes []int, biases []bool,
	activations []*Activation, init G.InitWFn, features int,
	suffix string) []Layer {
	layers := make([]Layer, len(hiddenSizes))
	for i, size := range hiddenSizes {
		weightsName := fmt.Sprintf("L%dW%v", i, suffix)
		weights := G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(features, size),
			G.WithName(weightsName),
			G.WithInit(init),
		)

		var bias *G.Node
		if biases[i] {
			biasName := fmt.Sprintf("L%dB%v", i, suffix)
			bias = G.NewVector(
				g,
				tensor.Float64,
				G.WithShape(size),
				G.WithName(biasName),
				G.WithInit(G.Zeroes()),
			)
		}

		layers[i] = &fcLayer{
			weights: weights,
			bias:    bias,
			act:     activations[i],
		}
		features = size
	}
	return layers
}

// validateLayers ensures one bias flag and one activation exist per
// hidden layer
func validateLayers(caller string, hiddenSizes []int, biases []bool,
	activations []*Activation) error {
	if len(hiddenSizes) != len(activations) {
		return fmt.Errorf("%v: invalid number of activations \n\twant(%d)"+
			" \n\thave(%d)", caller, len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		return fmt.Errorf("%v: invalid number of biases \n\twant(%d)"+
			" \n\thave(%d)", caller, len(hiddenSizes), len(biases))
	}
	return nil
}
