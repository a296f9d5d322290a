package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GaussianHead implements the network head of a Gaussian policy. The
// head maps a batch of latent feature vectors through zero or more
// hidden layers and a final linear layer to one action mean per batch
// element. The log standard deviation is not predicted from the
// latent features: it is a single learnable vector with one entry per
// action dimension, shared across the batch and initialized to a
// constant.
type GaussianHead struct {
	g      *G.ExprGraph
	layers []Layer
	vm     G.VM

	input   *G.Node
	mean    *G.Node
	meanVal G.Value
	logStd  *G.Node

	batchSize  int
	features   int
	actionDims int

	learnables G.Nodes
}

// NewGaussianHead returns a new head network for a Gaussian policy
// over actions with actionDims dimensions. The head takes batch
// latent feature vectors of width features per forward pass. The
// hidden layers before the final linear mean layer are described by
// hiddenSizes, biases, and activations in the manner of addfcLayers;
// all three may be empty for a purely linear head. The log standard
// deviation vector is initialized to logStdInit in every dimension,
// and weights are initialized by init.
func NewGaussianHead(features, batch, actionDims int, logStdInit float64,
	hiddenSizes []int, biases []bool, activations []*Activation,
	init G.InitWFn) (*GaussianHead, error) {
	if err := validateLayers("newGaussianHead", hiddenSizes, biases,
		activations); err != nil {
		return nil, err
	}

	// Add the final linear layer predicting the action means
	hiddenSizes = append(hiddenSizes, actionDims)
	biases = append(biases, true)
	activations = append(activations, Identity())

	g := G.NewGraph()
	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, features),
		G.WithName("latentFeatures"),
		G.WithInit(G.Zeroes()),
	)

	layers := addfcLayers(g, hiddenSizes, biases, activations, init,
		features, "Mean")

	mean := input
	var err error
	for _, layer := range layers {
		if mean, err = layer.fwd(mean); err != nil {
			return nil, fmt.Errorf("newGaussianHead: could not compute "+
				"forward pass: %v", err)
		}
	}

	logStd := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(actionDims),
		G.WithName("LogStd"),
		G.WithInit(G.ValuesOf(logStdInit)),
	)

	head := &GaussianHead{
		g:          g,
		layers:     layers,
		input:      input,
		mean:       mean,
		logStd:     logStd,
		batchSize:  batch,
		features:   features,
		actionDims: actionDims,
	}
	G.Read(head.mean, &head.meanVal)
	head.vm = G.NewTapeMachine(g)

	return head, nil
}

// Graph returns the computational graph of the head
func (h *GaussianHead) Graph() *G.ExprGraph {
	return h.g
}

// BatchSize returns the number of latent feature vectors the head
// consumes per forward pass
func (h *GaussianHead) BatchSize() int {
	return h.batchSize
}

// Features returns the number of features in a single latent feature
// vector
func (h *GaussianHead) Features() int {
	return h.features
}

// Outputs returns the number of action means predicted per batch
// element
func (h *GaussianHead) Outputs() int {
	return h.actionDims
}

// SetInput sets the latent features for the next forward pass
func (h *GaussianHead) SetInput(input []float64) error {
	if len(input) != h.features*h.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs \n\twant(%v)"+
			" \n\thave(%v)", h.features*h.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(h.input.Shape()...),
	)
	return G.Let(h.input, inputTensor)
}

// Forward runs the head on a batch of latent feature vectors and
// returns the predicted action means together with the current log
// standard deviation vector, ready to parameterize a Gaussian
// distribution.
func (h *GaussianHead) Forward(latent []float64) (*mat.Dense, *mat.VecDense,
	error) {
	if err := h.SetInput(latent); err != nil {
		return nil, nil, fmt.Errorf("forward: %v", err)
	}

	if err := h.vm.RunAll(); err != nil {
		return nil, nil, fmt.Errorf("forward: could not run forward "+
			"pass: %v", err)
	}
	defer h.vm.Reset()

	meanData := h.meanVal.Data().([]float64)
	meanBacking := make([]float64, len(meanData))
	copy(meanBacking, meanData)
	mean := mat.NewDense(h.batchSize, h.actionDims, meanBacking)

	return mean, h.LogStd(), nil
}

// LogStd returns the current value of the learned log standard
// deviation vector
func (h *GaussianHead) LogStd() *mat.VecDense {
	logStdData := h.logStd.Value().Data().([]float64)
	logStdBacking := make([]float64, len(logStdData))
	copy(logStdBacking, logStdData)
	return mat.NewVecDense(h.actionDims, logStdBacking)
}

// Learnables returns the learnable nodes of the head, including the
// log standard deviation vector
func (h *GaussianHead) Learnables() G.Nodes {
	if h.learnables == nil {
		h.learnables = G.Nodes{h.logStd}
		for _, layer := range h.layers {
			if layer.Weights() != nil {
				h.learnables = append(h.learnables, layer.Weights())
			}
			if layer.Bias() != nil {
				h.learnables = append(h.learnables, layer.Bias())
			}
		}
	}
	return h.learnables
}

// Model returns the nodes and their gradients for optimization
func (h *GaussianHead) Model() []G.ValueGrad {
	return G.NodesToValueGrads(h.Learnables())
}
