package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// CategoricalHead implements the network head of a categorical
// policy. The head maps a batch of latent feature vectors through
// zero or more hidden layers and a final linear layer to one vector
// of unnormalized logits per batch element, one logit per available
// action.
type CategoricalHead struct {
	g      *G.ExprGraph
	layers []Layer
	vm     G.VM

	input     *G.Node
	logits    *G.Node
	logitsVal G.Value

	batchSize  int
	features   int
	numActions int

	learnables G.Nodes
}

// NewCategoricalHead returns a new head network for a categorical
// policy over numActions actions. The head takes batch latent feature
// vectors of width features per forward pass. The hidden layers
// before the final linear logits layer are described by hiddenSizes,
// biases, and activations in the manner of addfcLayers; all three may
// be empty for a purely linear head.
func NewCategoricalHead(features, batch, numActions int, hiddenSizes []int,
	biases []bool, activations []*Activation,
	init G.InitWFn) (*CategoricalHead, error) {
	if err := validateLayers("newCategoricalHead", hiddenSizes, biases,
		activations); err != nil {
		return nil, err
	}

	// Add the final linear layer predicting the logits
	hiddenSizes = append(hiddenSizes, numActions)
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
		features, "Logits")

	logits := input
	var err error
	for _, layer := range layers {
		if logits, err = layer.fwd(logits); err != nil {
			return nil, fmt.Errorf("newCategoricalHead: could not compute "+
				"forward pass: %v", err)
		}
	}

	head := &CategoricalHead{
		g:          g,
		layers:     layers,
		input:      input,
		logits:     logits,
		batchSize:  batch,
		features:   features,
		numActions: numActions,
	}
	G.Read(head.logits, &head.logitsVal)
	head.vm = G.NewTapeMachine(g)

	return head, nil
}

// Graph returns the computational graph of the head
func (h *CategoricalHead) Graph() *G.ExprGraph {
	return h.g
}

// BatchSize returns the number of latent feature vectors the head
// consumes per forward pass
func (h *CategoricalHead) BatchSize() int {
	return h.batchSize
}

// Features returns the number of features in a single latent feature
// vector
func (h *CategoricalHead) Features() int {
	return h.features
}

// Outputs returns the number of logits predicted per batch element
func (h *CategoricalHead) Outputs() int {
	return h.numActions
}

// SetInput sets the latent features for the next forward pass
func (h *CategoricalHead) SetInput(input []float64) error {
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
// returns the predicted logits, ready to parameterize a Categorical
// distribution
func (h *CategoricalHead) Forward(latent []float64) (*mat.Dense, error) {
	if err := h.SetInput(latent); err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	if err := h.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward: could not run forward pass: %v",
			err)
	}
	defer h.vm.Reset()

	logitsData := h.logitsVal.Data().([]float64)
	logitsBacking := make([]float64, len(logitsData))
	copy(logitsBacking, logitsData)

	return mat.NewDense(h.batchSize, h.numActions, logitsBacking), nil
}

// Learnables returns the learnable nodes of the head
func (h *CategoricalHead) Learnables() G.Nodes {
	if h.learnables == nil {
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
func (h *CategoricalHead) Model() []G.ValueGrad {
	return G.NodesToValueGrads(h.Learnables())
}
