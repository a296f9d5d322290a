// Package network implements the neural networks that produce the
// parameters of action probability distributions. A head network maps
// a batch of latent feature vectors, produced by some upstream policy
// network, to the parameters of a distribution: means and a learned
// log standard deviation for Gaussian policies, or logits for
// categorical policies.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network whose forward pass produces the
// parameters of an action probability distribution
type NeuralNet interface {
	// Graph returns the computational graph of the network
	Graph() *G.ExprGraph

	// BatchSize returns the number of latent feature vectors the
	// network consumes per forward pass
	BatchSize() int

	// Features returns the number of features in a single latent
	// feature vector
	Features() int

	// Outputs returns the number of distribution parameters predicted
	// per batch element
	Outputs() int

	// SetInput sets the value of the input node before running the
	// forward pass. The input holds BatchSize() * Features() values
	// in row-major order.
	SetInput([]float64) error

	// Learnables returns the learnable nodes of the network
	Learnables() G.Nodes

	// Model returns the nodes and their gradients for optimization
	Model() []G.ValueGrad
}
