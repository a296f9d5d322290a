// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// ColMean computes and returns the mean of the columns of a matrix.
// For a batch of row-vector actions, this is the mean action.
func ColMean(matrix *mat.Dense) *mat.VecDense {
	r, c := matrix.Dims()
	colMeans := make([]float64, c)
	col := make([]float64, r)

	for j := 0; j < c; j++ {
		mat.Col(col, j, matrix)
		colMeans[j] = stat.Mean(col, nil)
	}
	return mat.NewVecDense(c, colMeans)
}

// VecOnes returns a vector of 1.0's
func VecOnes(length int) *mat.VecDense {
	oneSlice := make([]float64, length)
	for i := 0; i < length; i++ {
		oneSlice[i] = 1.0
	}
	return mat.NewVecDense(length, oneSlice)
}
