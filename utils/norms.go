package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Discrete norms over cell-sized slices, used by the convergence diagnostics

func L1Norm(v []float64) float64 {
	return floats.Norm(v, 1) / float64(len(v))
}

func L2Norm(v []float64) float64 {
	return floats.Norm(v, 2) / math.Sqrt(float64(len(v)))
}

func LInfNorm(v []float64) float64 {
	return floats.Norm(v, math.Inf(1))
}

func Sum(v []float64) float64 {
	return floats.Sum(v)
}
