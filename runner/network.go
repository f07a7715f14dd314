package runner

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Network is a plain feed-forward net evaluated in inference mode only;
// there is no gradient state to protect, so a loaded Network is safe for
// concurrent readers.
type Network struct {
	layers []layer
}

type layer struct {
	weights    *mat.Dense // out x in
	bias       []float64
	activation func(float64) float64
}

func activationByName(name string) (func(float64) float64, error) {
	switch name {
	case "linear", "":
		return func(v float64) float64 { return v }, nil
	case "relu":
		return func(v float64) float64 { return math.Max(0, v) }, nil
	case "tanh":
		return math.Tanh, nil
	case "elu":
		return func(v float64) float64 {
			if v >= 0 {
				return v
			}
			return math.Exp(v) - 1
		}, nil
	}
	return nil, errors.New("unknown activation " + name)
}

// InputDim is the expected width of input batches.
func (n *Network) InputDim() int {
	_, in := n.layers[0].weights.Dims()
	return in
}

// OutputDim is the width of the produced batch.
func (n *Network) OutputDim() int {
	out, _ := n.layers[len(n.layers)-1].weights.Dims()
	return out
}

// Forward evaluates the network on a batch, one sample per row. The input
// is never mutated.
func (n *Network) Forward(batch *mat.Dense) *mat.Dense {
	current := batch
	for _, l := range n.layers {
		var next mat.Dense
		next.Mul(current, l.weights.T())

		rows, cols := next.Dims()
		for r := 0; r < rows; r++ {
			row := next.RawRowView(r)
			for c := 0; c < cols; c++ {
				row[c] = l.activation(row[c] + l.bias[c])
			}
		}

		current = &next
	}

	return mat.DenseCopyOf(current)
}
