package playserver

import (
	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// NormalizeGrids turns the sampler's raw value vectors into renderer-ready
// grids: each vector is min-max rescaled to [0, 1] independently. This runs
// on the producer side so the channel payload is small and cheap to draw.
//
// A degenerate vector (max == min) becomes a constant 0.5 grid: a flat
// value function reads as a neutral heatmap instead of dividing by zero.
func NormalizeGrids(raw [][]float64, cfg Config, players int) []types.ValueGrid {
	grids := make([]types.ValueGrid, len(raw))

	for i, vector := range raw {
		grids[i] = types.ValueGrid{
			Term:       cfg.ValueTerms[i/players],
			Agent:      i % players,
			Resolution: cfg.Resolution,
			Cells:      normalizeVector(vector),
		}
	}

	return grids
}

func normalizeVector(v []float64) []float64 {
	min, max := v[0], v[0]
	for _, value := range v {
		if value < min {
			min = value
		}
		if value > max {
			max = value
		}
	}

	out := make([]float64, len(v))
	if max == min {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	scale := 1.0 / (max - min)
	for i, value := range v {
		out[i] = (value - min) * scale
	}
	return out
}
