package playserver

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	gamecommon "github.com/superboySB/marladona-isaac-lab/game/common"
)

// InferenceFn maps a batch of observation rows to a batch of output rows.
type InferenceFn func(batch *mat.Dense) *mat.Dense

// SampleValueVectors sweeps the position slice of every configured term
// over the field grid and evaluates the critic on the result, for each
// visualized agent of the visualized env instance.
//
// The returned vectors are raw critic outputs, ordered term-major (all
// agents of the first term, then all agents of the second, ...), each of
// length Resolution². Observation rows are copied before being swept; the
// environment's tensors are never mutated.
func SampleValueVectors(env gamecommon.Environment, critic InferenceFn, cfg Config) ([][]float64, error) {
	players := cfg.EffectivePlayers(env.AgentsPerTeam())
	resolution := cfg.Resolution
	cells := resolution * resolution

	// grid coordinates as fed to the critic: either already in the unit
	// square, or world units rescaled by the field half extents, matching
	// how the environment normalizes its position observations
	xs, ys := cfg.Field.GridAxes(resolution)
	gridX := make([]float64, cells)
	gridY := make([]float64, cells)
	for ix := 0; ix < resolution; ix++ {
		for iy := 0; iy < resolution; iy++ {
			x := xs[ix]
			y := ys[iy]
			if !cfg.Field.Normalized {
				x /= cfg.Field.FieldLength()
				y /= cfg.Field.FieldWidth()
			}
			gridX[ix*resolution+iy] = x
			gridY[ix*resolution+iy] = y
		}
	}

	obs := env.Observations()
	dim := env.CriticObsDim()

	vectors := make([][]float64, 0, len(cfg.ValueTerms)*players)
	for _, term := range cfg.ValueTerms {
		pos, ok := env.CriticSlicePos(term)
		if !ok {
			return nil, errors.New("unknown critic observation term " + term)
		}

		for agent := 0; agent < players; agent++ {
			row := cfg.VisualizeEnv*env.AgentsPerTeam() + agent

			base := make([]float64, 0, dim)
			base = append(base, obs.Critic.RawRowView(row)...)
			base = append(base, obs.NeighborCritic.RawRowView(row)...)

			batch := mat.NewDense(cells, dim, nil)
			for cell := 0; cell < cells; cell++ {
				sample := batch.RawRowView(cell)
				copy(sample, base)
				sample[pos] = gridX[cell]
				sample[pos+1] = gridY[cell]
			}

			values := critic(batch)
			vector := make([]float64, cells)
			for cell := 0; cell < cells; cell++ {
				vector[cell] = values.At(cell, 0)
			}
			vectors = append(vectors, vector)
		}
	}

	return vectors, nil
}
