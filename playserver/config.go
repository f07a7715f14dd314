package playserver

import (
	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// Config gathers every knob the play loop and the sampler share. It is
// passed around explicitly; nothing in this package reads package-level
// state.
type Config struct {
	// Resolution is the side length of the square critic sweep grid.
	Resolution int

	// VisualizationInterval publishes one frame every that many ticks.
	VisualizationInterval int

	// PlayersToVisualize caps how many blue agents get their own subplot;
	// the effective count never exceeds the team size.
	PlayersToVisualize int

	// ValueTerms names the critic observation terms whose position slice
	// gets swept over the field, one heatmap row per term.
	ValueTerms []string

	// VisualizeEnv selects which env instance is snapshotted.
	VisualizeEnv int

	Field types.FieldSpec

	TicksPerSecond int

	// MemoryPercentLimit stops the loop when host memory usage crosses it.
	MemoryPercentLimit float64

	// RecordLength stops the loop after that many ticks when positive.
	RecordLength int
}

func DefaultConfig() Config {
	return Config{
		Resolution:            80,
		VisualizationInterval: 2,
		PlayersToVisualize:    3,
		ValueTerms:            []string{"base_own_pose_w", "ball_pos_w"},
		VisualizeEnv:          0,
		Field:                 types.DefaultFieldSpec(),
		TicksPerSecond:        20,
		MemoryPercentLimit:    90,
	}
}

// EffectivePlayers is the number of agents actually visualized.
func (cfg Config) EffectivePlayers(agentsPerTeam int) int {
	if cfg.PlayersToVisualize < agentsPerTeam {
		return cfg.PlayersToVisualize
	}
	return agentsPerTeam
}
