package common

import (
	"gonum.org/v1/gonum/mat"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// Observations groups the observation channels produced by an environment
// after every step. Row i of each matrix belongs to controlled (blue) agent
// i, ordered env-major: row = env*agentsPerTeam + agent.
//
// Policy/Neighbor feed the actor, Critic/NeighborCritic the evaluator;
// WorldState is the privileged per-env channel used for visualization only.
type Observations struct {
	Policy         *mat.Dense
	Neighbor       *mat.Dense
	Critic         *mat.Dense
	NeighborCritic *mat.Dense
	WorldState     []types.WorldStateSnapshot
}

type Environment interface {
	Reset()
	Step(actions *mat.Dense)
	Observations() *Observations

	// CriticSlicePos maps a named observation term to its starting column
	// within the per-agent critic observation block.
	CriticSlicePos(term string) (pos int, ok bool)
	CriticObsDim() int
	PolicyObsDim() int
	ActionDim() int

	NumEnvs() int
	AgentsPerTeam() int
}
