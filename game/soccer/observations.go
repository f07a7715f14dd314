package soccer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/superboySB/marladona-isaac-lab/common/types"
	gamecommon "github.com/superboySB/marladona-isaac-lab/game/common"
)

// CriticSlicePos returns the starting column of a named term within the
// per-agent critic observation block.
func (e *Env) CriticSlicePos(term string) (int, bool) {
	pos := 0
	for _, t := range criticTerms {
		if t.Name == term {
			return pos, true
		}
		pos += t.Dim
	}
	return 0, false
}

func (e *Env) criticTermsDim() int {
	dim := 0
	for _, t := range criticTerms {
		dim += t.Dim
	}
	return dim
}

func (e *Env) neighborCriticDim() int {
	n := e.cfg.AgentsPerTeam
	return 3*(n-1) + 3*n // teammate poses + opponent poses
}

// CriticObsDim is the width of the full evaluator input: the named critic
// block followed by the neighbor critic block.
func (e *Env) CriticObsDim() int {
	return e.criticTermsDim() + e.neighborCriticDim()
}

const policyOwnDim = 9 // own pose, own vel, ball offset, opponent goal offset

func (e *Env) neighborDim() int {
	n := e.cfg.AgentsPerTeam
	return 2*(n-1) + 2*n // teammate offsets + opponent offsets
}

// PolicyObsDim is the width of the full actor input: the own block followed
// by the neighbor block.
func (e *Env) PolicyObsDim() int {
	return policyOwnDim + e.neighborDim()
}

// Observations assembles all observation channels from the current state.
// One row per blue agent, env-major. Positions in the critic and policy
// blocks are field-normalized; the world state channel stays in world units.
func (e *Env) Observations() *gamecommon.Observations {
	n := e.cfg.AgentsPerTeam
	rows := e.cfg.NumEnvs * n

	policy := mat.NewDense(rows, policyOwnDim, nil)
	neighbor := mat.NewDense(rows, e.neighborDim(), nil)
	critic := mat.NewDense(rows, e.criticTermsDim(), nil)
	neighborCritic := mat.NewDense(rows, e.neighborCriticDim(), nil)
	worldStates := make([]types.WorldStateSnapshot, e.cfg.NumEnvs)

	for env := range e.instances {
		inst := &e.instances[env]
		worldStates[env] = e.worldState(inst)

		for i := 0; i < n; i++ {
			row := env*n + i
			e.fillCriticRow(critic.RawRowView(row), inst, i)
			e.fillNeighborCriticRow(neighborCritic.RawRowView(row), inst, i)
			e.fillPolicyRow(policy.RawRowView(row), inst, i)
			e.fillNeighborRow(neighbor.RawRowView(row), inst, i)
		}
	}

	return &gamecommon.Observations{
		Policy:         policy,
		Neighbor:       neighbor,
		Critic:         critic,
		NeighborCritic: neighborCritic,
		WorldState:     worldStates,
	}
}

func (e *Env) normX(x float64) float64 {
	return x / e.cfg.Field.FieldLength()
}

func (e *Env) normY(y float64) float64 {
	return y / e.cfg.Field.FieldWidth()
}

func (e *Env) fillCriticRow(row []float64, inst *instance, agent int) {
	own := &inst.blue[agent]

	// base_own_pose_w
	row[0] = e.normX(own.pos.GetX())
	row[1] = e.normY(own.pos.GetY())
	row[2] = own.heading
	// base_own_vel_w
	row[3] = own.vel.GetX()
	row[4] = own.vel.GetY()
	// ball_pos_w
	row[5] = e.normX(inst.ball.GetX())
	row[6] = e.normY(inst.ball.GetY())
	// ball_vel_w
	row[7] = inst.ballVel.GetX()
	row[8] = inst.ballVel.GetY()
}

func (e *Env) fillNeighborCriticRow(row []float64, inst *instance, agent int) {
	pos := 0
	for i := range inst.blue {
		if i == agent {
			continue
		}
		row[pos] = e.normX(inst.blue[i].pos.GetX())
		row[pos+1] = e.normY(inst.blue[i].pos.GetY())
		row[pos+2] = inst.blue[i].heading
		pos += 3
	}
	for i := range inst.red {
		row[pos] = e.normX(inst.red[i].pos.GetX())
		row[pos+1] = e.normY(inst.red[i].pos.GetY())
		row[pos+2] = inst.red[i].heading
		pos += 3
	}
}

func (e *Env) fillPolicyRow(row []float64, inst *instance, agent int) {
	own := &inst.blue[agent]
	oppGoal := e.cfg.Field.FieldLength()

	row[0] = e.normX(own.pos.GetX())
	row[1] = e.normY(own.pos.GetY())
	row[2] = own.heading
	row[3] = own.vel.GetX()
	row[4] = own.vel.GetY()
	row[5] = e.normX(inst.ball.GetX() - own.pos.GetX())
	row[6] = e.normY(inst.ball.GetY() - own.pos.GetY())
	row[7] = e.normX(oppGoal - own.pos.GetX())
	row[8] = e.normY(0 - own.pos.GetY())
}

func (e *Env) fillNeighborRow(row []float64, inst *instance, agent int) {
	own := &inst.blue[agent]

	pos := 0
	for i := range inst.blue {
		if i == agent {
			continue
		}
		row[pos] = e.normX(inst.blue[i].pos.GetX() - own.pos.GetX())
		row[pos+1] = e.normY(inst.blue[i].pos.GetY() - own.pos.GetY())
		pos += 2
	}
	for i := range inst.red {
		row[pos] = e.normX(inst.red[i].pos.GetX() - own.pos.GetX())
		row[pos+1] = e.normY(inst.red[i].pos.GetY() - own.pos.GetY())
		pos += 2
	}
}

// worldState flattens one instance into the privileged snapshot layout:
// blue poses, red poses, ball position, all in world units.
func (e *Env) worldState(inst *instance) types.WorldStateSnapshot {
	n := e.cfg.AgentsPerTeam
	state := make(types.WorldStateSnapshot, 6*n+2)

	for i := 0; i < n; i++ {
		state[3*i] = inst.blue[i].pos.GetX()
		state[3*i+1] = inst.blue[i].pos.GetY()
		state[3*i+2] = inst.blue[i].heading

		off := 3 * (n + i)
		state[off] = inst.red[i].pos.GetX()
		state[off+1] = inst.red[i].pos.GetY()
		state[off+2] = inst.red[i].heading
	}

	state[6*n] = inst.ball.GetX()
	state[6*n+1] = inst.ball.GetY()

	return state
}
