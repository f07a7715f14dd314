package soccer

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
	"github.com/superboySB/marladona-isaac-lab/common/utils/vector"
)

// Named critic observation terms, in their slice order within the
// per-agent critic observation block. Position terms are expressed in
// field-normalized coordinates (x over half length, y over half width).
const (
	TermOwnPose = "base_own_pose_w"
	TermOwnVel  = "base_own_vel_w"
	TermBallPos = "ball_pos_w"
	TermBallVel = "ball_vel_w"
)

type Term struct {
	Name string
	Dim  int
}

var criticTerms = []Term{
	{TermOwnPose, 3},
	{TermOwnVel, 2},
	{TermBallPos, 2},
	{TermBallVel, 2},
}

type Config struct {
	NumEnvs       int
	AgentsPerTeam int
	Field         types.FieldSpec

	StepDt       float64
	MaxSpeed     float64
	TurnRate     float64
	KickRange    float64
	KickStrength float64
	BallDamping  float64

	Seed int64
}

func DefaultConfig() Config {
	return Config{
		NumEnvs:       1,
		AgentsPerTeam: 3,
		Field:         types.DefaultFieldSpec(),
		StepDt:        0.05,
		MaxSpeed:      1.2,
		TurnRate:      3.0,
		KickRange:     0.12,
		KickStrength:  2.0,
		BallDamping:   0.97,
		Seed:          0,
	}
}

type agentState struct {
	pos     vector.Vector2
	vel     vector.Vector2
	heading float64
}

type instance struct {
	blue    []agentState
	red     []agentState
	ball    vector.Vector2
	ballVel vector.Vector2
}

// Env is a vectorized kinematic soccer game: NumEnvs independent instances
// stepped together. The policy controls the blue team; the red team runs a
// scripted ball chaser.
type Env struct {
	cfg       Config
	instances []instance
	rng       *rand.Rand
}

func NewEnv(cfg Config) *Env {
	utils.Assert(cfg.NumEnvs > 0, "soccer: NumEnvs must be positive")
	utils.Assert(cfg.AgentsPerTeam > 0, "soccer: AgentsPerTeam must be positive")

	env := &Env{
		cfg:       cfg,
		instances: make([]instance, cfg.NumEnvs),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
	env.Reset()

	return env
}

func (e *Env) NumEnvs() int {
	return e.cfg.NumEnvs
}

func (e *Env) AgentsPerTeam() int {
	return e.cfg.AgentsPerTeam
}

func (e *Env) ActionDim() int {
	return 3 // vx, vy, turn
}

func (e *Env) Reset() {
	for i := range e.instances {
		e.resetInstance(&e.instances[i])
	}
}

// Kick-off formation: blue spread on its own half, red mirrored, ball at
// the center, everything jittered a little.
func (e *Env) resetInstance(inst *instance) {
	n := e.cfg.AgentsPerTeam
	halfLength := e.cfg.Field.FieldLength()
	halfWidth := e.cfg.Field.FieldWidth()

	inst.blue = make([]agentState, n)
	inst.red = make([]agentState, n)

	for i := 0; i < n; i++ {
		lane := (float64(i)+0.5)/float64(n)*2.0 - 1.0
		jitterX := (e.rng.Float64() - 0.5) * 0.1
		jitterY := (e.rng.Float64() - 0.5) * 0.1

		inst.blue[i] = agentState{
			pos:     vector.MakeVector2(-halfLength*0.5+jitterX, lane*halfWidth*0.7+jitterY),
			heading: 0,
		}
		inst.red[i] = agentState{
			pos:     vector.MakeVector2(halfLength*0.5-jitterX, lane*halfWidth*0.7-jitterY),
			heading: math.Pi,
		}
	}

	inst.ball = vector.MakeVector2(
		(e.rng.Float64()-0.5)*0.05,
		(e.rng.Float64()-0.5)*0.05,
	)
	inst.ballVel = vector.MakeNullVector2()
}

// Step advances every instance by one control interval. actions has one row
// per blue agent (env-major) and ActionDim columns; components are clamped
// to [-1, 1] before being applied.
func (e *Env) Step(actions *mat.Dense) {
	rows, cols := actions.Dims()
	utils.Assert(rows == e.cfg.NumEnvs*e.cfg.AgentsPerTeam, "soccer: wrong action batch size")
	utils.Assert(cols == e.ActionDim(), "soccer: wrong action dimension")

	for env := range e.instances {
		inst := &e.instances[env]

		for i := range inst.blue {
			row := env*e.cfg.AgentsPerTeam + i
			e.stepAgent(&inst.blue[i],
				clamp1(actions.At(row, 0)),
				clamp1(actions.At(row, 1)),
				clamp1(actions.At(row, 2)))
		}

		for i := range inst.red {
			vx, vy, turn := e.chaseBallControl(&inst.red[i], inst.ball)
			e.stepAgent(&inst.red[i], vx, vy, turn)
		}

		e.stepBall(inst)
	}
}

func (e *Env) stepAgent(agent *agentState, vx float64, vy float64, turn float64) {
	dt := e.cfg.StepDt

	agent.vel = vector.MakeVector2(vx, vy).Scale(e.cfg.MaxSpeed).Clamp(e.cfg.MaxSpeed)
	agent.pos = agent.pos.Add(agent.vel.Scale(dt))
	agent.heading = wrapAngle(agent.heading + turn*e.cfg.TurnRate*dt)

	extentX := e.cfg.Field.FieldLength() + e.cfg.Field.BorderOffset*e.cfg.Field.Scaling
	extentY := e.cfg.Field.FieldWidth() + e.cfg.Field.BorderOffset*e.cfg.Field.Scaling
	agent.pos = vector.MakeVector2(
		clampTo(agent.pos.GetX(), extentX),
		clampTo(agent.pos.GetY(), extentY),
	)
}

// Scripted opponent: run at the ball, face it.
func (e *Env) chaseBallControl(agent *agentState, ball vector.Vector2) (float64, float64, float64) {
	toBall := ball.Sub(agent.pos)
	if toBall.Mag() < 1e-6 {
		return 0, 0, 0
	}

	dir := toBall.Scale(1.0 / toBall.Mag())
	wanted := math.Atan2(dir.GetY(), dir.GetX())
	turn := clamp1(wrapAngle(wanted-agent.heading) / math.Pi)

	return dir.GetX() * 0.8, dir.GetY() * 0.8, turn
}

func (e *Env) stepBall(inst *instance) {
	dt := e.cfg.StepDt

	// nearest agent within reach kicks the ball along its heading
	for _, team := range [][]agentState{inst.blue, inst.red} {
		for i := range team {
			if team[i].pos.Sub(inst.ball).Mag() <= e.cfg.KickRange {
				impulse := vector.MakeVector2FromHeading(team[i].heading).Scale(e.cfg.KickStrength)
				inst.ballVel = inst.ballVel.Add(impulse).Clamp(e.cfg.KickStrength)
			}
		}
	}

	inst.ball = inst.ball.Add(inst.ballVel.Scale(dt))
	inst.ballVel = inst.ballVel.Scale(e.cfg.BallDamping)

	halfLength := e.cfg.Field.FieldLength()
	halfWidth := e.cfg.Field.FieldWidth()
	goalHalfWidth := e.cfg.Field.GoalHalfWidth()

	x, y := inst.ball.Get()

	// side walls
	if y > halfWidth || y < -halfWidth {
		y = clampTo(y, halfWidth)
		inst.ballVel = vector.MakeVector2(inst.ballVel.GetX(), -inst.ballVel.GetY())
	}

	// goal lines: score inside the goal mouth, bounce outside of it
	if x > halfLength || x < -halfLength {
		if math.Abs(y) <= goalHalfWidth {
			e.resetInstance(inst)
			return
		}
		x = clampTo(x, halfLength)
		inst.ballVel = vector.MakeVector2(-inst.ballVel.GetX(), inst.ballVel.GetY())
	}

	inst.ball = vector.MakeVector2(x, y)
}

func clamp1(v float64) float64 {
	return clampTo(v, 1.0)
}

func clampTo(v float64, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
