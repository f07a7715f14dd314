package playserver

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/superboySB/marladona-isaac-lab/game/soccer"
)

// critic stub reading one fixed observation column
func columnCritic(col int) InferenceFn {
	return func(batch *mat.Dense) *mat.Dense {
		rows, _ := batch.Dims()
		out := mat.NewDense(rows, 1, nil)
		for r := 0; r < rows; r++ {
			out.Set(r, 0, batch.At(r, col))
		}
		return out
	}
}

func TestSampleValueVectorsBatchShape(t *testing.T) {
	envCfg := soccer.DefaultConfig()
	envCfg.AgentsPerTeam = 3
	env := soccer.NewEnv(envCfg)

	cfg := DefaultConfig()
	cfg.Resolution = 80
	cfg.PlayersToVisualize = 3
	cfg.ValueTerms = []string{soccer.TermOwnPose, soccer.TermBallPos}

	vectors, err := SampleValueVectors(env, columnCritic(0), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(vectors) != 6 {
		t.Fatalf("expected 6 vectors (2 terms x 3 agents), got %d", len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 6400 {
			t.Fatalf("vector %d has length %d, want 6400", i, len(v))
		}
	}
}

func TestSampleValueVectorsSweepsTheTermSlice(t *testing.T) {
	envCfg := soccer.DefaultConfig()
	env := soccer.NewEnv(envCfg)

	cfg := DefaultConfig()
	cfg.Resolution = 4
	cfg.PlayersToVisualize = 1
	cfg.ValueTerms = []string{soccer.TermOwnPose, soccer.TermBallPos}

	pos, _ := env.CriticSlicePos(soccer.TermOwnPose)
	vectors, err := SampleValueVectors(env, columnCritic(pos), cfg)
	if err != nil {
		t.Fatal(err)
	}

	// first vector: the critic reads exactly the swept x column, so the
	// corners are the grid extents rescaled by the field half length
	extent := cfg.Field.LengthExtent() / cfg.Field.FieldLength()
	first := vectors[0]
	if math.Abs(first[0]+extent) > 1e-12 {
		t.Fatalf("first cell = %f, want %f", first[0], -extent)
	}
	if math.Abs(first[len(first)-1]-extent) > 1e-12 {
		t.Fatalf("last cell = %f, want %f", first[len(first)-1], extent)
	}

	// second vector: the ball term is swept instead, the critic sees the
	// agent's own untouched x in every cell
	second := vectors[1]
	for i := 1; i < len(second); i++ {
		if second[i] != second[0] {
			t.Fatal("sweeping one term must leave the other slices fixed")
		}
	}
}

func TestSampleValueVectorsUnknownTerm(t *testing.T) {
	env := soccer.NewEnv(soccer.DefaultConfig())

	cfg := DefaultConfig()
	cfg.ValueTerms = []string{"no_such_term"}

	if _, err := SampleValueVectors(env, columnCritic(0), cfg); err == nil {
		t.Fatal("unknown terms must be rejected")
	}
}

func TestSampleValueVectorsCapsPlayersAtTeamSize(t *testing.T) {
	envCfg := soccer.DefaultConfig()
	envCfg.AgentsPerTeam = 2
	env := soccer.NewEnv(envCfg)

	cfg := DefaultConfig()
	cfg.Resolution = 4
	cfg.PlayersToVisualize = 5
	cfg.ValueTerms = []string{soccer.TermBallPos}

	vectors, err := SampleValueVectors(env, columnCritic(0), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected the team size to cap the agent count, got %d vectors", len(vectors))
	}
}
