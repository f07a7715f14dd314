package playserver

import (
	"math/rand"
	"testing"
)

func TestNormalizeVectorBoundsAndExtrema(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	v := make([]float64, 6400)
	for i := range v {
		v[i] = rng.NormFloat64() * 42
	}

	argmin, argmax := 0, 0
	for i := range v {
		if v[i] < v[argmin] {
			argmin = i
		}
		if v[i] > v[argmax] {
			argmax = i
		}
	}

	out := normalizeVector(v)

	for i, value := range out {
		if value < 0 || value > 1 {
			t.Fatalf("cell %d = %f escapes [0, 1]", i, value)
		}
	}
	if out[argmax] != 1 {
		t.Fatalf("max cell normalized to %f, want 1", out[argmax])
	}
	if out[argmin] != 0 {
		t.Fatalf("min cell normalized to %f, want 0", out[argmin])
	}
}

func TestNormalizeVectorDegenerateRange(t *testing.T) {
	v := []float64{3.25, 3.25, 3.25, 3.25}

	out := normalizeVector(v)

	for i, value := range out {
		if value != 0.5 {
			t.Fatalf("constant grid cell %d = %f, want the neutral 0.5", i, value)
		}
	}
}

func TestNormalizeGridsLabels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 2
	cfg.ValueTerms = []string{"base_own_pose_w", "ball_pos_w"}

	raw := [][]float64{
		{0, 1, 2, 3}, // term 0, agent 0
		{0, 1, 2, 3}, // term 0, agent 1
		{5, 5, 5, 5}, // term 1, agent 0
		{9, 8, 7, 6}, // term 1, agent 1
	}

	grids := NormalizeGrids(raw, cfg, 2)

	if len(grids) != 4 {
		t.Fatalf("expected 4 grids, got %d", len(grids))
	}
	if grids[0].Term != "base_own_pose_w" || grids[0].Agent != 0 {
		t.Fatalf("grid 0 labeled (%s, %d)", grids[0].Term, grids[0].Agent)
	}
	if grids[3].Term != "ball_pos_w" || grids[3].Agent != 1 {
		t.Fatalf("grid 3 labeled (%s, %d)", grids[3].Term, grids[3].Agent)
	}
	if grids[2].Cells[0] != 0.5 {
		t.Fatal("degenerate grid did not take the neutral value")
	}
	if grids[3].At(0, 0) != 1 || grids[3].At(1, 1) != 0 {
		t.Fatal("descending grid normalized wrong")
	}
}
