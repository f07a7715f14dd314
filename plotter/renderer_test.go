package plotter

import (
	"testing"

	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/visualization"
)

func testInit() types.VizInit {
	return types.VizInit{
		SessionID:          "test",
		Field:              types.DefaultFieldSpec(),
		AgentsPerTeam:      3,
		PlayersToVisualize: 3,
		Terms:              []string{"base_own_pose_w", "ball_pos_w"},
		Resolution:         4,
	}
}

func testFrame(tick uint64) *types.VizFrame {
	grids := make([]types.ValueGrid, 6)
	for i := range grids {
		cells := make([]float64, 16)
		for j := range cells {
			cells[j] = float64(tick)
		}
		grids[i] = types.ValueGrid{
			Term:       "ball_pos_w",
			Agent:      i % 3,
			Resolution: 4,
			Cells:      cells,
		}
	}

	world := make(types.WorldStateSnapshot, 20)
	world[0] = 0.25 // blue agent 0 x

	return &types.VizFrame{
		SessionID:     "test",
		Tick:          tick,
		AgentsPerTeam: 3,
		WorldState:    world,
		Grids:         grids,
	}
}

func TestRendererAppliesLatestFrame(t *testing.T) {
	inbox := visualization.NewInbox()
	renderer := NewRenderer(testInit(), inbox)

	if renderer.State() != StateInitialized {
		t.Fatalf("fresh renderer in state %d", renderer.State())
	}
	if len(renderer.Panels()) != 6 {
		t.Fatalf("%d panels, want 6", len(renderer.Panels()))
	}

	inbox.Put(testFrame(1))
	inbox.Put(testFrame(2))
	inbox.Put(testFrame(3))

	if !renderer.Tick() {
		t.Fatal("renderer stopped unexpectedly")
	}
	if renderer.State() != StateRendering {
		t.Fatalf("renderer in state %d after a frame", renderer.State())
	}
	if renderer.FramesRendered() != 1 {
		t.Fatalf("%d frames applied, want 1 (latest only)", renderer.FramesRendered())
	}
	if renderer.Panels()[0].Heat[0] != 3 {
		t.Fatalf("panel holds values from tick %f, want latest tick 3", renderer.Panels()[0].Heat[0])
	}
	if !renderer.Panels()[0].Dirty {
		t.Fatal("panel not marked dirty after a new frame")
	}

	blue, _, _ := renderer.Poses()
	if blue[0].X != 0.25 {
		t.Fatalf("blue agent 0 at x=%f", blue[0].X)
	}
}

func TestRendererTickOnEmptyInboxKeepsScene(t *testing.T) {
	inbox := visualization.NewInbox()
	renderer := NewRenderer(testInit(), inbox)

	inbox.Put(testFrame(1))
	renderer.Tick()
	renderer.MarkClean(0)

	if !renderer.Tick() {
		t.Fatal("renderer stopped on an empty inbox")
	}
	if renderer.Panels()[0].Dirty {
		t.Fatal("panel re-dirtied without a new frame")
	}
	if renderer.FramesRendered() != 1 {
		t.Fatalf("%d frames applied, want 1", renderer.FramesRendered())
	}
}

func TestSentinelTerminatesWithoutApplyingLaterState(t *testing.T) {
	inbox := visualization.NewInbox()
	renderer := NewRenderer(testInit(), inbox)

	inbox.Put(testFrame(1))
	inbox.Put(visualization.Sentinel)

	if renderer.Tick() {
		t.Fatal("renderer kept running past the sentinel")
	}
	if renderer.State() != StateTerminated {
		t.Fatalf("renderer in state %d, want terminated", renderer.State())
	}
	if renderer.FramesRendered() != 0 {
		t.Fatal("a frame was applied on the shutdown tick")
	}

	// terminated renderers stay terminated
	inbox.Put(testFrame(2))
	if renderer.Tick() {
		t.Fatal("terminated renderer came back to life")
	}
	if renderer.FramesRendered() != 0 {
		t.Fatal("terminated renderer applied a frame")
	}
}

func TestRendererDropsMalformedFrames(t *testing.T) {
	inbox := visualization.NewInbox()
	renderer := NewRenderer(testInit(), inbox)

	frame := testFrame(1)
	frame.WorldState = frame.WorldState[:7]
	inbox.Put(frame)

	if !renderer.Tick() {
		t.Fatal("renderer stopped on a malformed frame")
	}
	if renderer.FramesRendered() != 0 {
		t.Fatal("malformed frame counted as applied")
	}
	if renderer.State() != StateInitialized {
		t.Fatalf("renderer in state %d, want still initialized", renderer.State())
	}
}
