package plotter

import (
	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
	"github.com/superboySB/marladona-isaac-lab/common/visualization"
)

type RendererState int

const (
	StateInitialized RendererState = iota
	StateRendering
	StateTerminated
)

// Panel is one heatmap cell of the figure grid: the value surface of
// one critic term around one visualized blue agent, plus that agent's
// highlight marker.
type Panel struct {
	Term  string
	Agent int

	// Heat holds the latest normalized cells, row-major like
	// types.ValueGrid; Dirty marks it for a texture re-upload.
	Heat  []float64
	Dirty bool
}

// Renderer consumes frames from the inbox and maintains the drawable
// scene. It holds no GUI resources itself so the frame-to-scene logic
// stays testable without a display.
type Renderer struct {
	init  types.VizInit
	inbox *visualization.Inbox

	state  RendererState
	panels []Panel

	blue []types.AgentPose
	red  []types.AgentPose
	ball [2]float64

	frames uint64
}

func NewRenderer(init types.VizInit, inbox *visualization.Inbox) *Renderer {
	panels := make([]Panel, 0, len(init.Terms)*init.PlayersToVisualize)
	for _, term := range init.Terms {
		for agent := 0; agent < init.PlayersToVisualize; agent++ {
			panels = append(panels, Panel{
				Term:  term,
				Agent: agent,
				Heat:  make([]float64, init.Resolution*init.Resolution),
			})
		}
	}

	return &Renderer{
		init:   init,
		inbox:  inbox,
		state:  StateInitialized,
		panels: panels,
	}
}

func (renderer *Renderer) State() RendererState {
	return renderer.state
}

func (renderer *Renderer) Init() types.VizInit {
	return renderer.init
}

func (renderer *Renderer) Panels() []Panel {
	return renderer.panels
}

func (renderer *Renderer) Poses() (blue []types.AgentPose, red []types.AgentPose, ball [2]float64) {
	return renderer.blue, renderer.red, renderer.ball
}

func (renderer *Renderer) FramesRendered() uint64 {
	return renderer.frames
}

// Tick drains the inbox and applies the most recent frame, if any. It
// reports whether the renderer is still live; once the sentinel is
// reached the scene freezes and no later frame is ever applied.
func (renderer *Renderer) Tick() bool {
	if renderer.state == StateTerminated {
		return false
	}

	latest, shutdown := renderer.inbox.DrainLatest()
	if shutdown {
		renderer.state = StateTerminated
		return false
	}

	if latest != nil {
		renderer.apply(latest)
	}

	return true
}

func (renderer *Renderer) apply(frame *types.VizFrame) {
	blue, red, ball, err := frame.WorldState.Decompose(frame.AgentsPerTeam)
	if err != nil {
		utils.Debug("plotter", "Dropping frame;"+err.Error())
		return
	}

	renderer.blue = blue
	renderer.red = red
	renderer.ball = ball

	for i := range renderer.panels {
		if i >= len(frame.Grids) {
			break
		}

		grid := frame.Grids[i]
		if len(grid.Cells) != len(renderer.panels[i].Heat) {
			utils.Debug("plotter", "Dropping grid with mismatched resolution for term "+grid.Term)
			continue
		}

		copy(renderer.panels[i].Heat, grid.Cells)
		renderer.panels[i].Term = grid.Term
		renderer.panels[i].Agent = grid.Agent
		renderer.panels[i].Dirty = true
	}

	renderer.state = StateRendering
	renderer.frames++
}

// MarkClean clears the dirty flag once the panel texture was uploaded.
func (renderer *Renderer) MarkClean(panel int) {
	renderer.panels[panel].Dirty = false
}
