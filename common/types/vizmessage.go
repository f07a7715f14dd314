package types

import (
	"encoding/json"
	"errors"
	"strconv"
)

// WorldStateSnapshot is the flat world state vector captured once per
// visualization tick. Layout for N agents per team:
// [0, 3N)   blue poses (x, y, heading)
// [3N, 6N)  red poses (x, y, heading)
// [6N, 6N+2) ball position (x, y)
type WorldStateSnapshot []float64

type AgentPose struct {
	X       float64
	Y       float64
	Heading float64
}

func (s WorldStateSnapshot) Decompose(agentsPerTeam int) (blue []AgentPose, red []AgentPose, ball [2]float64, err error) {
	expected := 6*agentsPerTeam + 2
	if len(s) != expected {
		return nil, nil, ball, errors.New(
			"world state snapshot has length " + strconv.Itoa(len(s)) +
				", expected " + strconv.Itoa(expected) +
				" for " + strconv.Itoa(agentsPerTeam) + " agents per team")
	}

	blue = make([]AgentPose, agentsPerTeam)
	red = make([]AgentPose, agentsPerTeam)
	for i := 0; i < agentsPerTeam; i++ {
		blue[i] = AgentPose{X: s[3*i], Y: s[3*i+1], Heading: s[3*i+2]}
		off := 3 * (agentsPerTeam + i)
		red[i] = AgentPose{X: s[off], Y: s[off+1], Heading: s[off+2]}
	}
	ball[0] = s[6*agentsPerTeam]
	ball[1] = s[6*agentsPerTeam+1]

	return blue, red, ball, nil
}

// ValueGrid is one critic heatmap: the value of Term swept over the field
// grid for one visualized agent, min-max normalized to [0, 1].
type ValueGrid struct {
	Term       string    `json:"term"`
	Agent      int       `json:"agent"`
	Resolution int       `json:"resolution"`
	Cells      []float64 `json:"cells"` // row-major: x index * Resolution + y index
}

func (g ValueGrid) At(ix int, iy int) float64 {
	return g.Cells[ix*g.Resolution+iy]
}

// VizFrame is the unit of transfer from the play loop to the renderer.
type VizFrame struct {
	SessionID     string             `json:"sessionId"`
	Tick          uint64             `json:"tick"`
	AgentsPerTeam int                `json:"agentsPerTeam"`
	WorldState    WorldStateSnapshot `json:"worldState"`
	Grids         []ValueGrid        `json:"grids"`
}

// VizInit is sent once to every watcher when it attaches; it carries the
// static configuration the renderer needs to build its figure.
type VizInit struct {
	SessionID          string    `json:"sessionId"`
	Field              FieldSpec `json:"field"`
	AgentsPerTeam      int       `json:"agentsPerTeam"`
	PlayersToVisualize int       `json:"playersToVisualize"`
	Terms              []string  `json:"terms"`
	Resolution         int       `json:"resolution"`
}

const (
	WireTypeInit     = "init"
	WireTypeFrame    = "frame"
	WireTypeShutdown = "shutdown"
)

// WireMessage is the websocket envelope between the play loop and watchers.
// A shutdown envelope carries no data and tells watchers to tear down.
type WireMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func MakeWireMessage(msgtype string, payload interface{}) (WireMessage, error) {
	if payload == nil {
		return WireMessage{Type: msgtype}, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return WireMessage{}, err
	}

	return WireMessage{Type: msgtype, Data: data}, nil
}
