package playserver

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/ttacon/chalk"
	"gonum.org/v1/gonum/mat"

	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
	gamecommon "github.com/superboySB/marladona-isaac-lab/game/common"
)

// Server owns the play loop: policy inference, environment stepping, and
// periodic value-function sampling. Frames flow out through subscribed
// observer channels; a slow observer loses frames, it never slows the loop.
type Server struct {
	cfg    Config
	env    gamecommon.Environment
	policy InferenceFn
	critic InferenceFn

	sessionID   string
	stopticking chan struct{}
	stoponce    sync.Once

	currentTick uint64

	stateobservers  []chan *types.VizFrame
	observersmutex  sync.Mutex
	observersClosed bool

	memprobe MemoryProber

	DebugNbTicks  int
	DebugNbFrames int
}

func NewServer(cfg Config, env gamecommon.Environment, policy InferenceFn, critic InferenceFn) *Server {
	utils.Assert(cfg.Resolution > 0, "playserver: Resolution must be positive")
	utils.Assert(cfg.VisualizationInterval > 0, "playserver: VisualizationInterval must be positive")
	utils.Assert(cfg.TicksPerSecond > 0, "playserver: TicksPerSecond must be positive")
	utils.Assert(cfg.VisualizeEnv >= 0 && cfg.VisualizeEnv < env.NumEnvs(), "playserver: VisualizeEnv out of range")

	return &Server{
		cfg:         cfg,
		env:         env,
		policy:      policy,
		critic:      critic,
		sessionID:   uuid.NewV4().String(),
		stopticking: make(chan struct{}),
		memprobe:    VirtualMemoryPercent,
	}
}

func (server *Server) SessionID() string {
	return server.sessionID
}

func (server *Server) Config() Config {
	return server.cfg
}

// SetMemoryProber swaps the host memory probe; tests use this to simulate
// pressure without inflating real memory.
func (server *Server) SetMemoryProber(probe MemoryProber) {
	server.memprobe = probe
}

// SubscribeStateObservation returns a channel receiving published frames.
// The channel is closed when the loop exits, whatever the exit path; the
// closure is the in-process shutdown sentinel.
func (server *Server) SubscribeStateObservation() chan *types.VizFrame {
	ch := make(chan *types.VizFrame, 1)

	server.observersmutex.Lock()
	server.stateobservers = append(server.stateobservers, ch)
	server.observersmutex.Unlock()

	return ch
}

// Start launches the loop and returns a channel closed on loop exit.
func (server *Server) Start() chan interface{} {
	block := make(chan interface{})

	go server.monitoring()

	go func() {
		defer close(block)
		defer server.closeObservers()
		defer server.Stop() // stops monitoring on every exit path

		tickduration := time.Duration((1000000 / time.Duration(server.cfg.TicksPerSecond)) * time.Microsecond)
		ticker := time.NewTicker(tickduration)
		defer ticker.Stop()

		for {
			select {
			case <-server.stopticking:
				log.Println("Received stop ticking signal")
				return
			case <-ticker.C:
				if stop := server.DoTick(); stop {
					return
				}
			}
		}
	}()

	return block
}

func (server *Server) Stop() {
	server.stoponce.Do(func() {
		close(server.stopticking)
	})
}

// DoTick runs one simulation step and, on visualization ticks, one
// sampling pass. It reports whether the loop has to stop.
func (server *Server) DoTick() bool {
	tick := server.currentTick
	server.currentTick++
	server.DebugNbTicks++

	dolog := tick%uint64(server.cfg.TicksPerSecond) == 0
	if dolog {
		fmt.Print(chalk.Yellow)
		log.Println("######## Tick #####", tick, chalk.Reset)
	}

	obs := server.env.Observations()

	actorIn := hstack(obs.Policy, obs.Neighbor)
	actions := server.policy(actorIn)
	server.env.Step(actions)

	if server.cfg.RecordLength > 0 && int(server.currentTick) >= server.cfg.RecordLength {
		utils.Debug("playserver", "record length reached, stopping after "+strconv.FormatUint(server.currentTick, 10)+" ticks")
		return true
	}

	if tick%uint64(server.cfg.VisualizationInterval) != 0 {
		return false
	}

	samplestart := time.Now()
	frame, err := server.sampleFrame(tick)
	if err != nil {
		fmt.Print(chalk.Red)
		log.Println("ERROR: value sampling failed;", err, chalk.Reset)
		return true
	}
	server.publish(frame)

	if dolog {
		utils.DebugWith("playserver", "Value sweep sampled", utils.Context{
			"tick":        tick,
			"duration-ms": utils.DurationMs(time.Since(samplestart)),
		})
	}

	// large sampling batches just died; if host memory is still above the
	// limit a frame backlog is forming somewhere downstream
	if percent, err := server.memprobe(); err == nil && percent > server.cfg.MemoryPercentLimit {
		fmt.Print(chalk.Red)
		log.Println("Memory usage is high ("+utils.FloatToStr(percent)+"%), exiting", chalk.Reset)
		return true
	}

	return false
}

func (server *Server) sampleFrame(tick uint64) (*types.VizFrame, error) {
	raw, err := SampleValueVectors(server.env, server.critic, server.cfg)
	if err != nil {
		return nil, err
	}

	players := server.cfg.EffectivePlayers(server.env.AgentsPerTeam())
	grids := NormalizeGrids(raw, server.cfg, players)

	obs := server.env.Observations()

	return &types.VizFrame{
		SessionID:     server.sessionID,
		Tick:          tick,
		AgentsPerTeam: server.env.AgentsPerTeam(),
		WorldState:    obs.WorldState[server.cfg.VisualizeEnv],
		Grids:         grids,
	}, nil
}

// publish hands the frame to every observer without ever blocking: when an
// observer still holds an unconsumed frame, the stale one is dropped first.
func (server *Server) publish(frame *types.VizFrame) {
	server.observersmutex.Lock()
	defer server.observersmutex.Unlock()

	if server.observersClosed {
		return
	}

	server.DebugNbFrames++
	for _, observer := range server.stateobservers {
		select {
		case observer <- frame:
		default:
			select {
			case <-observer:
			default:
			}
			select {
			case observer <- frame:
			default:
			}
		}
	}
}

func (server *Server) closeObservers() {
	server.observersmutex.Lock()
	defer server.observersmutex.Unlock()

	if server.observersClosed {
		return
	}
	server.observersClosed = true
	for _, observer := range server.stateobservers {
		close(observer)
	}
}

func (server *Server) monitoring() {
	monitorfreq := time.Second
	debugNbTicks := 0
	debugNbFrames := 0
	for {
		select {
		case <-server.stopticking:
			return
		case <-time.After(monitorfreq):
			fmt.Print(chalk.Cyan)
			log.Println(
				"-- MONITORING --",
				server.DebugNbTicks-debugNbTicks, "ticks per", monitorfreq,
				";",
				server.DebugNbFrames-debugNbFrames, "frames per", monitorfreq,
				chalk.Reset,
			)

			debugNbTicks = server.DebugNbTicks
			debugNbFrames = server.DebugNbFrames
		}
	}
}

func hstack(a *mat.Dense, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Augment(a, b)
	return &out
}
