package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"

	notify "github.com/bitly/go-notify"
	"github.com/kardianos/osext"
	bettererrors "github.com/xtuc/better-errors"

	"github.com/superboySB/marladona-isaac-lab/common"
	"github.com/superboySB/marladona-isaac-lab/common/recording"
	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
	"github.com/superboySB/marladona-isaac-lab/game/soccer"
	"github.com/superboySB/marladona-isaac-lab/playserver"
	"github.com/superboySB/marladona-isaac-lab/runner"
	"github.com/superboySB/marladona-isaac-lab/vizstream"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	logRoot := flag.String("log-root", "logs", "Root directory holding the training runs")
	experiment := flag.String("experiment", "soccer_marl", "Experiment name under the log root")
	loadRun := flag.String("load-run", "", "Run directory to load; empty picks the latest")
	loadCheckpoint := flag.String("load-checkpoint", "", "Checkpoint file to load; empty picks the highest iteration")

	numEnvs := flag.Int("num-envs", 16, "Number of parallel environment instances")
	agentsPerTeam := flag.Int("agents-per-team", 3, "Agents per team")
	tps := flag.Int("tps", 20, "Simulation ticks per second")

	noViz := flag.Bool("no-viz", false, "Disable the value function visualization")
	vizAddr := flag.String("viz-addr", "127.0.0.1:9999", "Address serving the visualization stream")
	vizInterval := flag.Int("viz-interval", 2, "Sample the value functions every n ticks")
	players := flag.Int("players", 3, "Number of blue agents to visualize")
	terms := flag.String("terms", "base_own_pose_w,ball_pos_w", "Comma-separated critic terms to sweep")
	resolution := flag.Int("resolution", 80, "Grid resolution of the value sweep")
	visualizeEnv := flag.Int("visualize-env", 0, "Environment instance shown in the plot")
	normalized := flag.Bool("normalized", false, "Sweep the [-1,1] unit square instead of world units")

	record := flag.Bool("record", false, "Record the streamed frames to a replay archive")
	recordDir := flag.String("record-dir", ".", "Directory receiving replay archives")
	recordLength := flag.Int("record-length", 0, "Stop after this many ticks; 0 runs forever")

	flag.Parse()

	log.Println("MARL play v" + utils.GetVersion())

	checkpoint, err := runner.ResolveCheckpointPath(*logRoot+"/"+*experiment, *loadRun, *loadCheckpoint)
	if err != nil {
		utils.FailWith(err)
	}
	utils.Debug("play", "Loading checkpoint "+checkpoint)

	run, err := runner.Load(checkpoint)
	if err != nil {
		utils.FailWith(err)
	}
	log.Println("Loaded checkpoint at iteration", run.Iteration())

	envcfg := soccer.DefaultConfig()
	envcfg.NumEnvs = *numEnvs
	envcfg.AgentsPerTeam = *agentsPerTeam
	env := soccer.NewEnv(envcfg)

	cfg := playserver.DefaultConfig()
	cfg.Resolution = *resolution
	cfg.VisualizationInterval = *vizInterval
	cfg.PlayersToVisualize = *players
	cfg.ValueTerms = strings.Split(*terms, ",")
	cfg.VisualizeEnv = *visualizeEnv
	cfg.TicksPerSecond = *tps
	cfg.RecordLength = *recordLength
	cfg.Field.Normalized = *normalized

	server := playserver.NewServer(cfg, env,
		playserver.InferenceFn(run.InferencePolicy()),
		playserver.InferenceFn(run.InferenceCritic()),
	)

	var recorder recording.Recorder = recording.MakeEmptyRecorder()
	if *record {
		recorder = recording.MakeSingleSessionRecorder(*recordDir + "/replay-" + server.SessionID())
		recorder.RecordMetadata(server.SessionID(), recording.SessionMetadata{
			Field:         cfg.Field,
			AgentsPerTeam: *agentsPerTeam,
			Terms:         cfg.ValueTerms,
			Resolution:    cfg.Resolution,
			Date:          time.Now().Format(time.RFC3339),
		})
	}
	go recordFrames(server, recorder)

	if !*noViz {
		viz := vizstream.NewVizService(*vizAddr, func() types.VizInit {
			return types.VizInit{
				SessionID:          server.SessionID(),
				Field:              cfg.Field,
				AgentsPerTeam:      *agentsPerTeam,
				PlayersToVisualize: cfg.EffectivePlayers(*agentsPerTeam),
				Terms:              cfg.ValueTerms,
				Resolution:         cfg.Resolution,
			}
		})

		servererror, err := viz.Start()
		if err != nil {
			log.Panicln(err)
		}
		go func() {
			if err, ok := <-servererror; ok {
				utils.Debug("play", "Viz service failed;"+err.Error())
				server.Stop()
			}
		}()
		defer viz.Stop()

		go viz.StreamFrames(server.SubscribeStateObservation())

		spawnValueViz(viz.Addr())
	}

	// handling signals
	go func() {
		<-common.SignalHandler()
		utils.Debug("sighandler", "RECEIVED SHUTDOWN SIGNAL; closing.")
		server.Stop()
	}()

	streamStopped := make(chan interface{})
	notify.Start("play:stopped", streamStopped)

	go func() {
		<-server.Start()
		notify.PostTimeout("play:stopped", nil, time.Millisecond)
	}()

	<-streamStopped

	recorder.Close(server.SessionID())
	recorder.Stop()
}

// recordFrames archives every published frame until the loop exits.
func recordFrames(server *playserver.Server, recorder recording.Recorder) {
	for frame := range server.SubscribeStateObservation() {
		data, err := json.Marshal(frame)
		if err != nil {
			utils.Debug("play", "Could not record frame;"+err.Error())
			continue
		}
		recorder.Record(frame.SessionID, string(data))
	}
}

// spawnValueViz starts the renderer process next to this executable;
// the play loop keeps running without it when the spawn fails.
func spawnValueViz(addr string) {
	exfolder, err := osext.ExecutableFolder()
	if err != nil {
		utils.WarnWith(bettererrors.
			New("Cannot locate the executable folder").
			With(bettererrors.NewFromErr(err)))
		return
	}

	cmd := exec.Command(exfolder+"/value-viz", "-addr", addr)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		utils.WarnWith(bettererrors.
			New("Could not spawn the value plotter").
			SetContext("addr", addr).
			With(bettererrors.NewFromErr(err)))
		return
	}

	go cmd.Wait()
}
