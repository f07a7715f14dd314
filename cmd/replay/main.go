package main

import (
	"flag"
	"log"
	"time"

	"github.com/superboySB/marladona-isaac-lab/common"
	"github.com/superboySB/marladona-isaac-lab/common/replay"
	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
	"github.com/superboySB/marladona-isaac-lab/vizstream"
)

func main() {
	filename := flag.String("file", "", "Record archive to replay")
	addr := flag.String("viz-addr", "127.0.0.1:9999", "Address serving the visualization stream")
	tps := flag.Int("tps", 10, "Frames streamed per second")

	flag.Parse()

	utils.Assert(*filename != "", "file must be set")
	utils.Assert(*tps > 0, "tps must be positive")

	replayer, err := replay.NewReplayer(*filename)
	if err != nil {
		utils.FailWith(err)
	}

	metadata, err := replayer.ReadMetadata()
	if err != nil {
		utils.FailWith(err)
	}
	log.Println("Replaying record from " + metadata.Date)

	viz := vizstream.NewVizService(*addr, func() types.VizInit {
		return types.VizInit{
			SessionID:          "replay",
			Field:              metadata.Field,
			AgentsPerTeam:      metadata.AgentsPerTeam,
			PlayersToVisualize: metadata.AgentsPerTeam,
			Terms:              metadata.Terms,
			Resolution:         metadata.Resolution,
		}
	})

	if _, err := viz.Start(); err != nil {
		log.Panicln(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(streamInterval(*tps))
		defer ticker.Stop()

		for frame := range replayer.Read() {
			if frame == nil {
				return
			}

			<-ticker.C
			viz.Publish(frame)
		}
	}()

	select {
	case <-done:
		utils.Debug("replay", "Record exhausted; closing.")
	case <-common.SignalHandler():
		utils.Debug("sighandler", "RECEIVED SHUTDOWN SIGNAL; closing.")
	}

	viz.PublishShutdown()
	viz.Stop()
}

// streamInterval never truncates to zero, whatever the rate.
func streamInterval(tps int) time.Duration {
	return time.Second / time.Duration(tps)
}
