package main

import (
	"flag"
	"log"

	"github.com/superboySB/marladona-isaac-lab/common/utils"
	"github.com/superboySB/marladona-isaac-lab/plotter"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9999", "Address of the play loop stream")
	flag.Parse()

	backend, err := plotter.ProbeBackend()
	if err != nil {
		utils.FailWith(err)
	}
	utils.Debug("value-viz", "Using display backend "+string(backend))

	client, err := plotter.Dial(*addr)
	if err != nil {
		utils.FailWith(err)
	}
	defer client.Close()

	init := client.Init()
	log.Println("Attached to session " + init.SessionID)

	renderer := plotter.NewRenderer(init, client.Inbox())
	window := plotter.NewWindow(renderer)

	err = window.Run()
	utils.Check(err, "The visualization window failed")

	utils.Debug("value-viz", "Stream ended; closing.")
}
