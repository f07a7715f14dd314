package common

import (
	"os"
	"os/signal"
	"syscall"
)

func SignalHandler() chan os.Signal {
	hassignal := make(chan os.Signal, 1)
	signal.Notify(hassignal, syscall.SIGINT, syscall.SIGTERM)
	return hassignal
}
