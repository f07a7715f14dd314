package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type Context map[string]interface{}

type logline struct {
	Time    string  `json:"time"`
	Version string  `json:"version"`
	Service string  `json:"service"`
	Message string  `json:"message"`
	Context Context `json:"context"`
}

var debugsink io.Writer = os.Stdout

// SetDebugSink redirects debug logging; it returns the previous sink so
// tests can restore it.
func SetDebugSink(w io.Writer) io.Writer {
	previous := debugsink
	debugsink = w
	return previous
}

// Debug emits one structured JSON log line for the given service.
func Debug(service string, message string) {
	DebugWith(service, message, nil)
}

// DebugWith is Debug with extra context pairs attached to the line.
func DebugWith(service string, message string, extra Context) {
	context := make(Context, len(extra)+2)
	for key, value := range extra {
		context[key] = value
	}

	if hostname, err := os.Hostname(); err == nil {
		context["hostname"] = hostname
	}
	context["pid"] = os.Getpid()

	line := logline{
		Time:    time.Now().Format(time.RFC3339),
		Version: GetVersion(),
		Service: service,
		Message: message,
		Context: context,
	}

	data, _ := json.Marshal(line)

	fmt.Fprintln(debugsink, string(data))
}
