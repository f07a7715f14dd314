package plotter

import (
	"os"
	"runtime"

	bettererrors "github.com/xtuc/better-errors"

	"github.com/superboySB/marladona-isaac-lab/common/utils"
)

// Backend identifies the display stack the window will be created on.
type Backend string

const (
	BackendWayland Backend = "wayland"
	BackendX11     Backend = "x11"
	BackendNative  Backend = "native"
)

// ProbeBackend picks a usable display backend, trying the candidates in
// order and settling on the first one the environment supports. The
// VIZ_BACKEND variable short-circuits the probe.
func ProbeBackend() (Backend, error) {
	if forced := os.Getenv("VIZ_BACKEND"); forced != "" {
		backend := Backend(forced)
		switch backend {
		case BackendWayland, BackendX11, BackendNative:
			utils.Debug("plotter", "Display backend forced to "+forced)
			return backend, nil
		}

		return "", bettererrors.
			New("Unknown display backend requested").
			SetContext("VIZ_BACKEND", forced).
			SetContext("supported", "wayland, x11, native")
	}

	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return BackendWayland, nil
	}

	if os.Getenv("DISPLAY") != "" {
		return BackendX11, nil
	}

	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return BackendNative, nil
	}

	return "", bettererrors.
		New("No usable display backend; the value plot needs a graphical session").
		SetContext("os", runtime.GOOS).
		SetContext("hint", "set DISPLAY or WAYLAND_DISPLAY, or force one with VIZ_BACKEND")
}
