package plotter

import (
	"runtime"
	"testing"
)

func clearDisplayEnv(t *testing.T) {
	t.Setenv("VIZ_BACKEND", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")
}

func TestProbePrefersWayland(t *testing.T) {
	clearDisplayEnv(t)
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	t.Setenv("DISPLAY", ":0")

	backend, err := ProbeBackend()
	if err != nil {
		t.Fatal(err)
	}
	if backend != BackendWayland {
		t.Fatalf("probed %q, want wayland", backend)
	}
}

func TestProbeFallsBackToX11(t *testing.T) {
	clearDisplayEnv(t)
	t.Setenv("DISPLAY", ":0")

	backend, err := ProbeBackend()
	if err != nil {
		t.Fatal(err)
	}
	if backend != BackendX11 {
		t.Fatalf("probed %q, want x11", backend)
	}
}

func TestProbeEnvOverrideWins(t *testing.T) {
	clearDisplayEnv(t)
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	t.Setenv("VIZ_BACKEND", "x11")

	backend, err := ProbeBackend()
	if err != nil {
		t.Fatal(err)
	}
	if backend != BackendX11 {
		t.Fatalf("probed %q, want the forced x11", backend)
	}
}

func TestProbeRejectsUnknownOverride(t *testing.T) {
	clearDisplayEnv(t)
	t.Setenv("VIZ_BACKEND", "framebuffer")

	if _, err := ProbeBackend(); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestProbeFailsHeadless(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("native backend always available here")
	}

	clearDisplayEnv(t)

	if _, err := ProbeBackend(); err == nil {
		t.Fatal("expected an error without any display")
	}
}
