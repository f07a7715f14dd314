// Package visualization provides the hand-off channel between the play loop
// and the renderer: many frames in, most recent one out. The producer never
// blocks on it and the consumer never waits on it; stale frames are dropped
// at drain time so rendering lag cannot slow the simulation down.
package visualization

import (
	"sync"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// Sentinel is the distinguished shutdown frame; putting it tells the
// consumer to tear down. It mirrors closing the stream.
var Sentinel *types.VizFrame = nil

type Inbox struct {
	mu     sync.Mutex
	items  []*types.VizFrame
	closed bool
}

func NewInbox() *Inbox {
	return &Inbox{
		items: make([]*types.VizFrame, 0),
	}
}

// Put enqueues a frame. Put(Sentinel) marks the shutdown point; frames
// enqueued after it are never delivered.
func (in *Inbox) Put(frame *types.VizFrame) {
	in.mu.Lock()
	if !in.closed {
		in.items = append(in.items, frame)
		if frame == Sentinel {
			in.closed = true
		}
	}
	in.mu.Unlock()
}

// Get pops the oldest queued frame without blocking.
func (in *Inbox) Get() (*types.VizFrame, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if len(in.items) == 0 {
		return nil, false
	}

	frame := in.items[0]
	in.items = in.items[1:]
	return frame, true
}

func (in *Inbox) Empty() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.items) == 0
}

func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.items)
}

// DrainLatest empties the inbox and keeps only the most recent frame
// enqueued before any sentinel. shutdown reports whether the sentinel was
// reached; the latest frame (if any) is still returned alongside it so a
// consumer may render one final time before tearing down.
func (in *Inbox) DrainLatest() (latest *types.VizFrame, shutdown bool) {
	for {
		frame, ok := in.Get()
		if !ok {
			return latest, false
		}
		if frame == Sentinel {
			return latest, true
		}
		latest = frame
	}
}
