package vizstream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

func startedService(t *testing.T) *VizService {
	t.Helper()

	viz := NewVizService("127.0.0.1:0", func() types.VizInit {
		return types.VizInit{
			SessionID:          "session-under-test",
			Field:              types.DefaultFieldSpec(),
			AgentsPerTeam:      3,
			PlayersToVisualize: 3,
			Terms:              []string{"base_own_pose_w", "ball_pos_w"},
			Resolution:         8,
		}
	})

	if _, err := viz.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(viz.Stop)

	return viz
}

func dialService(t *testing.T, viz *VizService) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+viz.Addr()+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) types.WireMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg types.WireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}

	return msg
}

func TestWatcherReceivesInitOnAttach(t *testing.T) {
	viz := startedService(t)
	conn := dialService(t, viz)

	msg := readWire(t, conn)
	if msg.Type != types.WireTypeInit {
		t.Fatalf("first message type %q, want init", msg.Type)
	}

	var init types.VizInit
	if err := json.Unmarshal(msg.Data, &init); err != nil {
		t.Fatal(err)
	}
	if init.SessionID != "session-under-test" {
		t.Fatalf("init session %q", init.SessionID)
	}
	if init.Resolution != 8 || len(init.Terms) != 2 {
		t.Fatalf("init payload %+v", init)
	}
}

func TestPublishFansOutToEveryWatcher(t *testing.T) {
	viz := startedService(t)

	first := dialService(t, viz)
	second := dialService(t, viz)
	readWire(t, first)
	readWire(t, second)

	frame := &types.VizFrame{
		SessionID:     "session-under-test",
		Tick:          12,
		AgentsPerTeam: 3,
		WorldState:    make(types.WorldStateSnapshot, 20),
	}

	// the pool registers watchers on the handler goroutine
	waitForWatchers(t, viz, 2)
	viz.Publish(frame)

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readWire(t, conn)
		if msg.Type != types.WireTypeFrame {
			t.Fatalf("message type %q, want frame", msg.Type)
		}

		var got types.VizFrame
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Tick != 12 {
			t.Fatalf("frame tick %d, want 12", got.Tick)
		}
	}
}

func TestStreamFramesEndsWithShutdown(t *testing.T) {
	viz := startedService(t)
	conn := dialService(t, viz)
	readWire(t, conn)
	waitForWatchers(t, viz, 1)

	observer := make(chan *types.VizFrame, 1)
	observer <- &types.VizFrame{Tick: 1, WorldState: make(types.WorldStateSnapshot, 20)}
	close(observer)

	go viz.StreamFrames(observer)

	msg := readWire(t, conn)
	if msg.Type != types.WireTypeFrame {
		t.Fatalf("message type %q, want frame", msg.Type)
	}

	msg = readWire(t, conn)
	if msg.Type != types.WireTypeShutdown {
		t.Fatalf("message type %q, want shutdown", msg.Type)
	}
	if msg.Data != nil {
		t.Fatalf("shutdown message carries data: %s", msg.Data)
	}
}

func TestDetachedWatcherIsRemovedFromPool(t *testing.T) {
	viz := startedService(t)
	conn := dialService(t, viz)
	readWire(t, conn)
	waitForWatchers(t, viz, 1)

	conn.Close()

	waitForWatchers(t, viz, 0)
}

func waitForWatchers(t *testing.T, viz *VizService, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if viz.NumberWatchers() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("watcher pool size %d, want %d", viz.NumberWatchers(), want)
}
