package replay

import (
	"encoding/json"
	"testing"

	"github.com/superboySB/marladona-isaac-lab/common/recording"
	"github.com/superboySB/marladona-isaac-lab/common/types"
)

func writeRecord(t *testing.T, frames int) string {
	t.Helper()

	filename := t.TempDir() + "/session"
	recorder := recording.MakeSingleSessionRecorder(filename)

	recorder.RecordMetadata("session", recording.SessionMetadata{
		Field:         types.DefaultFieldSpec(),
		AgentsPerTeam: 3,
		Terms:         []string{"ball_pos_w"},
		Resolution:    8,
	})

	for tick := 0; tick < frames; tick++ {
		frame := types.VizFrame{
			SessionID:     "session",
			Tick:          uint64(tick),
			AgentsPerTeam: 3,
			WorldState:    make(types.WorldStateSnapshot, 20),
		}
		data, err := json.Marshal(frame)
		if err != nil {
			t.Fatal(err)
		}
		recorder.Record("session", string(data))
	}

	recorder.Close("session")

	return filename + ".zip"
}

func TestReplayRoundTrip(t *testing.T) {
	archive := writeRecord(t, 5)

	replayer, err := NewReplayer(archive)
	if err != nil {
		t.Fatal(err)
	}

	metadata, err := replayer.ReadMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if metadata.AgentsPerTeam != 3 || metadata.Resolution != 8 {
		t.Fatalf("metadata %+v", metadata)
	}

	ticks := make([]uint64, 0, 5)
	for frame := range replayer.Read() {
		if frame == nil {
			break
		}
		ticks = append(ticks, frame.Tick)
	}

	if len(ticks) != 5 {
		t.Fatalf("replayed %d frames, want 5", len(ticks))
	}
	for i, tick := range ticks {
		if tick != uint64(i) {
			t.Fatalf("frame %d replayed out of order (tick %d)", i, tick)
		}
	}
}

func TestReplayerRejectsMissingArchive(t *testing.T) {
	if _, err := NewReplayer(t.TempDir() + "/nope.zip"); err == nil {
		t.Fatal("expected an error for a missing archive")
	}
}

func TestReplayerRejectsForeignArchive(t *testing.T) {
	archive := t.TempDir() + "/foreign.zip"
	err, _ := recording.MakeArchive(archive, []recording.ArchiveFile{
		{Name: "Other", Body: "irrelevant"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewReplayer(archive); err == nil {
		t.Fatal("expected an error for an archive without a record")
	}
}
