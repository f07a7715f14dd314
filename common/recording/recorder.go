package recording

import (
	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// SessionMetadata is archived alongside a record so a replay knows how to
// rebuild the figure without the original process.
type SessionMetadata struct {
	Field         types.FieldSpec `json:"field"`
	AgentsPerTeam int             `json:"agentsPerTeam"`
	Terms         []string        `json:"terms"`
	Resolution    int             `json:"resolution"`
	Date          string          `json:"date"`
}

type Recorder interface {
	RecordMetadata(sessionID string, metadata SessionMetadata) error
	Record(sessionID string, msg string) error
	Close(sessionID string)
	Stop()
	GetDirectory() string
}
