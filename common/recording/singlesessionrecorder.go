package recording

import (
	"encoding/json"
	"time"

	"github.com/superboySB/marladona-isaac-lab/common/utils"
)

type SingleSessionRecorder struct {
	buffer   string
	filename string
	metadata *SessionMetadata
}

func MakeSingleSessionRecorder(filename string) *SingleSessionRecorder {
	return &SingleSessionRecorder{
		buffer:   "",
		filename: filename,
		metadata: nil,
	}
}

func (r *SingleSessionRecorder) Stop() {}

func (r *SingleSessionRecorder) Close(sessionID string) {
	if r.metadata == nil {
		panic("Missing SessionMetadata")
	}

	metadata, err := json.Marshal(*r.metadata)
	utils.Check(err, "Could not serialize SessionMetadata")

	files := make([]ArchiveFile, 0)
	files = append(files, ArchiveFile{
		Name: "RecordMetadata",
		Body: string(metadata),
	})

	files = append(files, ArchiveFile{
		Name: "Record",
		Body: r.buffer,
	})

	err, _ = MakeArchive(r.filename+".zip", files)
	utils.CheckWithFunc(err, func() string {
		return "could not create record archive: " + err.Error()
	})

	utils.Debug("SingleSessionRecorder", "wrote record archive")
}

func (r *SingleSessionRecorder) RecordMetadata(sessionID string, metadata SessionMetadata) error {
	metadata.Date = time.Now().Format(time.RFC3339)
	r.metadata = &metadata

	utils.Debug("SingleSessionRecorder", "created SessionMetadata")

	return nil
}

func (r *SingleSessionRecorder) Record(sessionID string, msg string) error {
	r.buffer += msg + "\n"

	return nil
}

func (r *SingleSessionRecorder) GetDirectory() string {
	return ""
}
