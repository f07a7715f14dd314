package recording

type EmptyRecorder struct{}

func MakeEmptyRecorder() EmptyRecorder {
	return EmptyRecorder{}
}

func (r EmptyRecorder) Record(sessionID string, msg string) error {
	return nil
}

func (r EmptyRecorder) RecordMetadata(sessionID string, metadata SessionMetadata) error {
	return nil
}

func (r EmptyRecorder) Close(sessionID string) {}
func (r EmptyRecorder) Stop()                  {}

func (r EmptyRecorder) GetDirectory() string {
	return ""
}
