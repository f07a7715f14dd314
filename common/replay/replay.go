package replay

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"io"

	bettererrors "github.com/xtuc/better-errors"

	"github.com/superboySB/marladona-isaac-lab/common/recording"
	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
)

type rawRecordHandles struct {
	recordMetadata io.ReadCloser
	record         io.ReadCloser
	zip            *zip.ReadCloser
}

// Replayer streams the frames of a record archive back in the order
// they were captured. The channel returned by Read carries nil once the
// record is exhausted.
type Replayer struct {
	filename         string
	streamingChannel chan *types.VizFrame
	rawRecordHandles rawRecordHandles
}

func NewReplayer(filename string) (*Replayer, error) {
	handles, err := unzip(filename)
	if err != nil {
		return nil, err
	}

	return &Replayer{
		streamingChannel: make(chan *types.VizFrame),
		filename:         filename,
		rawRecordHandles: *handles,
	}, nil
}

// ReadMetadata decodes the session metadata archived next to the record.
func (r *Replayer) ReadMetadata() (recording.SessionMetadata, error) {
	var metadata recording.SessionMetadata

	defer r.rawRecordHandles.recordMetadata.Close()

	raw, err := io.ReadAll(bufio.NewReader(r.rawRecordHandles.recordMetadata))
	if err != nil {
		return metadata, bettererrors.
			New("Could not read the record metadata").
			With(bettererrors.NewFromErr(err))
	}

	if err := json.Unmarshal(raw, &metadata); err != nil {
		return metadata, bettererrors.
			New("Malformed record metadata").
			With(bettererrors.NewFromErr(err))
	}

	return metadata, nil
}

func (r *Replayer) Read() chan *types.VizFrame {
	reader := bufio.NewReader(r.rawRecordHandles.record)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	go func() {
		defer func() {
			r.rawRecordHandles.record.Close()
			r.rawRecordHandles.zip.Close()
			r.streamingChannel <- nil
		}()

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			frame := &types.VizFrame{}
			if err := json.Unmarshal(line, frame); err != nil {
				utils.Debug("replayer", "Skipping malformed record line;"+err.Error())
				continue
			}

			r.streamingChannel <- frame
		}
	}()

	return r.streamingChannel
}

func unzip(filename string) (*rawRecordHandles, error) {
	reader, err := zip.OpenReader(filename)
	if err != nil {
		return nil, bettererrors.
			New("Could not open the record archive").
			SetContext("file", filename).
			With(bettererrors.NewFromErr(err))
	}

	handles := &rawRecordHandles{zip: reader}

	for _, file := range reader.File {
		fd, err := file.Open()
		if err != nil {
			return nil, bettererrors.
				New("Could not open an archive entry").
				SetContext("entry", file.Name).
				With(bettererrors.NewFromErr(err))
		}

		switch file.Name {
		case "Record":
			handles.record = fd
		case "RecordMetadata":
			handles.recordMetadata = fd
		}
	}

	if handles.record == nil || handles.recordMetadata == nil {
		return nil, bettererrors.
			New("Archive is not a record; Record or RecordMetadata entry missing").
			SetContext("file", filename)
	}

	return handles, nil
}
