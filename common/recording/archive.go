package recording

import (
	"archive/zip"
	"os"
)

type ArchiveFile struct {
	Name string
	Body string
}

func MakeArchive(filename string, files []ArchiveFile) (error, bool) {
	handle, err := os.Create(filename)
	if err != nil {
		return err, false
	}
	defer handle.Close()

	archive := zip.NewWriter(handle)

	for _, file := range files {
		writer, err := archive.Create(file.Name)
		if err != nil {
			return err, false
		}

		if _, err := writer.Write([]byte(file.Body)); err != nil {
			return err, false
		}
	}

	if err := archive.Close(); err != nil {
		return err, false
	}

	return nil, true
}
