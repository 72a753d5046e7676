package nbtdir

import (
	"os"
	"path/filepath"

	"github.com/eak1mov/go-libnbt/chunk"
)

// Writer implements chunk.Writer interface for a directory of files.
type Writer struct {
	filePattern string
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/chunks/{x}/{z}.nbt").
func NewWriter(filePattern string) (*Writer, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	return &Writer{filePattern}, nil
}

func (w *Writer) WriteNBT(c chunk.Coord, data []byte) error {
	filePath := formatPattern(w.filePattern, c)

	dirPath := filepath.Dir(filePath)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, data, 0644)
}

func (w *Writer) Finalize() error {
	return nil
}
