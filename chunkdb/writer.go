package chunkdb

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/eak1mov/go-libnbt/chunk"
)

// Writer implements chunk.Writer interface for a chunk database.
type Writer struct {
	db     *sql.DB
	stmt   *sql.Stmt
	logger *slog.Logger
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for writing to a database file.
// It applies given options and initializes database for writing chunks.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE chunks (
			x INTEGER,
			z INTEGER,
			digest INTEGER,
			data BLOB
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	stmt, err := db.Prepare("INSERT INTO chunks (x, z, digest, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}

	return &Writer{db, stmt, config.Logger}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.stmt.Close(), w.db.Close())
}

func (w *Writer) WriteNBT(c chunk.Coord, data []byte) error {
	_, err := w.stmt.Exec(c.X, c.Z, digest(data), encodeBlob(data))
	return err
}

// Finalize creates the chunk index. A chunk written twice fails here.
func (w *Writer) Finalize() error {
	w.logger.Debug("libnbt: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX chunk_index ON chunks (x, z)")
	w.logger.Debug("libnbt: done!")
	return err
}
