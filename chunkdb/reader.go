package chunkdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-libnbt/chunk"
)

// Reader implements chunk.Reader and chunk.Visitor interfaces for a chunk database.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given database file path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT digest, data FROM chunks WHERE x = ? AND z = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ReadNBT returns the document of chunk c, or an empty slice if it is not stored.
func (r *Reader) ReadNBT(c chunk.Coord) ([]byte, error) {
	var sum int64
	var blob []byte
	if err := r.stmt.QueryRow(c.X, c.Z).Scan(&sum, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]byte, 0), nil
		}
		return nil, err
	}

	data, err := decodeBlob(blob, sum)
	if err != nil {
		return nil, fmt.Errorf("chunk %d,%d: %w", c.X, c.Z, err)
	}
	return data, nil
}

func (r *Reader) VisitNBT(visitor func(chunk.Coord, []byte) error) error {
	rows, err := r.db.Query("SELECT x, z, digest, data FROM chunks")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c chunk.Coord
		var sum int64
		var blob []byte

		if err := rows.Scan(&c.X, &c.Z, &sum, &blob); err != nil {
			return err
		}

		data, err := decodeBlob(blob, sum)
		if err != nil {
			return fmt.Errorf("chunk %d,%d: %w", c.X, c.Z, err)
		}

		if err := visitor(c, data); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
