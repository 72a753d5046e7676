// Package chunkdb provides API for storing chunk NBT documents in a SQLite database.
//
// Documents are stored zstd-compressed together with the xxhash64 digest of the
// uncompressed bytes, which is verified on every read.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package chunkdb

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

var ErrDigestMismatch = errors.New("chunkdb: digest mismatch")

var (
	blobEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	blobDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
)

// digest is stored as a signed INTEGER column.
func digest(data []byte) int64 {
	return int64(xxhash.Sum64(data))
}

func encodeBlob(data []byte) []byte {
	return blobEncoder.EncodeAll(data, nil)
}

func decodeBlob(blob []byte, want int64) ([]byte, error) {
	data, err := blobDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if got := digest(data); got != want {
		return nil, fmt.Errorf("%w: got %016x, want %016x", ErrDigestMismatch, uint64(got), uint64(want))
	}
	if data == nil {
		data = make([]byte, 0)
	}
	return data, nil
}
