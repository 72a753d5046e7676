package region

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/eak1mov/go-libnbt/nbt"
	"github.com/eak1mov/go-libnbt/region/format"
)

// Chunk is the result of reading one slot. A slot without allocated sectors yields
// a Chunk for which Absent reports true; this is not an error.
type Chunk struct {
	Slot        int
	Coord       chunk.Coord
	Location    format.Location
	Compression format.Compression
	// Length is the size of the compressed payload in bytes.
	Length int
	Root   nbt.Tag
}

func (c Chunk) Absent() bool {
	return c.Location.Empty()
}

// ReadChunk reads and decodes the chunk at c. Only the slot derived from c is used.
func (r *Region) ReadChunk(c chunk.Coord) (Chunk, error) {
	return r.ReadSlot(c.Slot())
}

// ReadSlot reads and decodes the chunk stored in slot. When the error is about the
// slot contents (compression, malformed tag), the returned Chunk still identifies it.
func (r *Region) ReadSlot(slot int) (Chunk, error) {
	data, ch, err := r.readNBT(slot)
	if err != nil || ch.Absent() {
		return ch, err
	}
	root, _, err := nbt.DecodeRoot(data)
	if err != nil {
		return ch, fmt.Errorf("slot %d: %w", slot, err)
	}
	ch.Root = root
	return ch, nil
}

func (r *Region) readNBT(slot int) ([]byte, Chunk, error) {
	loc, err := r.Location(slot)
	if err != nil {
		return nil, Chunk{}, err
	}
	ch := Chunk{Slot: slot, Coord: chunk.FromSlot(r.X, r.Z, slot), Location: loc}
	if loc.Empty() {
		return nil, ch, nil
	}

	header, compressed, err := r.payload(slot, loc)
	if err != nil {
		return nil, ch, err
	}
	ch.Compression = header.Compression
	ch.Length = len(compressed)

	if header.Compression.External() {
		compressed, err = r.readExternal(ch.Coord)
		if err != nil {
			return nil, ch, fmt.Errorf("slot %d: %w", slot, err)
		}
		ch.Length = len(compressed)
	}

	data, err := format.Decompress(compressed, header.Compression.Method())
	if err != nil {
		return nil, ch, fmt.Errorf("slot %d: %w", slot, err)
	}
	return data, ch, nil
}

// readExternal loads the payload of an oversized chunk from its .mcc file.
func (r *Region) readExternal(c chunk.Coord) ([]byte, error) {
	if r.path == "" {
		return nil, fmt.Errorf("%w: %w", ErrExternalChunk, ErrNoPath)
	}
	path := filepath.Join(filepath.Dir(r.path), format.ExternalFileName(c.X, c.Z))
	r.logger.Debug("libnbt: read external chunk", "path", path)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return data, err
}

// Chunks iterates over all slots in slot order, absent ones included. An error in one
// slot is yielded with that slot and iteration continues. Each call starts over at slot 0.
func (r *Region) Chunks() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		if err := r.load(); err != nil {
			yield(Chunk{}, err)
			return
		}
		for slot := range chunk.SlotsPerRegion {
			if !yield(r.ReadSlot(slot)) {
				return
			}
		}
	}
}

// VisitChunks calls visitor for every present chunk in slot order and stops at the
// first error.
func (r *Region) VisitChunks(visitor func(Chunk) error) error {
	for ch, err := range r.Chunks() {
		if err != nil {
			return err
		}
		if ch.Absent() {
			continue
		}
		if err := visitor(ch); err != nil {
			return err
		}
	}
	return nil
}

func (r *Region) checkCoord(c chunk.Coord) error {
	if c.RegionX() != r.X || c.RegionZ() != r.Z {
		return fmt.Errorf("%w: chunk %d,%d, region %d,%d", ErrOutsideRegion, c.X, c.Z, r.X, r.Z)
	}
	return nil
}

// ReadNBT returns the uncompressed document of chunk c, or an empty slice if absent.
func (r *Region) ReadNBT(c chunk.Coord) ([]byte, error) {
	if err := r.checkCoord(c); err != nil {
		return nil, err
	}
	data, _, err := r.readNBT(c.Slot())
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = make([]byte, 0)
	}
	return data, nil
}

// VisitNBT calls visitor with the uncompressed document of every present chunk.
func (r *Region) VisitNBT(visitor func(chunk.Coord, []byte) error) error {
	if err := r.load(); err != nil {
		return err
	}
	for slot := range chunk.SlotsPerRegion {
		data, ch, err := r.readNBT(slot)
		if err != nil {
			return err
		}
		if ch.Absent() {
			continue
		}
		if err := visitor(ch.Coord, data); err != nil {
			return err
		}
	}
	return nil
}
