package region

import (
	"fmt"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/eak1mov/go-libnbt/nbt"
	"github.com/eak1mov/go-libnbt/region/format"
)

// WriteChunk replaces the document stored in slot with data, recompressed with the
// slot's current method. The slot keeps its sectors: the payload is rewritten in place
// and zero-padded to the allocation. A payload that does not fit yields a
// *CapacityExceededError and leaves the region unchanged. Slots are never allocated,
// grown or moved.
func (r *Region) WriteChunk(slot int, data []byte) error {
	loc, err := r.Location(slot)
	if err != nil {
		return err
	}
	if loc.Empty() {
		return fmt.Errorf("%w: %d", ErrSlotNotAllocated, slot)
	}

	header, _, err := r.payload(slot, loc)
	if err != nil {
		return err
	}
	if header.Compression.External() {
		return fmt.Errorf("%w: slot %d", ErrExternalChunk, slot)
	}

	compressed, err := format.Compress(data, header.Compression)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}

	need := format.PayloadHeaderLength + len(compressed)
	if need > loc.ByteLength() {
		return &CapacityExceededError{Slot: slot, Need: need, Have: loc.ByteLength()}
	}

	block := make([]byte, 0, loc.ByteLength())
	block = format.AppendPayloadHeader(block, format.PayloadHeader{
		Length:      uint32(len(compressed) + 1),
		Compression: header.Compression,
	})
	block = append(block, compressed...)
	copy(r.data[loc.ByteOffset():], block[:cap(block)])

	r.logger.Debug("libnbt: write chunk", "slot", slot, "bytes", need, "sectors", loc.Count)
	return nil
}

// WriteTag encodes t and stores it in slot as WriteChunk does.
func (r *Region) WriteTag(slot int, t nbt.Tag) error {
	data, err := nbt.Encode(t)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}
	return r.WriteChunk(slot, data)
}

// WriteNBT stores an uncompressed document for chunk c. The chunk must belong to
// this region and its slot must already be allocated.
func (r *Region) WriteNBT(c chunk.Coord, data []byte) error {
	if err := r.checkCoord(c); err != nil {
		return err
	}
	return r.WriteChunk(c.Slot(), data)
}

// Finalize flushes the region to disk.
func (r *Region) Finalize() error {
	return r.Flush()
}
