// Package chunk provides common chunk interfaces and types shared by storage formats.
package chunk

// SlotsPerRegion is the number of chunk slots in one region (32x32).
const SlotsPerRegion = 1024

// Coord is a chunk coordinate. Y does not take part in region addressing.
type Coord struct {
	X int32
	Y int32
	Z int32
}

// Slot returns the index of the chunk inside its region: (X mod 32) + (Z mod 32) * 32.
func (c Coord) Slot() int {
	return int(c.X&31) + int(c.Z&31)*32
}

// RegionX returns the X coordinate of the region containing the chunk.
func (c Coord) RegionX() int32 { return c.X >> 5 }

// RegionZ returns the Z coordinate of the region containing the chunk.
func (c Coord) RegionZ() int32 { return c.Z >> 5 }

// FromSlot is the inverse of Slot for the region at (regionX, regionZ).
func FromSlot(regionX, regionZ int32, slot int) Coord {
	return Coord{
		X: regionX<<5 | int32(slot&31),
		Z: regionZ<<5 | int32(slot>>5&31),
	}
}

// FromBlock returns the coordinate of the chunk containing the given block.
func FromBlock(x, y, z int32) Coord {
	return Coord{X: x >> 4, Y: y >> 4, Z: z >> 4}
}

// Writer defines an interface for storing uncompressed chunk NBT documents.
type Writer interface {
	// WriteNBT stores a single chunk document.
	WriteNBT(c Coord, data []byte) error

	// Finalize completes the writing process: flushes buffers, writes indices.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadNBT reads a single uncompressed chunk document.
	// If the chunk does not exist, it returns an empty slice with no error.
	ReadNBT(c Coord) ([]byte, error)
}

type Visitor interface {
	// VisitNBT visits all present chunks, calling the visitor for each.
	// Order of chunks is implementation-defined.
	VisitNBT(visitor func(Coord, []byte) error) error
}
