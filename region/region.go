// Package region reads and rewrites region files: containers of up to 1024
// independently compressed chunk NBT documents addressed by a sector table.
//
// A Region loads its file lazily on first access and keeps the whole file in memory.
// Writes modify the in-memory copy only; Flush persists it. A Region must not be used
// from multiple goroutines concurrently; distinct Regions over distinct files may.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/eak1mov/go-libnbt/region/format"
)

var (
	ErrNotFound         = errors.New("region file not found")
	ErrNoPath           = errors.New("region has no file path")
	ErrInvalidSlot      = errors.New("invalid slot")
	ErrOutsideRegion    = errors.New("chunk outside region")
	ErrSlotNotAllocated = errors.New("slot not allocated")
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	ErrExternalChunk    = errors.New("external chunk is read-only")
)

// CapacityExceededError reports a write whose payload does not fit the sectors
// already allocated to the slot.
type CapacityExceededError struct {
	Slot int
	Need int // header plus compressed bytes
	Have int // allocated bytes
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%v: slot %d needs %d bytes, %d allocated", ErrCapacityExceeded, e.Slot, e.Need, e.Have)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// Region is one region file held in memory.
type Region struct {
	// X and Z are the region coordinates, used to map slots to absolute chunk coordinates.
	X int32
	Z int32

	path   string
	data   []byte
	loaded bool
	logger *slog.Logger
}

type config struct {
	logger    *slog.Logger
	x, z      int32
	hasCoords bool
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithCoords sets the region coordinates instead of deriving them from the file name.
func WithCoords(x, z int32) Option {
	return func(c *config) { c.x, c.z, c.hasCoords = x, z, true }
}

func newConfig(path string, opts []Option) config {
	c := config{logger: slog.New(slog.DiscardHandler)}
	if x, z, ok := format.ParseFileName(path); ok {
		c.x, c.z = x, z
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Open returns a Region for the file at path. Nothing is read until the first access;
// a missing file is reported then as ErrNotFound.
func Open(path string, opts ...Option) *Region {
	c := newConfig(path, opts)
	return &Region{X: c.x, Z: c.z, path: path, logger: c.logger}
}

// ForChunk opens the region file in dir that contains chunk c.
func ForChunk(dir string, c chunk.Coord, opts ...Option) *Region {
	x, z := c.RegionX(), c.RegionZ()
	opts = append([]Option{WithCoords(x, z)}, opts...)
	return Open(filepath.Join(dir, format.FileName(x, z)), opts...)
}

// New returns a Region over a copy of in-memory file contents; later writes do not
// modify data. The Region has no path, so Flush fails with ErrNoPath; use Bytes to
// retrieve the contents.
func New(data []byte, opts ...Option) (*Region, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	c := newConfig("", opts)
	return &Region{X: c.x, Z: c.z, data: bytes.Clone(data), loaded: true, logger: c.logger}, nil
}

func validate(data []byte) error {
	if len(data) < format.HeaderLength {
		return fmt.Errorf("%w: %d bytes, header needs %d", format.ErrMalformedRegion, len(data), format.HeaderLength)
	}
	return nil
}

func (r *Region) Path() string {
	return r.path
}

func (r *Region) load() error {
	if r.loaded {
		return nil
	}
	if r.path == "" {
		return ErrNoPath
	}

	r.logger.Debug("libnbt: read region", "path", r.path)
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return err
	}
	if err := validate(data); err != nil {
		return fmt.Errorf("%s: %w", r.path, err)
	}

	r.data = data
	r.loaded = true
	return nil
}

// Bytes returns the current file contents, including unflushed writes. The slice is
// the Region's own buffer: later writes show through it, and it must not be modified.
func (r *Region) Bytes() ([]byte, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	return r.data, nil
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= chunk.SlotsPerRegion {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// Location returns the location table entry of slot.
func (r *Region) Location(slot int) (format.Location, error) {
	if err := checkSlot(slot); err != nil {
		return format.Location{}, err
	}
	if err := r.load(); err != nil {
		return format.Location{}, err
	}
	offset := format.LocationEntryOffset(slot)
	return format.ParseLocation(r.data[offset : offset+format.LocationEntryLength]), nil
}

// Timestamp returns the last modification time of slot in seconds since the epoch,
// as recorded in the timestamp table. The table is never modified by this package.
func (r *Region) Timestamp(slot int) (uint32, error) {
	if err := checkSlot(slot); err != nil {
		return 0, err
	}
	if err := r.load(); err != nil {
		return 0, err
	}
	offset := format.TimestampEntryOffset(slot)
	return binary.BigEndian.Uint32(r.data[offset : offset+4]), nil
}

// payload returns the header and the compressed bytes stored in an allocated slot.
func (r *Region) payload(slot int, loc format.Location) (format.PayloadHeader, []byte, error) {
	start, end := loc.ByteOffset(), loc.ByteOffset()+loc.ByteLength()
	if loc.Offset < format.HeaderLength/format.SectorSize || end > len(r.data) {
		return format.PayloadHeader{}, nil, fmt.Errorf("%w: slot %d: sectors [%d, %d) outside file of %d bytes",
			format.ErrMalformedRegion, slot, start, end, len(r.data))
	}

	header, err := format.ParsePayloadHeader(r.data[start:end])
	if err != nil {
		return format.PayloadHeader{}, nil, fmt.Errorf("slot %d: %w", slot, err)
	}
	n := int(header.Length) - 1
	if header.Length == 0 || format.PayloadHeaderLength+n > loc.ByteLength() {
		return format.PayloadHeader{}, nil, fmt.Errorf("%w: slot %d: length %d exceeds %d allocated bytes",
			format.ErrMalformedRegion, slot, header.Length, loc.ByteLength())
	}

	start += format.PayloadHeaderLength
	return header, r.data[start : start+n], nil
}

// Flush writes the whole file back to its path. It does nothing if the file was
// never loaded.
func (r *Region) Flush() error {
	if !r.loaded {
		return nil
	}
	if r.path == "" {
		return ErrNoPath
	}
	r.logger.Debug("libnbt: flush region", "path", r.path, "bytes", len(r.data))
	return os.WriteFile(r.path, r.data, 0644)
}
