// Package format describes the on-disk layout of region files: the location and
// timestamp tables, per-slot payload headers and compression methods.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	SectorSize = 4096

	LocationTableOffset  = 0
	TimestampTableOffset = SectorSize
	HeaderLength         = 2 * SectorSize

	// LocationEntryLength is the size of one location table entry:
	// a 24-bit sector offset followed by an 8-bit sector count.
	LocationEntryLength = 4

	// PayloadHeaderLength is the size of the per-slot prefix: a 4-byte length
	// followed by the compression method byte.
	PayloadHeaderLength = 5

	// MaxSectorOffset is the largest offset a 24-bit field can address.
	MaxSectorOffset = 1<<24 - 1
)

var ErrMalformedRegion = errors.New("malformed region file")

// Location is a decoded location table entry.
type Location struct {
	Offset uint32 // in sectors, from file start
	Count  uint8  // in sectors
}

// Empty reports whether the entry marks an absent chunk.
func (l Location) Empty() bool {
	return l.Offset == 0 && l.Count == 0
}

func (l Location) ByteOffset() int {
	return int(l.Offset) * SectorSize
}

func (l Location) ByteLength() int {
	return int(l.Count) * SectorSize
}

// ParseLocation decodes one 4-byte location entry. Both fields are unsigned.
func ParseLocation(entry []byte) Location {
	return Location{
		Offset: uint32(entry[0])<<16 | uint32(entry[1])<<8 | uint32(entry[2]),
		Count:  entry[3],
	}
}

func AppendLocation(dst []byte, l Location) []byte {
	return append(dst, byte(l.Offset>>16), byte(l.Offset>>8), byte(l.Offset), l.Count)
}

// LocationEntryOffset returns the byte offset of the location entry of slot.
func LocationEntryOffset(slot int) int {
	return LocationTableOffset + slot*LocationEntryLength
}

// TimestampEntryOffset returns the byte offset of the timestamp entry of slot.
func TimestampEntryOffset(slot int) int {
	return TimestampTableOffset + slot*4
}

// PayloadHeader is the prefix stored at the start of an allocated slot.
//
// Length is not the size of the compressed span alone: it also counts the compression
// byte, as in files written by the game. A slot holding n compressed bytes stores
// Length = n+1, and the compressed bytes occupy [5, 4+Length) of the slot.
type PayloadHeader struct {
	Length      uint32
	Compression Compression
}

func ParsePayloadHeader(data []byte) (PayloadHeader, error) {
	if len(data) < PayloadHeaderLength {
		return PayloadHeader{}, fmt.Errorf("%w: payload header truncated", ErrMalformedRegion)
	}
	return PayloadHeader{
		Length:      binary.BigEndian.Uint32(data),
		Compression: Compression(data[4]),
	}, nil
}

func AppendPayloadHeader(dst []byte, h PayloadHeader) []byte {
	dst = binary.BigEndian.AppendUint32(dst, h.Length)
	return append(dst, byte(h.Compression))
}
