// Package internal holds fixtures shared by package tests.
package internal

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/eak1mov/go-libnbt/nbt"
	"github.com/eak1mov/go-libnbt/region/format"
	"github.com/stretchr/testify/require"
)

// Slot describes one allocated chunk of a synthetic region file.
type Slot struct {
	Index       int
	Compression format.Compression
	NBT         []byte
	// Sectors overrides the allocated sector count; zero allocates the minimum.
	Sectors   uint8
	Timestamp uint32
}

// BuildRegion lays out the given slots one after another behind the two header
// sectors and returns the file contents.
func BuildRegion(t testing.TB, slots ...Slot) []byte {
	t.Helper()

	data := make([]byte, format.HeaderLength)
	for _, s := range slots {
		payload, err := format.Compress(s.NBT, s.Compression)
		require.NoError(t, err)

		used := format.PayloadHeaderLength + len(payload)
		sectors := (used + format.SectorSize - 1) / format.SectorSize
		if s.Sectors != 0 {
			require.GreaterOrEqual(t, int(s.Sectors), sectors, "slot %d does not fit", s.Index)
			sectors = int(s.Sectors)
		}

		loc := format.Location{Offset: uint32(len(data) / format.SectorSize), Count: uint8(sectors)}
		copy(data[format.LocationEntryOffset(s.Index):], format.AppendLocation(nil, loc))
		binary.BigEndian.PutUint32(data[format.TimestampEntryOffset(s.Index):], s.Timestamp)

		block := make([]byte, 0, sectors*format.SectorSize)
		block = format.AppendPayloadHeader(block, format.PayloadHeader{
			Length:      uint32(len(payload) + 1),
			Compression: s.Compression,
		})
		block = append(block, payload...)
		data = append(data, block[:cap(block)]...)
	}
	return data
}

// Encode encodes t, failing the test on error.
func Encode(t testing.TB, tag nbt.Tag) []byte {
	t.Helper()
	data, err := nbt.Encode(tag)
	require.NoError(t, err)
	return data
}

// ChunkTag returns a small chunk document resembling what a game server stores.
func ChunkTag(t testing.TB, c chunk.Coord) nbt.Tag {
	t.Helper()

	sections, err := nbt.NewList(nbt.KindCompound)
	require.NoError(t, err)
	for y := int8(-4); y < 4; y++ {
		section := &nbt.Compound{}
		section.Put("Y", nbt.Byte(y))
		section.Put("BlockLight", make(nbt.ByteArray, 2048))
		section.Put("data", nbt.LongArray{int64(c.X), int64(y), int64(c.Z)})
		require.NoError(t, sections.Append(section))
	}

	entities, err := nbt.NewList(nbt.KindCompound)
	require.NoError(t, err)

	root := &nbt.Compound{}
	root.Put("DataVersion", nbt.Int(3955))
	root.Put("xPos", nbt.Int(c.X))
	root.Put("zPos", nbt.Int(c.Z))
	root.Put("Status", nbt.String("minecraft:full"))
	root.Put("LastUpdate", nbt.Long(int64(c.X)*1000+int64(c.Z)))
	root.Put("sections", sections)
	root.Put("block_entities", entities)
	root.Put("id", nbt.String(fmt.Sprintf("chunk %d,%d", c.X, c.Z)))
	return nbt.Tag{Name: "", Value: root}
}
