package format_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/eak1mov/go-libnbt/region/format"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	random := make([]byte, 200_000)
	rand.New(rand.NewSource(42)).Read(random)

	dataCases := []struct {
		Name string
		Data []byte
	}{
		{Name: "Empty", Data: []byte{}},
		{Name: "Repeat", Data: bytes.Repeat([]byte{42}, 100500)},
		{Name: "Foobar", Data: []byte("foobar")},
		{Name: "Random", Data: random},
	}
	compressionCases := []struct {
		Name        string
		Compression format.Compression
	}{
		{Name: "Stored", Compression: format.CompressionStored},
		{Name: "Gzip", Compression: format.CompressionGzip},
		{Name: "Zlib", Compression: format.CompressionZlib},
		{Name: "None", Compression: format.CompressionNone},
		{Name: "LZ4", Compression: format.CompressionLZ4},
	}
	for _, dc := range dataCases {
		for _, cc := range compressionCases {
			t.Run(dc.Name+cc.Name, func(t *testing.T) {
				compressed, err := format.Compress(dc.Data, cc.Compression)
				if err != nil {
					t.Fatalf("Compress failed: %v", err)
				}
				decompressed, err := format.Decompress(compressed, cc.Compression)
				if err != nil {
					t.Fatalf("Decompress failed: %v", err)
				}
				if !cmp.Equal(dc.Data, decompressed, cmpEmpty) {
					t.Errorf("Decompress(Compress(input)) != input")
				}
			})
		}
	}
}

var cmpEmpty = cmp.Comparer(func(a, b []byte) bool { return bytes.Equal(a, b) })

func TestCompressionShrinks(t *testing.T) {
	data := bytes.Repeat([]byte("minecraft:stone"), 10_000)
	for _, c := range []format.Compression{format.CompressionGzip, format.CompressionZlib, format.CompressionLZ4} {
		compressed, err := format.Compress(data, c)
		require.NoError(t, err)
		require.Lessf(t, len(compressed), len(data)/10, "%v", c)
	}
}

func TestUnsupportedCompression(t *testing.T) {
	for _, c := range []format.Compression{5, 127, format.ExternalFlag | format.CompressionZlib} {
		_, err := format.Decompress([]byte{1, 2, 3}, c)
		require.ErrorIs(t, err, format.ErrUnsupportedCompression)
		_, err = format.Compress([]byte{1, 2, 3}, c)
		require.ErrorIs(t, err, format.ErrUnsupportedCompression)
	}
}

func TestDecompressCorrupted(t *testing.T) {
	for _, c := range []format.Compression{format.CompressionGzip, format.CompressionZlib, format.CompressionLZ4} {
		_, err := format.Decompress([]byte("definitely not compressed"), c)
		require.Errorf(t, err, "%v", c)
	}
}

func TestLZ4Checksum(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 1000)
	compressed, err := format.Compress(data, format.CompressionLZ4)
	require.NoError(t, err)
	require.Equal(t, "LZ4Block", string(compressed[:8]))
	require.Equal(t, byte(0x26), compressed[8])

	// checksum field of the first block
	compressed[17] ^= 0x01
	_, err = format.Decompress(compressed, format.CompressionLZ4)
	require.ErrorContains(t, err, "checksum")
}

func TestLZ4RawBlock(t *testing.T) {
	frame := []byte{
		'L', 'Z', '4', 'B', 'l', 'o', 'c', 'k', 0x16,
		0x03, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x00, 0x00,
		0x22, 0xb2, 0x4c, 0x0d, // xxh32("abc", 0x9747b28c) & 0x0FFFFFFF
		'a', 'b', 'c',
		'L', 'Z', '4', 'B', 'l', 'o', 'c', 'k', 0x16,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	data, err := format.Decompress(frame, format.CompressionLZ4)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), data)

	compressed, err := format.Compress([]byte("abc"), format.CompressionLZ4)
	require.NoError(t, err)
	if diff := cmp.Diff(frame, compressed); diff != "" {
		t.Errorf("Compress mismatch (-want +got):\n%v", diff)
	}
}

func TestCompressionString(t *testing.T) {
	require.Equal(t, "zlib", format.CompressionZlib.String())
	require.Equal(t, "zlib+external", (format.ExternalFlag | format.CompressionZlib).String())
	require.Equal(t, "unknown(9)", format.Compression(9).String())
}
