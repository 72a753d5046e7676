package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"slices"

	"github.com/OneOfOne/xxhash"
	"github.com/pierrec/lz4/v4"
)

// LZ4 chunks use the "LZ4Block" stream framing: a sequence of blocks, each with a
// 21-byte header, terminated by an empty block.
const (
	lz4BlockMagic        = "LZ4Block"
	lz4BlockHeaderLength = len(lz4BlockMagic) + 1 + 3*4
	lz4BlockSize         = 64 << 10
	lz4MethodRaw         = 0x10
	lz4MethodLZ4         = 0x20
	lz4ChecksumSeed      = 0x9747b28c
	lz4ChecksumMask      = 0x0FFFFFFF
)

var lz4BlockLevel = byte(max(0, 32-bits.LeadingZeros32(lz4BlockSize-1)-10))

type lz4BlockCodec struct{}

func lz4Checksum(data []byte) uint32 {
	return xxhash.Checksum32S(data, lz4ChecksumSeed) & lz4ChecksumMask
}

func appendLZ4BlockHeader(dst []byte, method byte, compressedLen, originalLen int, checksum uint32) []byte {
	dst = append(dst, lz4BlockMagic...)
	dst = append(dst, method|lz4BlockLevel)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(compressedLen))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(originalLen))
	return binary.LittleEndian.AppendUint32(dst, checksum)
}

func (lz4BlockCodec) Compress(data []byte) ([]byte, error) {
	var compressor lz4.Compressor
	result := make([]byte, 0, len(data)/2+2*lz4BlockHeaderLength)
	buffer := make([]byte, lz4.CompressBlockBound(lz4BlockSize))

	for block := range slices.Chunk(data, lz4BlockSize) {
		n, err := compressor.CompressBlock(block, buffer)
		if err != nil {
			return nil, fmt.Errorf("failed to compress: %w", err)
		}
		checksum := lz4Checksum(block)
		if n == 0 || n >= len(block) {
			result = appendLZ4BlockHeader(result, lz4MethodRaw, len(block), len(block), checksum)
			result = append(result, block...)
		} else {
			result = appendLZ4BlockHeader(result, lz4MethodLZ4, n, len(block), checksum)
			result = append(result, buffer[:n]...)
		}
	}

	return appendLZ4BlockHeader(result, lz4MethodRaw, 0, 0, 0), nil
}

func (lz4BlockCodec) Decompress(data []byte) ([]byte, error) {
	var result []byte
	for len(data) > 0 {
		if len(data) < lz4BlockHeaderLength || !bytes.HasPrefix(data, []byte(lz4BlockMagic)) {
			return nil, fmt.Errorf("failed to decompress: invalid lz4 block header")
		}
		token := data[len(lz4BlockMagic)]
		method := token & 0xF0
		blockSize := 1 << (10 + int(token&0x0F))
		header := data[len(lz4BlockMagic)+1 : lz4BlockHeaderLength]
		compressedLen := int(binary.LittleEndian.Uint32(header[0:]))
		originalLen := int(binary.LittleEndian.Uint32(header[4:]))
		checksum := binary.LittleEndian.Uint32(header[8:])
		data = data[lz4BlockHeaderLength:]

		if compressedLen == 0 && originalLen == 0 {
			if checksum != 0 {
				return nil, fmt.Errorf("failed to decompress: invalid lz4 end block")
			}
			break
		}
		if originalLen > blockSize || compressedLen > len(data) ||
			(method == lz4MethodRaw && compressedLen != originalLen) {
			return nil, fmt.Errorf("failed to decompress: invalid lz4 block lengths")
		}

		block := data[:compressedLen]
		data = data[compressedLen:]

		switch method {
		case lz4MethodRaw:
		case lz4MethodLZ4:
			decoded := make([]byte, originalLen)
			n, err := lz4.UncompressBlock(block, decoded)
			if err != nil {
				return nil, fmt.Errorf("failed to decompress: %w", err)
			}
			if n != originalLen {
				return nil, fmt.Errorf("failed to decompress: lz4 block size mismatch")
			}
			block = decoded
		default:
			return nil, fmt.Errorf("failed to decompress: unknown lz4 block method %#x", method)
		}

		if lz4Checksum(block) != checksum {
			return nil, fmt.Errorf("failed to decompress: lz4 block checksum mismatch")
		}
		result = append(result, block...)
	}
	return result, nil
}
