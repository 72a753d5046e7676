package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// Compression is the method byte stored after the slot payload length.
type Compression uint8

const (
	CompressionStored Compression = 0
	CompressionGzip   Compression = 1
	CompressionZlib   Compression = 2
	CompressionNone   Compression = 3
	CompressionLZ4    Compression = 4

	// ExternalFlag marks a chunk whose payload is stored in a separate .mcc file.
	ExternalFlag Compression = 0x80
)

var compressionNames = map[Compression]string{
	CompressionStored: "stored",
	CompressionGzip:   "gzip",
	CompressionZlib:   "zlib",
	CompressionNone:   "none",
	CompressionLZ4:    "lz4",
}

func (c Compression) External() bool {
	return c&ExternalFlag != 0
}

// Method returns the compression method with the external flag cleared.
func (c Compression) Method() Compression {
	return c &^ ExternalFlag
}

func (c Compression) String() string {
	name, ok := compressionNames[c.Method()]
	if !ok {
		name = fmt.Sprintf("unknown(%d)", uint8(c.Method()))
	}
	if c.External() {
		name += "+external"
	}
	return name
}

var ErrUnsupportedCompression = errors.New("unsupported compression")

// Codec compresses and decompresses chunk payloads for one method.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var builtinCodecs = map[Compression]Codec{
	CompressionStored: storedCodec{},
	CompressionGzip:   gzipCodec{},
	CompressionZlib:   zlibCodec{},
	CompressionNone:   storedCodec{},
	CompressionLZ4:    lz4BlockCodec{},
}

// GetCodec returns the built-in codec for a compression method.
func GetCodec(compression Compression) (Codec, error) {
	if codec, ok := builtinCodecs[compression]; ok {
		return codec, nil
	}
	return nil, fmt.Errorf("%w (%v)", ErrUnsupportedCompression, compression)
}

func Compress(data []byte, compression Compression) ([]byte, error) {
	codec, err := GetCodec(compression)
	if err != nil {
		return nil, err
	}
	return codec.Compress(data)
}

func Decompress(data []byte, compression Compression) ([]byte, error) {
	codec, err := GetCodec(compression)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(data)
}

type storedCodec struct{}

func (storedCodec) Compress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

func (storedCodec) Decompress(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

type gzipCodec struct{}

func (gzipCodec) Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := gzip.NewWriterLevel(&buffer, gzip.DefaultCompression)

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buffer.Bytes(), nil
}

func (gzipCodec) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return result, nil
}

type zlibCodec struct{}

func (zlibCodec) Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := zlib.NewWriterLevel(&buffer, zlib.DefaultCompression)

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buffer.Bytes(), nil
}

func (zlibCodec) Decompress(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return result, nil
}
