package nbtdir

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libnbt/chunk"
)

// Reader implements chunk.Reader and chunk.Visitor interfaces for a directory of files.
type Reader struct {
	filePattern string
	rootDir     string
	pathRegexp  *regexp.Regexp
}

// NewReader creates a new Reader for the given file pattern (e.g. "/home/user/chunks/{x}/{z}.nbt").
func NewReader(filePattern string) (*Reader, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}

	regexPattern := regexp.QuoteMeta(filePattern)
	for _, name := range []string{"x", "z"} {
		quoted := regexp.QuoteMeta("{" + name + "}")
		regexPattern = strings.ReplaceAll(regexPattern, quoted, "(?P<"+name+">-?\\d+)")
	}
	pathRegex, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	path0 := formatPattern(filePattern, chunk.Coord{X: 0, Z: 0})
	path1 := formatPattern(filePattern, chunk.Coord{X: 1, Z: 1})
	for path0 != path1 {
		path0 = filepath.Dir(path0)
		path1 = filepath.Dir(path1)
	}
	rootDir := path0

	return &Reader{filePattern, rootDir, pathRegex}, nil
}

// ReadNBT returns the contents of the file for chunk c, or an empty slice if there is none.
func (r *Reader) ReadNBT(c chunk.Coord) ([]byte, error) {
	filePath := formatPattern(r.filePattern, c)
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// VisitNBT walks the pattern's root directory and visits every file matching the pattern.
func (r *Reader) VisitNBT(visitor func(chunk.Coord, []byte) error) error {
	return filepath.WalkDir(r.rootDir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		matches := r.pathRegexp.FindStringSubmatch(filePath)
		if matches == nil {
			return nil
		}

		x, err := strconv.ParseInt(matches[r.pathRegexp.SubexpIndex("x")], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
		z, err := strconv.ParseInt(matches[r.pathRegexp.SubexpIndex("z")], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		return visitor(chunk.Coord{X: int32(x), Z: int32(z)}, data)
	})
}
