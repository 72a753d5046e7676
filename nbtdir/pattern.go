// Package nbtdir provides API for reading and writing chunk NBT documents stored as
// individual files with paths like "/world/chunks/{x}.{z}.nbt".
package nbtdir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libnbt/chunk"
)

var ErrInvalidPattern = errors.New("libnbt: invalid file pattern")

var placeholders = []string{"{x}", "{z}"}

func validatePattern(pattern string) error {
	for _, p := range placeholders {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return nil
}

func formatPattern(pattern string, c chunk.Coord) string {
	result := pattern
	result = strings.ReplaceAll(result, "{x}", strconv.Itoa(int(c.X)))
	result = strings.ReplaceAll(result, "{z}", strconv.Itoa(int(c.Z)))
	return result
}
