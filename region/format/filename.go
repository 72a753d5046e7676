package format

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName returns the conventional name of the region file at (x, z).
func FileName(x, z int32) string {
	return fmt.Sprintf("r.%d.%d.mca", x, z)
}

// ParseFileName extracts region coordinates from a "r.<x>.<z>.mca" path.
func ParseFileName(path string) (x, z int32, ok bool) {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) != 4 || parts[0] != "r" || parts[3] != "mca" {
		return 0, 0, false
	}
	px, errX := strconv.ParseInt(parts[1], 10, 32)
	pz, errZ := strconv.ParseInt(parts[2], 10, 32)
	if errX != nil || errZ != nil {
		return 0, 0, false
	}
	return int32(px), int32(pz), true
}

// ExternalFileName returns the name of the file holding an oversized chunk
// at absolute chunk coordinates (x, z).
func ExternalFileName(x, z int32) string {
	return fmt.Sprintf("c.%d.%d.mcc", x, z)
}
