package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/eak1mov/go-libnbt/chunkdb"
	"github.com/eak1mov/go-libnbt/nbtdir"
	"github.com/eak1mov/go-libnbt/region"
)

func deduceFormat(format, filePath string) string {
	if format == "" && strings.HasSuffix(filePath, ".mca") {
		return "region"
	}
	if format == "" && (strings.HasSuffix(filePath, ".sqlite") || strings.HasSuffix(filePath, ".db")) {
		return "sqlite"
	}
	if format == "" {
		return "dir"
	}
	return format
}

func openVisitor(format, path string) (chunk.Visitor, error) {
	switch format {
	case "region":
		return region.Open(path, region.WithLogger(slog.Default())), nil
	case "sqlite":
		return chunkdb.NewReader(path)
	case "dir":
		return nbtdir.NewReader(path)
	}
	return nil, fmt.Errorf("invalid input format: %q", format)
}

func openWriter(format, path string, metadata map[string]string) (chunk.Writer, error) {
	switch format {
	case "region":
		return region.Open(path, region.WithLogger(slog.Default())), nil
	case "sqlite":
		return chunkdb.NewWriter(path, chunkdb.WithMetadata(metadata), chunkdb.WithLogger(slog.Default()))
	case "dir":
		return nbtdir.NewWriter(path)
	}
	return nil, fmt.Errorf("invalid output format: %q", format)
}
