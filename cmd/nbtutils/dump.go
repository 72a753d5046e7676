package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/eak1mov/go-libnbt/nbt"
	"github.com/eak1mov/go-libnbt/region"
	"github.com/google/subcommands"
	"github.com/klauspost/compress/gzip"
)

type dumpCmd struct {
	inputPath string
	x, z      int
}

func (c *dumpCmd) Name() string     { return "dump" }
func (c *dumpCmd) Synopsis() string { return "print NBT documents as text" }
func (c *dumpCmd) Usage() string {
	return "nbtutils dump -i <path> [-x <chunk x> -z <chunk z>]\n" +
		"Prints one chunk (or every chunk) of a region file, or a raw or gzipped .nbt file.\n"
}
func (c *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.IntVar(&c.x, "x", 0, "Absolute chunk X coordinate")
	f.IntVar(&c.z, "z", 0, "Absolute chunk Z coordinate")
}

func (c *dumpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	var err error
	if deduceFormat("", c.inputPath) == "region" {
		hasCoord := false
		f.Visit(func(fl *flag.Flag) { hasCoord = hasCoord || fl.Name == "x" || fl.Name == "z" })
		err = c.dumpRegion(hasCoord)
	} else {
		err = c.dumpFile()
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *dumpCmd) dumpRegion(hasCoord bool) error {
	r := region.Open(c.inputPath)
	if hasCoord {
		ch, err := r.ReadChunk(chunk.Coord{X: int32(c.x), Z: int32(c.z)})
		if err != nil {
			return err
		}
		if ch.Absent() {
			return fmt.Errorf("chunk %d,%d is not present", c.x, c.z)
		}
		return dumpChunk(ch)
	}
	return r.VisitChunks(dumpChunk)
}

func dumpChunk(ch region.Chunk) error {
	fmt.Printf("# chunk %d,%d slot %d (%v, %d bytes)\n", ch.Coord.X, ch.Coord.Z, ch.Slot, ch.Compression, ch.Length)
	return nbt.Dump(os.Stdout, ch.Root)
}

func (c *dumpCmd) dumpFile() error {
	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		return err
	}
	if bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if data, err = io.ReadAll(reader); err != nil {
			return err
		}
	}
	tag, _, err := nbt.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.inputPath, err)
	}
	return nbt.Dump(os.Stdout, tag)
}
