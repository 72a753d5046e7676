package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type convertCmd struct {
	inputFormat  string
	inputPath    string
	outputFormat string
	outputPath   string
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "copy chunks between storage formats" }
func (c *convertCmd) Usage() string {
	return "nbtutils convert -i <path> -o <path> [-if <format> | -of <format>]\n" +
		"Region output only updates chunks whose slots are already allocated.\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (region, sqlite, dir)")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (region, sqlite, dir)")
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	inputFormat := deduceFormat(c.inputFormat, c.inputPath)
	outputFormat := deduceFormat(c.outputFormat, c.outputPath)

	reader, err := openVisitor(inputFormat, c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	metadata := map[string]string{
		"source":        c.inputPath,
		"source_format": inputFormat,
	}
	writer, err := openWriter(outputFormat, c.outputPath, metadata)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = reader.VisitNBT(func(c chunk.Coord, data []byte) error {
		err := writer.WriteNBT(c, data)
		bar.Add(1)
		if err != nil {
			return fmt.Errorf("chunk %d,%d: %w", c.X, c.Z, err)
		}
		return nil
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
