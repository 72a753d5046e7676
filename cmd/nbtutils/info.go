package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/eak1mov/go-libnbt/nbt"
	"github.com/eak1mov/go-libnbt/region"
	"github.com/eak1mov/go-libnbt/region/format"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

type infoCmd struct {
	verbose bool
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print statistics of region files" }
func (c *infoCmd) Usage() string {
	return "nbtutils info [-v] <region files...>\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.verbose, "v", false, "List every chunk")
}

type regionInfo struct {
	path    string
	present int
	bytes   int
	methods map[format.Compression]int
	errors  []error
	lines   []string
}

func (c *infoCmd) scan(path string) (*regionInfo, error) {
	r := region.Open(path)
	if _, err := r.Bytes(); err != nil {
		return nil, err
	}

	info := &regionInfo{path: path, methods: make(map[format.Compression]int)}
	for ch, err := range r.Chunks() {
		if err != nil {
			info.errors = append(info.errors, err)
			continue
		}
		if ch.Absent() {
			continue
		}
		info.present++
		info.bytes += ch.Length
		info.methods[ch.Compression]++
		if c.verbose {
			data, err := nbt.Encode(ch.Root)
			if err != nil {
				info.errors = append(info.errors, fmt.Errorf("slot %d: %w", ch.Slot, err))
				continue
			}
			info.lines = append(info.lines, fmt.Sprintf("  %5d %6d %6d  sector %5d x%-3d %-14v %7d  %016x",
				ch.Slot, ch.Coord.X, ch.Coord.Z, ch.Location.Offset, ch.Location.Count,
				ch.Compression, ch.Length, xxhash.Sum64(data)))
		}
	}
	return info, nil
}

func (c *infoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	paths := f.Args()
	if len(paths) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	infos := make([]*regionInfo, len(paths))
	bar := progressbar.NewOptions(len(paths), progressbar.OptionSetWriter(os.Stderr))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := c.scan(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			infos[i] = info
			bar.Add(1)
			return nil
		})
	}
	err := g.Wait()
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for _, info := range infos {
		fmt.Printf("%s: %d chunks, %d payload bytes\n", info.path, info.present, info.bytes)
		for _, method := range slices.Sorted(maps.Keys(info.methods)) {
			fmt.Printf("  %v: %d\n", method, info.methods[method])
		}
		for _, line := range info.lines {
			fmt.Println(line)
		}
		for _, err := range info.errors {
			fmt.Printf("  error: %v\n", err)
			status = subcommands.ExitFailure
		}
	}
	return status
}
