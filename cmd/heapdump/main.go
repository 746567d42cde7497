// Command heapdump runs a scripted allocation workload against a fixed-size
// heap and prints the resulting detailed map as json.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/static-alloc/salloc/arena"
)

var (
	Capacity = pflag.IntP("capacity", "c", arena.DefaultHeapSize, "heap capacity in bytes")
	Ops      = pflag.IntP("ops", "n", 256, "number of workload operations")
	MaxSize  = pflag.IntP("max-size", "m", 512, "largest allocation in the workload")
	Seed     = pflag.Int64P("seed", "s", 1, "workload seed")
	Raw      = pflag.Bool("raw", false, "also dump the raw buffer and occupancy bits")
	LogJSON  = pflag.Bool("log-json", false, "use json logs")
	Help     = pflag.BoolP("help", "h", false, "show this help text")
)

func main() {
	pflag.Parse()

	if *Help || pflag.NArg() != 0 {
		fmt.Printf("usage: %s [options]\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		if *Help {
			return
		}
		os.Exit(2)
	}

	if *LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	} else {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, nil)))
	}

	if err := run(); err != nil {
		slog.Error("heapdump failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	heap, err := arena.NewHeap(*Capacity)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*Seed))
	var live [][]byte

	for i := 0; i < *Ops; i++ {
		// lean towards allocating so the map stays interesting
		if len(live) > 0 && rng.Intn(3) == 0 {
			victim := rng.Intn(len(live))
			heap.Free(live[victim])
			live = append(live[:victim], live[victim+1:]...)
			continue
		}

		block, err := heap.Alloc(1 + rng.Intn(*MaxSize))
		if err != nil {
			slog.Warn("allocation failed", "error", err)
			continue
		}
		live = append(live, block)
	}

	if err := heap.Validate(); err != nil {
		return err
	}

	slog.Info("workload complete",
		"allocations", heap.AllocationCount(),
		"freeBytes", heap.SumFreeSize(),
		"freeRegions", heap.FreeRegionsCount())

	w := jwriter.NewWriter()
	heap.PrintDetailedMap(&w)
	if err := w.Error(); err != nil {
		return err
	}
	fmt.Println(string(w.Bytes()))

	if *Raw {
		fmt.Printf("%x\n", heap.Raw())
		for _, bit := range heap.OccupancyBits() {
			if bit {
				fmt.Print("1 ")
			} else {
				fmt.Print("0 ")
			}
		}
		fmt.Println()
	}

	return nil
}
