// Command shufbench drives a configurable allocation workload through a
// shuffling allocator and reports throughput and runtime.MemStats figures.
// Each run uses one mode, chosen by -shuffle; running it once with
// -shuffle=true and once with -shuffle=false measures the cost of
// randomizing layout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/fitzgen/shuffling-allocator"
)

func main() {
	goroutines := flag.Int("goroutines", 4, "number of concurrent allocating goroutines")
	opsPer := flag.Int("ops", 100000, "allocations (and matching frees) performed per goroutine")
	size := flag.Uint64("size", 24, "size in bytes of each allocated block")
	align := flag.Uint64("align", 8, "alignment in bytes of each allocated block")
	shuffle := flag.Bool("shuffle", true, "route allocations through a shuffling allocator instead of the system allocator directly")
	flag.Parse()

	if *goroutines <= 0 {
		log.Fatal("-goroutines must be positive")
	}
	if *opsPer <= 0 {
		log.Fatal("-ops must be positive")
	}

	layout := shufalloc.NewLayout(uintptr(*size), uintptr(*align))

	var alloc shufalloc.Allocator = shufalloc.SystemAllocator{}
	if *shuffle {
		alloc = shufalloc.Wrap(shufalloc.SystemAllocator{})
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	runWorkload(alloc, *goroutines, *opsPer, layout)
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)

	total := int64(*goroutines) * int64(*opsPer)
	fmt.Fprintf(os.Stdout, "cpu:           %s\n", cpuBannerInfo())
	fmt.Fprintf(os.Stdout, "mode:          %s\n", modeName(*shuffle))
	fmt.Fprintf(os.Stdout, "goroutines:    %d\n", *goroutines)
	fmt.Fprintf(os.Stdout, "ops/goroutine: %d\n", *opsPer)
	fmt.Fprintf(os.Stdout, "block layout:  size=%d align=%d\n", *size, *align)
	fmt.Fprintf(os.Stdout, "elapsed:       %v\n", elapsed)
	fmt.Fprintf(os.Stdout, "ops/sec:       %.0f\n", float64(total)/elapsed.Seconds())
	fmt.Fprintf(os.Stdout, "heap alloc:    %.2f MiB\n", float64(after.Alloc)/(1<<20))
	fmt.Fprintf(os.Stdout, "total alloc:   %.2f MiB\n", float64(after.TotalAlloc-before.TotalAlloc)/(1<<20))
	fmt.Fprintf(os.Stdout, "gc cycles:     %d\n", after.NumGC-before.NumGC)
}

func modeName(shuffle bool) string {
	if shuffle {
		return "shuffled"
	}
	return "system"
}

func runWorkload(alloc shufalloc.Allocator, goroutines, opsPer int, layout shufalloc.Layout) {
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < opsPer; i++ {
				p := alloc.Alloc(layout)
				if p == nil {
					log.Fatal("allocator returned nil")
				}
				alloc.Dealloc(p, layout)
			}
		}()
	}
	wg.Wait()
}
