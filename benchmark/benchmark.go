// benchmark.go
// A reusable benchmarking module for Protein Predictor
// Measures execution time and memory usage for any wrapped tool run

package benchmark

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
)

// Report holds the resource usage of one wrapped run.
type Report struct {
	Label      string
	Elapsed    time.Duration
	AllocBytes int64  // heap growth; negative when GC freed more than was allocated
	TotalBytes uint64 // cumulative allocation during the run
	HeapBytes  uint64
	GCCycles   uint32
	Goroutines [2]int // before, after
}

// Measure runs f and records its resource usage.
func Measure(label string, f func()) Report {
	runtime.GC()
	var memStart, memEnd runtime.MemStats
	runtime.ReadMemStats(&memStart)
	startGoroutines := runtime.NumGoroutine()
	start := time.Now()

	f()

	elapsed := time.Since(start)
	runtime.ReadMemStats(&memEnd)
	return Report{
		Label:      label,
		Elapsed:    elapsed,
		AllocBytes: int64(memEnd.Alloc) - int64(memStart.Alloc),
		TotalBytes: memEnd.TotalAlloc - memStart.TotalAlloc,
		HeapBytes:  memEnd.HeapAlloc,
		GCCycles:   memEnd.NumGC - memStart.NumGC,
		Goroutines: [2]int{startGoroutines, runtime.NumGoroutine()},
	}
}

// Run wraps f, printing host details before and resource usage after.
func Run(w io.Writer, label string, f func()) Report {
	fmt.Fprintf(w, "[Benchmark] Running: %s\n", label)

	// Snapshot environment info
	fmt.Fprintln(w, "[Benchmark] Timestamp:", time.Now().Format(time.RFC1123))
	if host, err := os.Hostname(); err == nil {
		fmt.Fprintln(w, "[Benchmark] Hostname:", host)
	}
	fmt.Fprintln(w, "[Benchmark] Go Version:", runtime.Version())
	fmt.Fprintf(w, "[Benchmark] OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	r := Measure(label, f)

	const mb = 1024.0 * 1024.0
	fmt.Fprintf(w, "[Benchmark] Time Elapsed: %v\n", r.Elapsed)
	fmt.Fprintf(w, "[Benchmark] Memory Used: %.2f MB\n", float64(r.AllocBytes)/mb)
	fmt.Fprintf(w, "[Benchmark] Total Allocated: %.2f MB\n", float64(r.TotalBytes)/mb)
	fmt.Fprintf(w, "[Benchmark] Peak Heap: %.2f MB\n", float64(r.HeapBytes)/mb)
	fmt.Fprintf(w, "[Benchmark] GC Cycles: %d\n", r.GCCycles)
	fmt.Fprintf(w, "[Benchmark] CPU Cores: %d\n", runtime.NumCPU())
	fmt.Fprintf(w, "[Benchmark] Goroutines: %d -> %d\n", r.Goroutines[0], r.Goroutines[1])
	fmt.Fprintln(w, "[Benchmark] ----------------------------------------")
	return r
}
