// Package stats tracks timing, counts and memory for a linking run.
// Each phase (scan, process, write) records its own start and end so
// slow phases are easy to spot.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/processor"
)

// Stats holds performance metrics for one run.
type Stats struct {
	// Timing for each phase
	ScanStart    time.Time
	ScanEnd      time.Time
	ProcessStart time.Time
	ProcessEnd   time.Time
	WriteStart   time.Time
	WriteEnd     time.Time

	// Counts
	FilesScanned int
	FilesChanged int
	FilesWritten int
	FileErrors   int
	URLs         int
	Emails       int
	Ignored      int

	// Memory stats (captured at end)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartScan marks the beginning of the file scanning phase.
func (s *Stats) StartScan() {
	s.ScanStart = time.Now()
}

// EndScan marks the end of the file scanning phase.
func (s *Stats) EndScan(filesFound int) {
	s.ScanEnd = time.Now()
	s.FilesScanned = filesFound
}

// StartProcess marks the beginning of the linking phase.
func (s *Stats) StartProcess() {
	s.ProcessStart = time.Now()
}

// EndProcess marks the end of the linking phase and tallies the results.
// Skipped matches count as ignored, not as URLs or emails.
func (s *Stats) EndProcess(results []processor.Result) {
	s.ProcessEnd = time.Now()

	for _, r := range results {
		if r.Err != nil {
			s.FileErrors++
			continue
		}
		if r.Changed() {
			s.FilesChanged++
		}
		if r.Written {
			s.FilesWritten++
		}
		for _, m := range r.Matches {
			switch {
			case m.Skipped:
				s.Ignored++
			case m.Kind == linker.KindEmail:
				s.Emails++
			default:
				s.URLs++
			}
		}
	}
}

// StartWrite marks the beginning of the output phase.
func (s *Stats) StartWrite() {
	s.WriteStart = time.Now()
}

// EndWrite marks the end of the output phase and captures memory stats.
func (s *Stats) EndWrite() {
	s.WriteEnd = time.Now()
	s.captureMemoryStats()
}

// captureMemoryStats reads current memory statistics from runtime.
func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// phaseDuration returns end-start, or 0 if the phase has not ended.
func phaseDuration(start, end time.Time) time.Duration {
	if end.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// ScanDuration returns the time spent scanning for files.
func (s *Stats) ScanDuration() time.Duration {
	return phaseDuration(s.ScanStart, s.ScanEnd)
}

// ProcessDuration returns the time spent finding and linking.
func (s *Stats) ProcessDuration() time.Duration {
	return phaseDuration(s.ProcessStart, s.ProcessEnd)
}

// WriteDuration returns the time spent writing output.
func (s *Stats) WriteDuration() time.Duration {
	return phaseDuration(s.WriteStart, s.WriteEnd)
}

// TotalDuration returns the time from scan start to write end.
func (s *Stats) TotalDuration() time.Duration {
	return phaseDuration(s.ScanStart, s.WriteEnd)
}

// Links returns the number of URLs and emails found.
func (s *Stats) Links() int {
	return s.URLs + s.Emails
}

// FilesPerSecond returns the processing throughput.
func (s *Stats) FilesPerSecond() float64 {
	dur := s.ProcessDuration()
	if dur == 0 || s.FilesScanned == 0 {
		return 0
	}
	return float64(s.FilesScanned) / dur.Seconds()
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display (IEC units).
func FormatBytes(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	total := s.TotalDuration()
	phase := func(label string, d time.Duration) {
		fmt.Fprintf(&b, "  %-14s %8s", label, FormatDuration(d))
		if total > 0 {
			fmt.Fprintf(&b, "  (%4.1f%%)", float64(d)/float64(total)*100)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n=== Performance Statistics ===\n\n")

	b.WriteString("Timing:\n")
	phase("Scan files:", s.ScanDuration())
	phase("Link files:", s.ProcessDuration())
	phase("Write output:", s.WriteDuration())
	b.WriteString("  ─────────────────────────\n")
	fmt.Fprintf(&b, "  Total:         %8s\n", FormatDuration(total))

	b.WriteString("\nThroughput:\n")
	fmt.Fprintf(&b, "  Files scanned:     %5d\n", s.FilesScanned)
	fmt.Fprintf(&b, "  Files changed:     %5d\n", s.FilesChanged)
	if s.FilesWritten > 0 {
		fmt.Fprintf(&b, "  Files written:     %5d\n", s.FilesWritten)
	}
	fmt.Fprintf(&b, "  URLs:              %5d\n", s.URLs)
	fmt.Fprintf(&b, "  Emails:            %5d\n", s.Emails)
	if s.Ignored > 0 {
		fmt.Fprintf(&b, "  Ignored:           %5d\n", s.Ignored)
	}
	if s.FileErrors > 0 {
		fmt.Fprintf(&b, "  Errors:            %5d\n", s.FileErrors)
	}
	fmt.Fprintf(&b, "  Files/second:      %5.1f\n", s.FilesPerSecond())

	b.WriteString("\nMemory:\n")
	fmt.Fprintf(&b, "  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc))
	fmt.Fprintf(&b, "  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc))
	fmt.Fprintf(&b, "  GC cycles:     %8d\n", s.NumGC)
	fmt.Fprintf(&b, "  Goroutines:    %8d\n", s.NumGoroutine)

	return b.String()
}

// ToJSON returns a map suitable for JSON serialization.
func (s *Stats) ToJSON() map[string]any {
	return map[string]any{
		"timing": map[string]any{
			"scan_ms":    s.ScanDuration().Milliseconds(),
			"process_ms": s.ProcessDuration().Milliseconds(),
			"write_ms":   s.WriteDuration().Milliseconds(),
			"total_ms":   s.TotalDuration().Milliseconds(),
		},
		"throughput": map[string]any{
			"files_scanned":    s.FilesScanned,
			"files_changed":    s.FilesChanged,
			"files_written":    s.FilesWritten,
			"file_errors":      s.FileErrors,
			"urls":             s.URLs,
			"emails":           s.Emails,
			"ignored":          s.Ignored,
			"files_per_second": s.FilesPerSecond(),
		},
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
			"goroutines":  s.NumGoroutine,
		},
	}
}
