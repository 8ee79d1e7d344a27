// Package scheduler decides between a single sequential pass and a
// partitioned parallel pass over a document, based on a line-count threshold.
//
// Sequential mode runs one Path Tracker across the whole document. Parallel
// mode splits the lines into contiguous chunks, gives every chunk its own
// tracker seeded with an empty stack and concatenates the results in chunk
// order. Headings near a chunk boundary therefore lose ancestors that live in
// an earlier chunk.
package scheduler

import (
	"runtime"

	conciter "github.com/sourcegraph/conc/iter"

	"github.com/gubarz/mdpath/internal/logging"
	"github.com/gubarz/mdpath/internal/parser"
	"github.com/gubarz/mdpath/internal/pathtrack"
)

// Mode is the execution strategy picked for one run
type Mode int

const (
	Sequential Mode = iota // One pass, one shared stack
	Parallel               // Independent stacks per chunk
)

// String returns the mode name used in logs and CLI output
func (m Mode) String() string {
	switch m {
	case Parallel:
		return "parallel"
	default:
		return "sequential"
	}
}

// Chunk is a contiguous, line-aligned slice of the input
type Chunk struct {
	Index int      // Position in chunk order
	First int      // 1-based line number of Lines[0]
	Lines []string // Raw lines
}

// Plan describes how a document will be processed
type Plan struct {
	Mode      Mode
	LineCount int
	Threshold uint32
	Chunks    []Chunk
}

// Result is the ordered output of a run
type Result struct {
	Plan   Plan
	Events []pathtrack.Event
}

// Scheduler runs documents through the scanner and tracker
type Scheduler struct {
	workers int
	logger  logging.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithWorkers bounds the number of goroutines used in parallel mode.
// Values <= 0 mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		s.workers = n
	}
}

// WithLogger sets the logger used for plan diagnostics
func WithLogger(logger logging.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logging.OrNoOp(logger)
	}
}

// New creates a scheduler
func New(opts ...Option) *Scheduler {
	s := &Scheduler{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Workers returns the goroutine bound for parallel mode
func (s *Scheduler) Workers() int {
	return s.workers
}

// Plan partitions lines according to threshold. N <= threshold yields a single
// sequential chunk. Otherwise chunks hold threshold lines each (one line each
// when threshold is 0), independent of the worker count so output is stable
// across machines.
func (s *Scheduler) Plan(lines []string, threshold uint32) Plan {
	n := len(lines)
	plan := Plan{LineCount: n, Threshold: threshold}

	if uint64(n) <= uint64(threshold) {
		plan.Mode = Sequential
		if n > 0 {
			plan.Chunks = []Chunk{{Index: 0, First: 1, Lines: lines}}
		}
		return plan
	}

	size := int(threshold)
	if size == 0 {
		size = 1
	}

	plan.Mode = Parallel
	plan.Chunks = make([]Chunk, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		plan.Chunks = append(plan.Chunks, Chunk{
			Index: len(plan.Chunks),
			First: start + 1,
			Lines: lines[start:end],
		})
	}
	return plan
}

// Run scans text under the given threshold. threshold must be a snapshot taken
// by the caller; Run never rereads it.
func (s *Scheduler) Run(text string, threshold uint32) Result {
	plan := s.Plan(parser.SplitLines(text), threshold)
	result := Result{Plan: plan}

	switch plan.Mode {
	case Sequential:
		if len(plan.Chunks) == 1 {
			result.Events = trackChunk(&plan.Chunks[0])
		}
	case Parallel:
		result.Events = s.runParallel(plan.Chunks)
	}

	s.logger.Debug("scheduler run",
		"mode", plan.Mode.String(),
		"lines", plan.LineCount,
		"threshold", plan.Threshold,
		"chunks", len(plan.Chunks),
		"workers", s.workers,
		"headings", len(result.Events),
	)
	return result
}

// runParallel tracks every chunk on the worker pool. Mapper writes each result
// into the slot of its input index, so concatenation follows chunk order no
// matter which worker finishes first.
func (s *Scheduler) runParallel(chunks []Chunk) []pathtrack.Event {
	mapper := conciter.Mapper[Chunk, []pathtrack.Event]{MaxGoroutines: s.workers}
	perChunk := mapper.Map(chunks, trackChunk)

	total := 0
	for _, events := range perChunk {
		total += len(events)
	}
	merged := make([]pathtrack.Event, 0, total)
	for _, events := range perChunk {
		merged = append(merged, events...)
	}
	return merged
}

func trackChunk(c *Chunk) []pathtrack.Event {
	return pathtrack.Track(parser.ScanLines(c.Lines, c.First))
}
