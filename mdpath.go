// Package mdpath encodes the heading hierarchy of markdown documents.
//
// A Generator scans text for ATX headings, tracks their nesting and returns
// one encoded path per heading: the levels from the document root down to the
// heading, one byte each. Documents longer than the generator's threshold
// (in lines) are split into chunks that are processed in parallel, each with
// its own empty heading stack; see package internal/scheduler for the
// consequences at chunk boundaries.
//
// The operation set below is the stable boundary external callers bind to:
//
//	New(threshold)           create
//	(*Generator).SetThreshold set_threshold
//	(*Generator).Threshold    get_threshold
//	(*Generator).Generate     generate
//	(*Collection).Release     release_collection
//	(*Entry).Release          release_entry
package mdpath

import (
	"sync/atomic"

	"github.com/gubarz/mdpath/internal/codec"
	"github.com/gubarz/mdpath/internal/logging"
	"github.com/gubarz/mdpath/internal/parser"
	"github.com/gubarz/mdpath/internal/scheduler"
)

// InterfaceVersion identifies the boundary operation set
const InterfaceVersion = 1

// Path is the chain of heading levels from the root to a heading, inclusive
type Path = codec.Path

// Heading is a heading line with its 1-based line number and title
type Heading = parser.Heading

// Logger is the leveled logger a Generator reports to
type Logger = logging.Logger

// OutlineItem pairs a heading with its path
type OutlineItem struct {
	Heading Heading `json:"heading"`
	Path    Path    `json:"path"`
}

// Stats describes the plan a single Generate call ran
type Stats struct {
	Mode      string
	Lines     int
	Threshold uint32
	Chunks    int
	Headings  int
}

// Generator produces encoded heading paths. All methods are safe for
// concurrent use; the threshold is snapshotted once per call.
type Generator struct {
	threshold atomic.Uint32
	closed    atomic.Bool
	sched     *scheduler.Scheduler
	logger    logging.Logger
}

type options struct {
	workers int
	logger  logging.Logger
}

// Option configures a Generator
type Option func(*options)

// WithWorkers bounds the goroutines used in parallel mode (default GOMAXPROCS)
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger injects a logger; generators are silent by default
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a generator with the given line threshold
func New(threshold uint32, opts ...Option) *Generator {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.WithFields(logging.OrNoOp(o.logger), map[string]any{"module": "mdpath.generator"})

	g := &Generator{
		sched: scheduler.New(
			scheduler.WithWorkers(o.workers),
			scheduler.WithLogger(logger),
		),
		logger: logger,
	}
	g.threshold.Store(threshold)
	return g
}

// SetThreshold replaces the threshold; calls already running keep their snapshot
func (g *Generator) SetThreshold(v uint32) {
	g.threshold.Store(v)
}

// Threshold returns the current threshold
func (g *Generator) Threshold() uint32 {
	return g.threshold.Load()
}

// Workers returns the parallel goroutine bound
func (g *Generator) Workers() int {
	return g.sched.Workers()
}

// Generate encodes every heading of text. The returned collection shares no
// storage with any other call's result and is owned by the caller.
func (g *Generator) Generate(text string) (*Collection, error) {
	c, _, err := g.GenerateWithStats(text)
	return c, err
}

// GenerateBytes is Generate for a byte string
func (g *Generator) GenerateBytes(text []byte) (*Collection, error) {
	return g.Generate(string(text))
}

// GenerateWithStats is Generate that also reports the plan that ran
func (g *Generator) GenerateWithStats(text string) (*Collection, Stats, error) {
	if g.closed.Load() {
		return nil, Stats{}, generatorClosed("generate")
	}
	result := g.sched.Run(text, g.threshold.Load())

	// One backing array per collection; entries are capped sub-slices of it.
	total := 0
	for _, ev := range result.Events {
		total += len(ev.Path)
	}
	arena := make([]byte, 0, total)
	bufs := make([][]byte, len(result.Events))
	for i, ev := range result.Events {
		start := len(arena)
		var err error
		arena, err = codec.AppendEncode(arena, ev.Path)
		if err != nil {
			// The tracker only emits non-empty paths of valid levels.
			return nil, Stats{}, err
		}
		bufs[i] = arena[start:len(arena):len(arena)]
	}

	stats := statsOf(result)
	g.logger.Debug("generate",
		"mode", stats.Mode,
		"lines", stats.Lines,
		"chunks", stats.Chunks,
		"entries", stats.Headings,
	)
	return newCollection(bufs), stats, nil
}

// Outline returns every heading with its path, using the same plan as Generate
func (g *Generator) Outline(text string) ([]OutlineItem, error) {
	if g.closed.Load() {
		return nil, generatorClosed("outline")
	}
	result := g.sched.Run(text, g.threshold.Load())
	items := make([]OutlineItem, len(result.Events))
	for i, ev := range result.Events {
		items[i] = OutlineItem{Heading: ev.Heading, Path: ev.Path}
	}
	return items, nil
}

// Close releases the generator. Collections it already returned stay valid.
func (g *Generator) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return generatorClosed("close")
	}
	return nil
}

func statsOf(r scheduler.Result) Stats {
	return Stats{
		Mode:      r.Plan.Mode.String(),
		Lines:     r.Plan.LineCount,
		Threshold: r.Plan.Threshold,
		Chunks:    len(r.Plan.Chunks),
		Headings:  len(r.Events),
	}
}
