// Package pathtrack turns a stream of heading levels into nesting paths.
package pathtrack

import (
	"iter"

	"github.com/gubarz/mdpath/internal/codec"
	"github.com/gubarz/mdpath/internal/parser"
)

// Tracker holds the stack of currently open heading levels.
// A Tracker is not safe for concurrent use; each worker owns its own.
type Tracker struct {
	stack []int
}

// New returns a tracker with an empty stack
func New() *Tracker {
	return &Tracker{stack: make([]int, 0, codec.MaxDepth)}
}

// Push closes every open level >= level, opens level and returns the
// resulting path. The returned path is a copy and never aliases the stack.
func (t *Tracker) Push(level int) codec.Path {
	for len(t.stack) > 0 && t.stack[len(t.stack)-1] >= level {
		t.stack = t.stack[:len(t.stack)-1]
	}
	t.stack = append(t.stack, level)

	path := make(codec.Path, len(t.stack))
	copy(path, t.stack)
	return path
}

// Event pairs a heading with the path emitted for it
type Event struct {
	Heading parser.Heading
	Path    codec.Path
}

// Track feeds the heading lines of seq through a fresh tracker and returns one
// event per heading, in order. Non-heading lines are ignored.
func Track(seq iter.Seq[parser.Line]) []Event {
	t := New()
	var events []Event
	for line := range seq {
		if !line.IsHeading() {
			continue
		}
		events = append(events, Event{
			Heading: parser.Heading{Line: line.Number, Level: line.Level, Title: line.Title},
			Path:    t.Push(line.Level),
		})
	}
	return events
}

// TrackHeadings runs already extracted headings through a fresh tracker
func TrackHeadings(headings []parser.Heading) []Event {
	t := New()
	events := make([]Event, 0, len(headings))
	for _, h := range headings {
		events = append(events, Event{Heading: h, Path: t.Push(h.Level)})
	}
	return events
}
