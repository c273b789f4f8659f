// Package indexer implements the two-pass parallel indexing engine (spec
// §4.F): a single-threaded first pass that locates the header and
// establishes the column count, stripe assignment aligned to quote-safe
// row boundaries, and a second pass that runs one goroutine per stripe
// computing field-terminator offsets via the SIMD mask kernels, with
// post-hoc speculation validation and single-threaded fallback. The
// per-byte state machine in internal/statemachine is not used here.
package indexer

import (
	"runtime"

	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/vrerrors"
)

// Options configures one call to Engine.Index, covering spec §6's CLI
// surface (skip/comment/n_max/error-mode) plus the dialect and worker count.
type Options struct {
	Dialect    dialect.Dialect
	Threads    int  // worker stripe count; <=0 defaults to runtime.GOMAXPROCS(0)
	Skip       int  // leading lines to skip before the data region
	HasComment bool
	Comment    byte
	HasHeader  bool
	NMax       int64 // hard row cap; <=0 means unbounded
	SkipEmptyRows bool
	MaxFieldBytes int64 // <=0 defaults to DefaultMaxFieldBytes

	ErrorMode vrerrors.Mode
	MaxErrors int

	// Progress is sampled at stripe block boundaries with
	// (bytes_processed, total_bytes); returning false cancels the parse.
	Progress func(processed, total int64) bool
}

// DefaultMaxFieldBytes bounds a single field's span before FieldTooLarge
// fires (spec's OPEN QUESTION DECISIONS #1).
const DefaultMaxFieldBytes = 128 << 20

func (o Options) threads() int {
	if o.Threads > 0 {
		return o.Threads
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) maxFieldBytes() int64 {
	if o.MaxFieldBytes > 0 {
		return o.MaxFieldBytes
	}
	return DefaultMaxFieldBytes
}
