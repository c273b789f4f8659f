// Package vroom is the parser façade: spec §4.L's `parse(bytes, options)`
// orchestrates dialect resolution (B or K), the indexing engine (F), and
// the error collector (C), returning a Result over which lazy typed
// columns (internal/column) can be opened.
package vroom

import (
	"github.com/vroomgo/vroom/internal/detect"
	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/vrerrors"
	"github.com/vroomgo/vroom/internal/vroomcfg"
)

// Options configures one call to Parse or ParseFile.
type Options struct {
	// Dialect, when the zero value, triggers auto-detection (component K).
	// Supply a non-zero Dialect to skip detection entirely.
	Dialect       dialect.Dialect
	DetectDialect bool // force detection even when Dialect is non-zero

	HasHeader     bool
	Skip          int
	HasComment    bool
	Comment       byte
	NMax          int64
	SkipEmptyRows bool
	Threads       int
	MaxFieldBytes int64

	ErrorMode vrerrors.Mode
	MaxErrors int

	Config vroomcfg.Options

	// Progress is sampled at stripe block boundaries; returning false
	// cancels the parse (spec §4.L "progress callback").
	Progress func(processed, total int64) bool
}

// DefaultOptions matches the original's default locale: RFC-4180 comma
// dialect (when not auto-detected), header present, permissive error
// handling.
var DefaultOptions = Options{
	Dialect:   dialect.Default,
	HasHeader: true,
	ErrorMode: vrerrors.Permissive,
	Config:    vroomcfg.Default,
}

func (o Options) shouldDetect() bool {
	return o.DetectDialect || o.Dialect == (dialect.Dialect{})
}

func (o Options) detectOptions() detect.Options {
	return detect.Options{SampleRows: detect.DefaultSampleRows, Quote: '"'}
}
