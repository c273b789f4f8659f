package vroom

import (
	"fmt"

	"github.com/vroomgo/vroom/internal/buffer"
	"github.com/vroomgo/vroom/internal/detect"
	"github.com/vroomgo/vroom/internal/indexer"
)

// Parse implements spec §4.L's three-step orchestration over an in-memory
// buffer: resolve the dialect (detecting it when none was supplied), run
// the indexing engine, and assemble a Result.
func Parse(data []byte, opts Options) (*Result, error) {
	return parse(buffer.FromBytes(data), opts)
}

// ParseFile memory-maps (or loads, falling back per internal/buffer's
// platform logic) the file at path and parses it the same way Parse does.
func ParseFile(path string, opts Options) (*Result, error) {
	buf, err := buffer.Load(path)
	if err != nil {
		return nil, fmt.Errorf("vroom: %w", err)
	}
	res, err := parse(buf, opts)
	if err != nil {
		buf.Close()
		return nil, err
	}
	return res, nil
}

func parse(buf *buffer.AlignedBuffer, opts Options) (*Result, error) {
	data := buf.Bytes()

	var detection *detect.Result
	d := opts.Dialect
	if opts.shouldDetect() {
		det := detect.Detect(data, opts.detectOptions())
		detection = &det
		d = det.Dialect
	}

	idxOpts := indexer.Options{
		Dialect:       d,
		Threads:       opts.Threads,
		Skip:          opts.Skip,
		HasComment:    opts.HasComment,
		Comment:       opts.Comment,
		HasHeader:     opts.HasHeader,
		NMax:          opts.NMax,
		SkipEmptyRows: opts.SkipEmptyRows,
		MaxFieldBytes: opts.MaxFieldBytes,
		ErrorMode:     opts.ErrorMode,
		MaxErrors:     opts.MaxErrors,
		Progress:      opts.Progress,
	}

	eng := indexer.NewEngine()
	engRes, err := eng.Index(data, idxOpts)
	if err != nil {
		return nil, fmt.Errorf("vroom: %w", err)
	}

	return &Result{
		buf:          buf,
		dialect:      d,
		config:       opts.Config,
		Index:        engRes.Index,
		Headers:      engRes.Headers,
		Detection:    detection,
		Collector:    engRes.Collector,
		Cancelled:    engRes.Cancelled,
		SkippedLines: engRes.SkippedLines,
	}, nil
}
