package vroom

import (
	"github.com/vroomgo/vroom/internal/buffer"
	"github.com/vroomgo/vroom/internal/column"
	"github.com/vroomgo/vroom/internal/detect"
	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/index"
	"github.com/vroomgo/vroom/internal/vrerrors"
	"github.com/vroomgo/vroom/internal/vroomcfg"
)

// Result is spec §4.L's façade output: "buffer (shared or moved), index,
// detection metadata, and the error collector".
type Result struct {
	buf     *buffer.AlignedBuffer
	dialect dialect.Dialect
	config  vroomcfg.Options

	Index        *index.ParseIndex
	Headers      []string
	Detection    *detect.Result // nil when the caller supplied an explicit dialect
	Collector    *vrerrors.Collector
	Cancelled    bool
	SkippedLines int
}

// Bytes returns the underlying buffer's logical view. The slice remains
// valid only as long as Result (and its owning AlignedBuffer) is alive.
func (r *Result) Bytes() []byte { return r.buf.Bytes() }

// Close releases any OS resources held by the underlying buffer (e.g. an
// mmap region). Safe to call on a Result built over in-memory bytes.
func (r *Result) Close() error { return r.buf.Close() }

// Dialect returns the dialect the parse used, whether supplied or detected.
func (r *Result) Dialect() dialect.Dialect { return r.dialect }

// Rows returns the number of data rows.
func (r *Result) Rows() int64 { return r.Index.Rows() }

// Columns returns the column count.
func (r *Result) Columns() int64 { return r.Index.Columns }

// ColumnName returns the header name for col, or "" when there is no
// header row or col is out of range.
func (r *Result) ColumnName(col int64) string {
	if int(col) < len(r.Headers) {
		return r.Headers[col]
	}
	return ""
}

// Column opens a lazy typed column view over column index col, applying
// r's dialect and the per-column extraction config resolved by header
// name when headers are present.
func (r *Result) Column(col int64) *column.Column {
	name := r.ColumnName(col)
	cfg := column.Config{
		NA:     r.config.NAConfig(name),
		Bool:   r.config.BoolConfig(name),
		Double: r.config.DoubleConfig(name),
	}
	return column.New(r.buf.Bytes(), r.Index, col, r.dialect, cfg)
}
