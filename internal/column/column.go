// Package column implements spec §4.J's lazy typed column view: a
// lightweight accessor over (buffer, index, column_index) that resolves
// one field at a time without materializing the whole column, plus
// batch materialization into typed parallel arrays.
package column

import (
	"fmt"

	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/index"
	"github.com/vroomgo/vroom/internal/valueparse"
)

// Config carries the per-column extraction knobs spec §3's Extraction
// config names: locale marks, NA strings, and boolean literal sets.
type Config struct {
	NA     valueparse.NAConfig
	Bool   valueparse.BoolConfig
	Double valueparse.DoubleConfig
}

// DefaultConfig matches valueparse's package-level defaults.
var DefaultConfig = Config{
	NA:     valueparse.DefaultNA,
	Bool:   valueparse.DefaultBool,
	Double: valueparse.DefaultDouble,
}

// Column is the untyped view `(buffer_ptr, buffer_len, &index,
// column_index, has_header, dialect, extraction_config)` spec §4.J
// describes. Typed accessors are plain methods rather than a generic
// LazyColumn[T] wrapper: Go's lack of specialization means a single
// generic Get[T] would need a type switch on T anyway, so the typed
// getters (GetInt64, GetFloat64, ...) are written directly and the
// generic Materialize[T] helper below takes a parse function instead.
type Column struct {
	Buffer  []byte
	Index   *index.ParseIndex
	Col     int64
	Dialect dialect.Dialect
	Config  Config
}

// New constructs a Column view over one parsed buffer.
func New(buf []byte, idx *index.ParseIndex, col int64, d dialect.Dialect, cfg Config) *Column {
	return &Column{Buffer: buf, Index: idx, Col: col, Dialect: d, Config: cfg}
}

// Len returns the number of data rows (excludes the header, which the
// index never represents; see index.ParseIndex.DataStart).
func (c *Column) Len() int64 { return c.Index.Rows() }

// ByteBounds returns the raw [start, end) byte span of row's field in this
// column. Because our ParseIndex.Offsets is one globally sorted, stripe-
// concatenated array rather than independently addressed per-stripe
// arrays, this is the O(1) arithmetic FieldSpan provides — not the
// O(number_of_stripes) prefix-sum walk spec §4.J describes for the
// general layout (see index.ParseIndex doc comment).
func (c *Column) ByteBounds(row int64) (start, end int64, err error) {
	return c.Index.FieldSpan(row, c.Col)
}

// GetRaw returns the borrowed byte slice for row's field, quote bytes
// included and no unescaping applied (spec §4.J "get_raw").
func (c *Column) GetRaw(row int64) ([]byte, error) {
	start, end, err := c.ByteBounds(row)
	if err != nil {
		return nil, err
	}
	return c.Buffer[start:end], nil
}

// GetString returns an owned string with outer quotes stripped and escape
// sequences resolved per dialect (spec §4.J "get_string").
func (c *Column) GetString(row int64) (string, error) {
	raw, err := c.GetRaw(row)
	if err != nil {
		return "", err
	}
	return string(c.Dialect.Unquote(raw)), nil
}

// GetInt64 parses row's field as a signed 64-bit integer.
func (c *Column) GetInt64(row int64) (value int64, isNA bool, err error) {
	raw, err := c.GetRaw(row)
	if err != nil {
		return 0, false, err
	}
	v, na, ok := valueparse.ParseInt64(c.Dialect.Unquote(raw), c.Config.NA)
	if !ok {
		return 0, false, fmt.Errorf("column: row %d: not a valid integer: %q", row, raw)
	}
	return v, na, nil
}

// GetFloat64 parses row's field as a double.
func (c *Column) GetFloat64(row int64) (value float64, isNA bool, err error) {
	raw, err := c.GetRaw(row)
	if err != nil {
		return 0, false, err
	}
	v, na, ok := valueparse.ParseFloat64(c.Dialect.Unquote(raw), c.Config.Double, c.Config.NA)
	if !ok {
		return 0, false, fmt.Errorf("column: row %d: not a valid double: %q", row, raw)
	}
	return v, na, nil
}

// GetBool parses row's field as a boolean.
func (c *Column) GetBool(row int64) (value bool, isNA bool, err error) {
	raw, err := c.GetRaw(row)
	if err != nil {
		return false, false, err
	}
	v, na, ok := valueparse.ParseBool(c.Dialect.Unquote(raw), c.Config.Bool, c.Config.NA)
	if !ok {
		return false, false, fmt.Errorf("column: row %d: not a valid boolean: %q", row, raw)
	}
	return v, na, nil
}

// GetDateTime parses row's field with the ISO-8601 / compact-date parser.
func (c *Column) GetDateTime(row int64) (value valueparse.DateTime, isNA bool, err error) {
	raw, err := c.GetRaw(row)
	if err != nil {
		return valueparse.DateTime{}, false, err
	}
	unq := c.Dialect.Unquote(raw)
	if valueparse.IsNA(unq, c.Config.NA) {
		return valueparse.DateTime{}, true, nil
	}
	dt, ok := valueparse.ParseISO8601(unq)
	if !ok {
		return valueparse.DateTime{}, false, fmt.Errorf("column: row %d: not a valid date/time: %q", row, raw)
	}
	return dt, false, nil
}
