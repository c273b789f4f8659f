// Package index implements the parse index (spec §3 "Parse index"): the
// compact array of field-terminator byte offsets the indexing engine
// produces, plus the collection type that merges per-file indices into a
// single virtual row/column space (spec §4.G).
package index

import "fmt"

// ParseIndex is the output of one call to the indexing engine over one
// buffer. Offsets is the full, globally ordered concatenation of every
// stripe's recorded field-terminator positions (spec §3's "offsets:
// concatenation of T contiguous ranges"). Each worker stripe records into
// its own slice and internal/indexer.Engine appends those slices in stripe
// order; because stripes are ascending, non-overlapping byte ranges, the
// result is sorted without any sorting merge step, and converting a
// (row, col) pair to a byte span is a direct O(1) arithmetic lookup rather
// than the O(number_of_stripes) prefix-sum walk a design with genuinely
// separate per-stripe arrays would need (spec §4.J still describes that
// walk for the general case; NOffsets is retained here for stripe
// bookkeeping and sidecar-format compatibility even though ByteBounds does
// not need to walk it).
type ParseIndex struct {
	Columns   int64
	NThreads  int
	NOffsets  []int64 // per-stripe recorded-offset counts, len == NThreads
	Offsets   []int64 // concatenation of all stripes' offsets, globally ascending
	HasHeader bool
	// DataStart is the byte offset where row 0's first field begins — the
	// position right after the header row's newline, or 0 when there is no
	// header. The offsets array never records the header row's own
	// terminators, so this is the only way to recover row 0's start.
	DataStart int64
}

// TotalOffsets returns the number of recorded offsets across all stripes.
func (p *ParseIndex) TotalOffsets() int64 { return int64(len(p.Offsets)) }

// Rows returns the number of data rows. The indexing engine never records
// offsets for the header row itself (its only purpose is establishing
// Columns; see internal/indexer.firstPass), so Offsets holds exactly the
// data rows' terminators regardless of HasHeader — no adjustment is needed
// here. HasHeader is retained as metadata for cross-file header-string
// comparison (see Collection).
func (p *ParseIndex) Rows() int64 {
	if p.Columns == 0 {
		return 0
	}
	return p.TotalOffsets() / p.Columns
}

// Validate checks the index totality invariant (spec §8 property 1) and
// the monotonicity invariant (property 2).
func (p *ParseIndex) Validate() error {
	if p.Columns <= 0 {
		return fmt.Errorf("index: columns must be positive, got %d", p.Columns)
	}
	if p.TotalOffsets()%p.Columns != 0 {
		return fmt.Errorf("index: total offsets %d not a multiple of columns %d", p.TotalOffsets(), p.Columns)
	}
	var prev int64 = -1
	for i, off := range p.Offsets {
		if off <= prev {
			return fmt.Errorf("index: offsets not strictly increasing at position %d (%d <= %d)", i, off, prev)
		}
		prev = off
	}
	var sum int64
	for _, n := range p.NOffsets {
		sum += n
	}
	if sum != p.TotalOffsets() {
		return fmt.Errorf("index: sum(n_offsets)=%d does not match len(offsets)=%d", sum, p.TotalOffsets())
	}
	return nil
}

// FieldSpan returns the byte range [start, end) of field col of data row
// row (0-based, header already excluded), within buf. The end byte itself
// (the terminator) is not included.
func (p *ParseIndex) FieldSpan(row, col int64) (start, end int64, err error) {
	if col < 0 || col >= p.Columns {
		return 0, 0, fmt.Errorf("index: column %d out of range [0,%d)", col, p.Columns)
	}
	globalIdx := row*p.Columns + col
	if globalIdx < 0 || globalIdx >= p.TotalOffsets() {
		return 0, 0, fmt.Errorf("index: row %d out of range", row)
	}
	end = p.Offsets[globalIdx]
	if globalIdx == 0 {
		start = p.DataStart
	} else {
		start = p.Offsets[globalIdx-1] + 1
	}
	return start, end, nil
}

// RowStart returns the byte offset at which row begins (the start of its
// first field).
func (p *ParseIndex) RowStart(row int64) (int64, error) {
	start, _, err := p.FieldSpan(row, 0)
	return start, err
}
