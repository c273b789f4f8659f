package index

import "fmt"

// FileEntry pairs a per-file ParseIndex with its header row (if any) and
// the raw bytes it was built over.
type FileEntry struct {
	Index   *ParseIndex
	Headers []string
	Buffer  []byte
}

// sourceRange is one run of the run-length-encoded provenance column:
// collection-wide rows [previous run's EndRow, EndRow) belong to FileIndex
// (the first run starts at row 0).
type sourceRange struct {
	EndRow    int64
	FileIndex int
}

// Collection merges per-file indices into a single virtual row/column
// space (spec §4.G), validating column-count and header consistency across
// inputs and exposing a synthetic run-length-encoded "source" column.
type Collection struct {
	Files      []FileEntry
	Columns    int64
	rowRanges  []sourceRange // cumulative row boundary per file, ascending
	totalRows  int64
}

// NewCollection validates that every file has the same Columns (and, if
// headers are present on more than one file, identical header strings),
// then builds the cross-file row-range table.
func NewCollection(files []FileEntry) (*Collection, error) {
	if len(files) == 0 {
		return &Collection{}, nil
	}
	columns := files[0].Index.Columns
	var headerRef []string
	for i, f := range files {
		if f.Index.Columns != columns {
			return nil, fmt.Errorf("index: file %d has %d columns, expected %d", i, f.Index.Columns, columns)
		}
		if len(f.Headers) > 0 {
			if headerRef == nil {
				headerRef = f.Headers
			} else if !equalStrings(headerRef, f.Headers) {
				return nil, fmt.Errorf("index: file %d headers %v do not match %v", i, f.Headers, headerRef)
			}
		}
	}

	c := &Collection{Files: files, Columns: columns}
	var cum int64
	for i, f := range files {
		cum += f.Index.Rows()
		c.rowRanges = append(c.rowRanges, sourceRange{EndRow: cum, FileIndex: i})
	}
	c.totalRows = cum
	return c, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Rows returns the total row count across every file.
func (c *Collection) Rows() int64 { return c.totalRows }

// locate converts a collection-wide row index into (file index, row index
// within that file) via a binary search over the cumulative row-range
// table.
func (c *Collection) locate(row int64) (fileIdx int, localRow int64, err error) {
	if row < 0 || row >= c.totalRows {
		return 0, 0, fmt.Errorf("index: row %d out of range [0,%d)", row, c.totalRows)
	}
	lo, hi := 0, len(c.rowRanges)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.rowRanges[mid].EndRow <= row {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	prevEnd := int64(0)
	if lo > 0 {
		prevEnd = c.rowRanges[lo-1].EndRow
	}
	return c.rowRanges[lo].FileIndex, row - prevEnd, nil
}

// FieldSpan resolves a collection-wide (row, col) to the bytes of the file
// that owns that row.
func (c *Collection) FieldSpan(row, col int64) (buf []byte, start, end int64, err error) {
	fileIdx, localRow, err := c.locate(row)
	if err != nil {
		return nil, 0, 0, err
	}
	f := c.Files[fileIdx]
	start, end, err = f.Index.FieldSpan(localRow, col)
	return f.Buffer, start, end, err
}

// SourceAt returns the index (into Files) of the file that owns
// collection-wide row, via the run-length-encoded range table — no
// per-row materialization, matching spec §4.G's "synthetic source column
// ... stored as run-length encoded file indices, not materialized".
func (c *Collection) SourceAt(row int64) (int, error) {
	fileIdx, _, err := c.locate(row)
	return fileIdx, err
}

// RowIterator walks collection-wide rows, transparently hopping across file
// boundaries (spec's DESIGN NOTES: "Encode as an enum variant holding
// {current_file, current_in_file_iter} with an explicit advance_to_next_file
// step").
type RowIterator struct {
	c        *Collection
	fileIdx  int
	localRow int64
	row      int64
	started  bool
}

// Iterator returns a fresh RowIterator positioned before the first row.
func (c *Collection) Iterator() *RowIterator {
	return &RowIterator{c: c, row: -1}
}

// Next advances to the next row, hopping to the next file's local iterator
// when the current file is exhausted. Returns false once all rows across
// all files are consumed.
func (it *RowIterator) Next() bool {
	if it.started {
		it.localRow++
		for it.fileIdx < len(it.c.Files) && it.localRow >= it.c.Files[it.fileIdx].Index.Rows() {
			it.fileIdx++
			it.localRow = 0
		}
	}
	it.started = true
	it.row++
	if it.row >= it.c.totalRows {
		return false
	}
	for it.fileIdx < len(it.c.Files) && it.c.Files[it.fileIdx].Index.Rows() == 0 {
		it.fileIdx++
	}
	return it.fileIdx < len(it.c.Files)
}

// Row returns the collection-wide row index of the iterator's current
// position.
func (it *RowIterator) Row() int64 { return it.row }

// FieldSpan returns the current row's (start, end) span for col within its
// owning file's buffer.
func (it *RowIterator) FieldSpan(col int64) (buf []byte, start, end int64, err error) {
	f := it.c.Files[it.fileIdx]
	start, end, err = f.Index.FieldSpan(it.localRow, col)
	return f.Buffer, start, end, err
}
