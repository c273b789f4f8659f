package vroom

import "github.com/vroomgo/vroom/internal/index"

// MultiResult is the merged view ParseFiles produces over several inputs:
// each file's own Result, plus the internal/index.Collection that stitches
// them into a single virtual row/column space (spec §4.G).
type MultiResult struct {
	Results    []*Result
	Collection *index.Collection
}

// Close releases every underlying Result's buffer. It returns the first
// error encountered, but always attempts to close every Result.
func (m *MultiResult) Close() error {
	var firstErr error
	for _, r := range m.Results {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Rows returns the total row count across every file.
func (m *MultiResult) Rows() int64 { return m.Collection.Rows() }

// Columns returns the shared column count every file was validated against.
func (m *MultiResult) Columns() int64 { return m.Collection.Columns }

// FieldSpan resolves a collection-wide (row, col) to the owning file's bytes
// and byte span, per internal/index.Collection.FieldSpan.
func (m *MultiResult) FieldSpan(row, col int64) (buf []byte, start, end int64, err error) {
	return m.Collection.FieldSpan(row, col)
}

// ParseFiles parses each path independently with opts, then merges the
// resulting per-file indices into one Collection (spec §4.G): validating
// that every file shares the same column count and, when headers are
// present, identical header strings, and exposing a row space that hops
// across file boundaries transparently. On any parse or validation error,
// every Result already opened is closed before returning.
func ParseFiles(paths []string, opts Options) (*MultiResult, error) {
	results := make([]*Result, 0, len(paths))
	entries := make([]index.FileEntry, 0, len(paths))

	closeAll := func() {
		for _, r := range results {
			r.Close()
		}
	}

	for _, p := range paths {
		res, err := ParseFile(p, opts)
		if err != nil {
			closeAll()
			return nil, err
		}
		results = append(results, res)
		entries = append(entries, index.FileEntry{
			Index:   res.Index,
			Headers: res.Headers,
			Buffer:  res.Bytes(),
		})
	}

	coll, err := index.NewCollection(entries)
	if err != nil {
		closeAll()
		return nil, err
	}

	return &MultiResult{Results: results, Collection: coll}, nil
}
