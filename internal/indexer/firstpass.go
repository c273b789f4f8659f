package indexer

import (
	"fmt"
	"strings"

	"github.com/vroomgo/vroom/internal/dialect"
)

// firstPassResult holds everything the single-threaded first pass
// discovers before the parallel second pass can begin.
type firstPassResult struct {
	dataStart  int  // byte offset where the stripe-indexed data region begins
	columns    int64
	headers    []string // nil if !HasHeader
	hasHeader  bool
	skippedRows int // comment + --skip lines, for CLI reporting
}

// firstPass implements spec §4.F's "row boundary discovery": skip --skip
// leading lines, skip comment lines (a supplemented feature grounded in
// original_source/'s delimited_index.cc — see SPEC_FULL.md), read the
// header row if present, and establish columns from the first row after
// the skipped lines (the header row when HasHeader is set).
func firstPass(data []byte, opts Options) (firstPassResult, error) {
	pos := 0
	skipped := 0

	for i := 0; i < opts.Skip; i++ {
		end := nextRowEnd(data, pos, opts.Dialect)
		if end >= len(data) {
			return firstPassResult{}, fmt.Errorf("indexer: --skip %d exceeds available lines", opts.Skip)
		}
		pos = end + 1
		skipped++
	}

	for opts.HasComment && pos < len(data) && data[pos] == opts.Comment {
		end := nextRowEnd(data, pos, opts.Dialect)
		if end >= len(data) {
			pos = len(data)
			break
		}
		pos = end + 1
		skipped++
	}

	if pos >= len(data) {
		// Empty (post-skip) input: zero columns, zero rows, still valid.
		return firstPassResult{dataStart: pos, columns: 0, hasHeader: opts.HasHeader, skippedRows: skipped}, nil
	}

	headerEnd := nextRowEnd(data, pos, opts.Dialect)
	line := data[pos:headerEnd]
	line = trimCR(line)

	fields := splitQuoteAware(line, opts.Dialect)
	columns := int64(len(fields))

	var headers []string
	if opts.HasHeader {
		headers = make([]string, len(fields))
		for i, f := range fields {
			headers[i] = strings.TrimSpace(string(opts.Dialect.Unquote(f)))
		}
		dataStart := headerEnd + 1
		if headerEnd >= len(data) {
			dataStart = len(data)
		}
		return firstPassResult{dataStart: dataStart, columns: columns, headers: headers, hasHeader: true, skippedRows: skipped}, nil
	}

	// No header: the data region starts at the same row we just measured.
	return firstPassResult{dataStart: pos, columns: columns, hasHeader: false, skippedRows: skipped}, nil
}

// nextRowEnd returns the byte offset of the next unquoted newline at or
// after start, or len(data) if none exists (spec §4.F: "scalar loop ...
// respects quoting and comments").
func nextRowEnd(data []byte, start int, d dialect.Dialect) int {
	inQuote := false
	escaped := false
	for i := start; i < len(data); i++ {
		b := data[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inQuote && !d.DoubleQuote && b == d.Escape:
			escaped = true
		case b == d.Quote:
			if inQuote && d.DoubleQuote && i+1 < len(data) && data[i+1] == d.Quote {
				i++ // doubled quote, stays inside the field
				continue
			}
			inQuote = !inQuote
		case b == '\n' && !inQuote:
			return i
		}
	}
	return len(data)
}

// splitQuoteAware splits line on the delimiter, honoring quoted fields that
// may themselves contain the delimiter byte.
func splitQuoteAware(line []byte, d dialect.Dialect) [][]byte {
	if len(line) == 0 {
		return [][]byte{}
	}
	var fields [][]byte
	start := 0
	inQuote := false
	escaped := false
	for i := 0; i < len(line); i++ {
		b := line[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inQuote && !d.DoubleQuote && b == d.Escape:
			escaped = true
		case b == d.Quote:
			if inQuote && d.DoubleQuote && i+1 < len(line) && line[i+1] == d.Quote {
				i++
				continue
			}
			inQuote = !inQuote
		case b == d.Delimiter && !inQuote:
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	fields = append(fields, line[start:])
	return fields
}

func trimCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}
	return line
}
