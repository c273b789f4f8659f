// Package detect implements spec §4.K's dialect detector: sample the
// first rows, score a fixed set of candidate delimiters by column-count
// stability, and report the most likely dialect along with a confidence
// and header-presence guess.
package detect

import (
	"github.com/vroomgo/vroom/internal/dialect"
)

// DefaultSampleRows is the number of leading rows sampled (spec §4.K
// "first N rows (default 20)").
const DefaultSampleRows = 20

// Candidates is the fixed delimiter set spec §4.K names.
var Candidates = []byte{',', '\t', ';', '|', ':'}

// Result is the detector's output, matching spec §3's detection Data
// Model exactly: `{dialect, confidence, detected_columns, rows_analyzed,
// has_header, warning?}`.
type Result struct {
	Dialect         dialect.Dialect
	Confidence      float64
	DetectedColumns int64
	RowsAnalyzed    int
	HasHeader       bool
	Warning         string
}

// Options configures Detect.
type Options struct {
	SampleRows int
	Quote      byte
}

// DefaultOptions samples 20 rows with a plain double quote.
var DefaultOptions = Options{SampleRows: DefaultSampleRows, Quote: '"'}

// Detect samples up to opts.SampleRows leading rows of data and evaluates
// every candidate delimiter, choosing the one whose row-by-row column
// count has the lowest variance and a stable modal count >= 2 (spec
// §4.K). Confidence is the fraction of sampled rows whose column count
// equals the mode.
func Detect(data []byte, opts Options) Result {
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultSampleRows
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}

	lines := splitLines(data, opts.SampleRows)
	if len(lines) == 0 {
		return Result{Warning: "empty input"}
	}

	var best Result
	bestScore := -1.0
	found := false

	for _, delim := range Candidates {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			counts = append(counts, countFields(line, delim, opts.Quote))
		}
		mode, modeFreq := modeOf(counts)
		if mode < 2 {
			continue
		}
		variance := varianceOf(counts, mode)
		confidence := float64(modeFreq) / float64(len(counts))

		// Score favors low variance, then high confidence; a perfectly
		// stable candidate (variance 0) always wins over a noisier one.
		score := confidence - variance

		if !found || score > bestScore {
			found = true
			bestScore = score
			best = Result{
				Dialect:         dialect.New(delim, opts.Quote, opts.Quote, true),
				Confidence:      confidence,
				DetectedColumns: int64(mode),
				RowsAnalyzed:    len(lines),
			}
		}
	}

	if !found {
		best = Result{
			Dialect:         dialect.Default,
			Confidence:      0,
			DetectedColumns: 1,
			RowsAnalyzed:    len(lines),
			Warning:         "no candidate delimiter produced a stable column count >= 2",
		}
		return best
	}

	best.HasHeader = looksLikeHeader(lines, best.Dialect)
	return best
}

func splitLines(data []byte, maxLines int) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(data) && len(lines) < maxLines; i++ {
		if data[i] == '\n' {
			line := data[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(data) && len(lines) < maxLines {
		lines = append(lines, data[start:])
	}
	return lines
}

// countFields counts delimiter-separated fields in line, honoring a
// simple quote-aware scan (detection runs before a Dialect's escape
// convention is known, so this always assumes RFC-4180 doubled-quote
// escaping — adequate for delimiter scoring, which only needs field
// counts, not field contents).
func countFields(line []byte, delim, quote byte) int {
	if len(line) == 0 {
		return 0
	}
	fields := 1
	inQuote := false
	for i := 0; i < len(line); i++ {
		b := line[i]
		switch {
		case b == quote:
			if inQuote && i+1 < len(line) && line[i+1] == quote {
				i++
				continue
			}
			inQuote = !inQuote
		case b == delim && !inQuote:
			fields++
		}
	}
	return fields
}

func modeOf(counts []int) (mode, freq int) {
	tally := make(map[int]int)
	for _, c := range counts {
		tally[c]++
	}
	for c, f := range tally {
		if f > freq || (f == freq && c > mode) {
			mode, freq = c, f
		}
	}
	return mode, freq
}

func varianceOf(counts []int, mode int) float64 {
	if len(counts) == 0 {
		return 0
	}
	var sumSq float64
	for _, c := range counts {
		d := float64(c - mode)
		sumSq += d * d
	}
	return sumSq / float64(len(counts))
}

// looksLikeHeader compares the first row's field classes with the second
// row's: no numeric field in row 0 and at least one numeric field in row 1
// suggests a header (spec §4.K). Rows after the second are not examined.
func looksLikeHeader(lines [][]byte, d dialect.Dialect) bool {
	if len(lines) < 2 {
		return false
	}
	headerFields := splitQuoteAware(lines[0], d)
	dataFields := splitQuoteAware(lines[1], d)
	if len(headerFields) != len(dataFields) {
		return false
	}

	headerNumeric, dataNumeric := 0, 0
	for _, f := range headerFields {
		if looksNumeric(f) {
			headerNumeric++
		}
	}
	for _, f := range dataFields {
		if looksNumeric(f) {
			dataNumeric++
		}
	}
	return headerNumeric == 0 && dataNumeric > 0
}

func looksNumeric(field []byte) bool {
	if len(field) == 0 {
		return false
	}
	start := 0
	if field[0] == '+' || field[0] == '-' {
		start = 1
	}
	if start >= len(field) {
		return false
	}
	sawDigit := false
	for i := start; i < len(field); i++ {
		c := field[i]
		if c >= '0' && c <= '9' {
			sawDigit = true
			continue
		}
		if c == '.' {
			continue
		}
		return false
	}
	return sawDigit
}

func splitQuoteAware(line []byte, d dialect.Dialect) [][]byte {
	if len(line) == 0 {
		return [][]byte{}
	}
	var fields [][]byte
	start := 0
	inQuote := false
	for i := 0; i < len(line); i++ {
		b := line[i]
		switch {
		case b == d.Quote:
			if inQuote && i+1 < len(line) && line[i+1] == d.Quote {
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
