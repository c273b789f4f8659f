package indexer

import (
	"fmt"
	"sync"

	"github.com/vroomgo/vroom/internal/index"
	"github.com/vroomgo/vroom/internal/vrerrors"
)

// Engine drives spec §4.F's two-pass indexing algorithm over one buffer.
type Engine struct{}

// NewEngine constructs an Engine. Engine carries no state between calls;
// it exists as a value to keep the call site symmetric with the rest of
// the façade's component objects.
func NewEngine() *Engine { return &Engine{} }

// Result is everything Engine.Index produces for one buffer.
type Result struct {
	Index        *index.ParseIndex
	Headers      []string
	Collector    *vrerrors.Collector
	SkippedLines int
	Cancelled    bool
}

// Index runs the first pass, assigns quote-safe stripe boundaries, runs the
// second pass across Options.threads() goroutines, validates the
// speculation post-condition, and falls back to a single-threaded full
// re-index on failure (spec §4.F "Speculation and fallback").
func (e *Engine) Index(data []byte, opts Options) (*Result, error) {
	collector := vrerrors.NewCollector(opts.ErrorMode, opts.MaxErrors)

	fp, err := firstPass(data, opts)
	if err != nil {
		return nil, err
	}
	if fp.columns == 0 && fp.dataStart >= len(data) {
		return &Result{
			Index:        &index.ParseIndex{Columns: 0, HasHeader: fp.hasHeader},
			Headers:      fp.headers,
			Collector:    collector,
			SkippedLines: fp.skippedRows,
		}, nil
	}

	threads := opts.threads()
	if threads < 1 {
		threads = 1
	}

	result, err := e.indexParallel(data, fp, opts, threads, collector)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	// Speculation failed: fall back to a single stripe covering the whole
	// data region.
	single, err := e.indexParallel(data, fp, opts, 1, collector)
	if err != nil {
		return nil, err
	}
	if single == nil {
		return nil, fmt.Errorf("indexer: fatal parse error, single-threaded fallback also failed")
	}
	return single, nil
}

// indexParallel runs exactly `threads` stripes over the data region and
// returns a Result, or nil if speculation failed and the caller should
// retry (typically with threads=1).
func (e *Engine) indexParallel(data []byte, fp firstPassResult, opts Options, threads int, collector *vrerrors.Collector) (*Result, error) {
	dataStart := fp.dataStart
	dataEnd := len(data)

	boundaries := make([]int, threads+1)
	boundaries[0] = dataStart
	boundaries[threads] = dataEnd
	if threads > 1 {
		chunkSize := (dataEnd - dataStart) / threads
		if chunkSize < 1 {
			chunkSize = 1
		}
		for i := 1; i < threads; i++ {
			hint := dataStart + i*chunkSize
			if hint < dataEnd {
				boundaries[i] = findSafeRecordBoundary(data, hint, opts.Dialect)
			} else {
				boundaries[i] = dataEnd
			}
		}
	}

	estimatedRows := int64(0)
	if fp.columns > 0 {
		estimatedRows = int64(dataEnd-dataStart) / (fp.columns * 8) // rough: 8 bytes/field average
		if estimatedRows < 16 {
			estimatedRows = 16
		}
	}
	capacityHint := int(estimatedRows/int64(threads)*fp.columns) + int(fp.columns)

	var progress *progressTracker
	if opts.Progress != nil {
		progress = &progressTracker{total: int64(dataEnd - dataStart), fn: opts.Progress, errs: collector}
	}

	results := make([]stripeResult, threads)
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		start, end := boundaries[i], boundaries[i+1]
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(idx, s, en int) {
			defer wg.Done()
			results[idx] = indexStripe(data, s, en, opts.Dialect, capacityHint, opts.maxFieldBytes(), collector, progress)
		}(i, start, end)
	}
	wg.Wait()

	allOK := true
	for _, r := range results {
		if !r.SpeculationOK {
			allOK = false
			break
		}
	}
	if !allOK {
		if threads > 1 {
			return nil, nil // signal caller to retry single-threaded
		}
		// This is the last attempt: a single stripe spanning the whole data
		// region still failed speculation. Unless the parse was cancelled
		// (a cancelled stripe also reports SpeculationOK=false), that can
		// only mean an unclosed quote carried all the way to EOF. Record it
		// as Fatal and still build a best-effort index from whatever
		// offsets were collected, so Result.Collector.HasFatal() is the one
		// place callers check.
		if !collector.Cancelled() {
			collector.Add(vrerrors.ParseError{
				Code:     vrerrors.UnclosedQuote,
				Severity: vrerrors.Fatal,
				Offset:   int64(dataEnd),
				Message:  "unterminated quoted field at end of input",
			})
		}
	}

	var sawCRLF, sawBareLF bool
	nOffsets := make([]int64, threads)
	total := 0
	for i, r := range results {
		nOffsets[i] = int64(len(r.Offsets))
		total += len(r.Offsets)
		sawCRLF = sawCRLF || r.SawCRLF
		sawBareLF = sawBareLF || r.SawBareLF
	}
	if sawCRLF && sawBareLF {
		collector.Add(vrerrors.ParseError{
			Code: vrerrors.MixedLineEndings, Severity: vrerrors.Warning,
			Offset: int64(dataStart), Message: "input mixes \\n and \\r\\n line endings",
		})
	}
	offsets := make([]int64, 0, total)
	for _, r := range results {
		offsets = append(offsets, r.Offsets...)
	}

	columns := fp.columns
	if columns == 0 {
		for _, r := range results {
			if r.Columns > 0 {
				columns = r.Columns
				break
			}
		}
	}

	idx := &index.ParseIndex{
		Columns:   columns,
		NThreads:  threads,
		NOffsets:  nOffsets,
		Offsets:   offsets,
		HasHeader: fp.hasHeader,
		DataStart: int64(fp.dataStart),
	}

	if opts.SkipEmptyRows {
		idx = dropEmptyRows(data, idx)
	}
	if opts.NMax > 0 {
		idx = truncateToNMax(idx, opts.NMax)
	}
	// After a Fatal error the best-effort index keeps only complete rows.
	if collector.HasFatal() && idx.Columns > 0 {
		idx = truncateToNMax(idx, int64(len(idx.Offsets))/idx.Columns)
	}

	if err := idx.Validate(); err != nil {
		if collector.Cancelled() {
			return nil, fmt.Errorf("indexer: parse cancelled by progress callback")
		}
		return nil, fmt.Errorf("indexer: %w", err)
	}

	return &Result{
		Index:        idx,
		Headers:      fp.headers,
		Collector:    collector,
		SkippedLines: fp.skippedRows,
		Cancelled:    collector.Cancelled(),
	}, nil
}

// truncateToNMax implements the OPEN QUESTION DECISIONS #2 choice: let all
// stripes finish, then truncate the merged index to the first NMax data
// rows.
func truncateToNMax(idx *index.ParseIndex, nMax int64) *index.ParseIndex {
	// The header row is never represented in Offsets (see
	// ParseIndex.DataStart), so no adjustment is needed here.
	keepFields := nMax * idx.Columns
	if keepFields >= int64(len(idx.Offsets)) {
		return idx
	}

	idx.Offsets = idx.Offsets[:keepFields]
	remaining := keepFields
	for i := range idx.NOffsets {
		if remaining >= idx.NOffsets[i] {
			remaining -= idx.NOffsets[i]
			continue
		}
		idx.NOffsets[i] = remaining
		for j := i + 1; j < len(idx.NOffsets); j++ {
			idx.NOffsets[j] = 0
		}
		break
	}
	return idx
}

// dropEmptyRows removes zero-width rows (spec's OPEN QUESTION DECISIONS #3:
// a row is "empty" only when its raw bytes between two terminators are
// zero-length, not merely all-whitespace).
func dropEmptyRows(data []byte, idx *index.ParseIndex) *index.ParseIndex {
	if idx.Columns == 0 {
		return idx
	}
	kept := make([]int64, 0, len(idx.Offsets))
	rowCount := len(idx.Offsets) / int(idx.Columns)
	removedStripeCounts := make([]int64, len(idx.NOffsets))

	stripeIdx := 0
	consumedInStripe := int64(0)

	for r := 0; r < rowCount; r++ {
		rowStart := int64(0)
		base := r * int(idx.Columns)
		if base > 0 {
			rowStart = idx.Offsets[base-1] + 1
		}
		rowEnd := idx.Offsets[base+int(idx.Columns)-1]
		isEmpty := rowEnd == rowStart && (rowStart == 0 || data[rowStart-1] == '\n')

		for stripeIdx < len(idx.NOffsets) && consumedInStripe >= idx.NOffsets[stripeIdx] {
			stripeIdx++
			consumedInStripe = 0
		}

		if isEmpty {
			if stripeIdx < len(removedStripeCounts) {
				removedStripeCounts[stripeIdx] += idx.Columns
			}
		} else {
			kept = append(kept, idx.Offsets[base:base+int(idx.Columns)]...)
		}
		consumedInStripe += idx.Columns
	}

	newNOffsets := make([]int64, len(idx.NOffsets))
	for i := range newNOffsets {
		newNOffsets[i] = idx.NOffsets[i] - removedStripeCounts[i]
	}

	return &index.ParseIndex{
		Columns:   idx.Columns,
		NThreads:  idx.NThreads,
		NOffsets:  newNOffsets,
		Offsets:   kept,
		HasHeader: idx.HasHeader,
		DataStart: idx.DataStart,
	}
}
