// Package vrerrors implements the typed parse-diagnostic collector: error
// codes, severities, and the fail-fast/permissive/best-effort accumulation
// modes the indexing engine and value parsers report through.
package vrerrors

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Code is the closed, wire-stable error taxonomy.
type Code int

const (
	None Code = iota
	UnclosedQuote
	InvalidQuoteEscape
	QuoteInUnquotedField
	InconsistentFieldCount
	FieldTooLarge
	MixedLineEndings
	_ // 7 is unused in the wire taxonomy
	InvalidUtf8
	NullByte
	EmptyHeader
	DuplicateColumnNames
	AmbiguousSeparator
	FileTooLarge
	IOError
	InternalError
)

// API-level codes start at 100 and are not part of the parse-diagnostic wire
// taxonomy above (they never appear in a ParseError, only as Go error values
// returned from the façade).
const (
	ErrCancelled Code = iota + 100
	ErrInvalidArgument
)

func (c Code) String() string {
	switch c {
	case None:
		return "None"
	case UnclosedQuote:
		return "UnclosedQuote"
	case InvalidQuoteEscape:
		return "InvalidQuoteEscape"
	case QuoteInUnquotedField:
		return "QuoteInUnquotedField"
	case InconsistentFieldCount:
		return "InconsistentFieldCount"
	case FieldTooLarge:
		return "FieldTooLarge"
	case MixedLineEndings:
		return "MixedLineEndings"
	case InvalidUtf8:
		return "InvalidUtf8"
	case NullByte:
		return "NullByte"
	case EmptyHeader:
		return "EmptyHeader"
	case DuplicateColumnNames:
		return "DuplicateColumnNames"
	case AmbiguousSeparator:
		return "AmbiguousSeparator"
	case FileTooLarge:
		return "FileTooLarge"
	case IOError:
		return "IOError"
	case InternalError:
		return "InternalError"
	case ErrCancelled:
		return "Cancelled"
	case ErrInvalidArgument:
		return "InvalidArgument"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Severity classifies a ParseError by blast radius, not by origin.
type Severity int

const (
	Warning Severity = iota
	Recoverable
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "Warning"
	case Recoverable:
		return "Recoverable"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Mode selects how the Collector reacts to Recoverable/Fatal errors.
type Mode int

const (
	// FailFast stops at the first Recoverable or Fatal error.
	FailFast Mode = iota
	// Permissive accumulates Recoverable errors up to a cap; Fatal still stops.
	Permissive
	// BestEffort behaves like Permissive but signals the scanner may
	// synthesize missing fields or skip ahead after a Fatal error.
	BestEffort
)

func (m Mode) String() string {
	switch m {
	case FailFast:
		return "fail-fast"
	case Permissive:
		return "permissive"
	case BestEffort:
		return "best-effort"
	default:
		return "unknown"
	}
}

// ParseError is a single typed parse diagnostic, byte-precise.
type ParseError struct {
	Code       Code
	Severity   Severity
	Offset     int64
	Line       int // 1-based; 0 if not yet resolved
	Column     int // 1-based; 0 if not yet resolved
	Message    string
	Snippet    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d, col %d (offset %d): %s", e.Code, e.Line, e.Column, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Message)
}

// ErrShortCircuit is returned by Collector.Add when fail-fast mode should
// halt the caller's scan loop immediately. Block kernels check for this
// without acquiring the collector's lock on the hot path.
var ErrShortCircuit = fmt.Errorf("vrerrors: fail-fast short-circuit")

// DefaultMaxErrors is the permissive-mode cap on recorded Recoverable and
// Fatal errors; warnings do not count toward it.
const DefaultMaxErrors = 100

// DefaultSnippetRadius is how many bytes of context surround an offset.
const DefaultSnippetRadius = 10

// Collector accumulates ParseErrors under the configured Mode. Writes are
// rare in the common case; the mutex only guards the append path, never the
// hot SIMD/state-machine loop itself.
type Collector struct {
	mu        sync.Mutex
	mode      Mode
	maxErrors int
	errors    []ParseError
	capped    int // recorded non-warning errors, compared against maxErrors
	fatal     *ParseError
	cancelled bool
}

// NewCollector constructs a Collector for the given mode. maxErrors <= 0
// uses DefaultMaxErrors.
func NewCollector(mode Mode, maxErrors int) *Collector {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Collector{mode: mode, maxErrors: maxErrors}
}

// Mode reports the collector's configured mode.
func (c *Collector) Mode() Mode { return c.mode }

// Add records e according to the collector's mode. It returns
// ErrShortCircuit when the caller should stop scanning immediately: for a
// Fatal error in any mode except BestEffort, and for any Recoverable or
// Fatal error in FailFast mode. Warnings never short-circuit.
func (c *Collector) Add(e ParseError) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.Severity == Fatal && c.fatal == nil {
		fatalCopy := e
		c.fatal = &fatalCopy
	}

	if c.mode == FailFast && e.Severity != Warning {
		c.errors = append(c.errors, e)
		return ErrShortCircuit
	}

	if e.Severity == Warning || c.capped < c.maxErrors {
		c.errors = append(c.errors, e)
		if e.Severity != Warning {
			c.capped++
		}
	}

	if e.Severity == Fatal && c.mode != BestEffort {
		return ErrShortCircuit
	}

	return nil
}

// Cancel marks the collector as cancelled (progress callback returned false).
func (c *Collector) Cancel() {
	c.mu.Lock()
	c.cancelled = true
	c.mu.Unlock()
}

// Cancelled reports whether Cancel was called.
func (c *Collector) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// HasErrors reports whether any error (of any severity) was recorded.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) > 0
}

// HasFatal reports whether a Fatal error was recorded.
func (c *Collector) HasFatal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fatal != nil
}

// Fatal returns the first recorded Fatal error, or nil.
func (c *Collector) Fatal() *ParseError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fatal
}

// Errors returns a copy of all recorded errors, in recording order.
func (c *Collector) Errors() []ParseError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ParseError, len(c.errors))
	copy(out, c.errors)
	return out
}

// Len reports the number of recorded errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// At returns the i-th recorded error.
func (c *Collector) At(i int) ParseError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[i]
}

// Summary produces a human-readable severity breakdown and the first k
// details with resolved line numbers, matching spec §7's default of 10.
func (c *Collector) Summary(k int) string {
	if k <= 0 {
		k = 10
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := map[Severity]int{}
	for _, e := range c.errors {
		counts[e.Severity]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d error(s): %d warning, %d recoverable, %d fatal\n",
		len(c.errors), counts[Warning], counts[Recoverable], counts[Fatal])

	n := len(c.errors)
	if n > k {
		n = k
	}
	for i := 0; i < n; i++ {
		e := c.errors[i]
		fmt.Fprintf(&b, "  [%s] %s\n", e.Severity, e.Error())
	}
	if len(c.errors) > k {
		fmt.Fprintf(&b, "  ... and %d more\n", len(c.errors)-k)
	}
	return b.String()
}

// SortByOffset orders a slice of errors by byte offset, stable for equal
// offsets. Used once before line/column resolution at report time.
func SortByOffset(errs []ParseError) {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Offset < errs[j].Offset })
}

// Snippet extracts up to 2*radius bytes around offset from buf (radius
// bytes before offset, the byte at offset, and radius-1 after it), escaping
// control characters, matching spec §3's "context_snippet" field.
func Snippet(buf []byte, offset int64, radius int) string {
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}
	start := offset - int64(radius)
	if start < 0 {
		start = 0
	}
	end := offset + int64(radius)
	if end > int64(len(buf)) {
		end = int64(len(buf))
	}
	if start > end {
		return ""
	}
	var b strings.Builder
	for _, c := range buf[start:end] {
		if c < 0x20 || c == 0x7f {
			fmt.Fprintf(&b, "\\x%02x", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ResolveLineColumn performs the lazy, on-demand (line,column) resolution
// spec §7 describes: a binary search over newlineOffsets, the ascending byte
// offsets of newlines, finds the nearest line start before offset; the
// column is the distance from it. Callers typically hand in the index's own
// row-terminator list.
func ResolveLineColumn(newlineOffsets []int64, offset int64) (line, col int) {
	// Number of newlines strictly before offset == 0-based line index.
	lo, hi := 0, len(newlineOffsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if newlineOffsets[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line = lo + 1
	lineStart := int64(0)
	if lo > 0 {
		lineStart = newlineOffsets[lo-1] + 1
	}
	col = int(offset-lineStart) + 1
	return line, col
}
