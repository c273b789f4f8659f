// Package statemachine implements the branchless 6-state x 5-class CSV
// transition table spec §4.E describes, with a per-byte scalar step. No
// other package in this module calls it: the indexer relies on the block
// kernels' AND-NOT masking (see internal/simd) and does not run this table
// over any byte, so its error transitions are not reported during indexing.
package statemachine

import "github.com/vroomgo/vroom/internal/vrerrors"

// State is one of the six parser states.
type State uint8

const (
	RecordStart State = iota
	FieldStart
	UnquotedField
	QuotedField
	QuotedEnd
	Escaped
	numStates
)

func (s State) String() string {
	switch s {
	case RecordStart:
		return "RecordStart"
	case FieldStart:
		return "FieldStart"
	case UnquotedField:
		return "UnquotedField"
	case QuotedField:
		return "QuotedField"
	case QuotedEnd:
		return "QuotedEnd"
	case Escaped:
		return "Escaped"
	default:
		return "Unknown"
	}
}

// Class is one of the five character classes the table dispatches on.
// Escape is only meaningful when the dialect uses escape-character mode
// (double_quote == false); in RFC-4180 mode no byte is ever classified
// Escape.
type Class uint8

const (
	Delimiter Class = iota
	Quote
	Newline
	Other
	Escape
	numClasses
)

// Transition is one packed entry of the 6x5 table: the next state, whether
// this transition is an error (and which code/severity), and whether it
// emits a field separator.
type Transition struct {
	Next           State
	EmitsSeparator bool
	ErrorCode      vrerrors.Code
	ErrorSeverity  vrerrors.Severity
}

// Table is the flat 6x5 transition table, indexed [state][class].
var Table [numStates][numClasses]Transition

func init() {
	// Default: every unspecified transition stays in place and is not an
	// error; explicit entries below override the handful of behaviors
	// spec §4.E calls out.
	for s := State(0); s < numStates; s++ {
		for c := Class(0); c < numClasses; c++ {
			Table[s][c] = Transition{Next: s}
		}
	}

	// RecordStart: any byte begins FieldStart's content, re-dispatched as if
	// FieldStart saw the same byte (a record boundary carries no content of
	// its own).
	Table[RecordStart][Delimiter] = Transition{Next: FieldStart, EmitsSeparator: true}
	Table[RecordStart][Quote] = Transition{Next: QuotedField}
	Table[RecordStart][Newline] = Transition{Next: RecordStart, EmitsSeparator: true}
	Table[RecordStart][Other] = Transition{Next: UnquotedField}
	Table[RecordStart][Escape] = Transition{Next: UnquotedField}

	// FieldStart: first byte of a field.
	Table[FieldStart][Delimiter] = Transition{Next: FieldStart, EmitsSeparator: true}
	Table[FieldStart][Quote] = Transition{Next: QuotedField}
	Table[FieldStart][Newline] = Transition{Next: RecordStart, EmitsSeparator: true}
	Table[FieldStart][Other] = Transition{Next: UnquotedField}
	Table[FieldStart][Escape] = Transition{Next: UnquotedField}

	// UnquotedField: ordinary content.
	Table[UnquotedField][Delimiter] = Transition{Next: FieldStart, EmitsSeparator: true}
	Table[UnquotedField][Quote] = Transition{
		Next:          UnquotedField,
		ErrorCode:     vrerrors.QuoteInUnquotedField,
		ErrorSeverity: vrerrors.Recoverable,
	}
	Table[UnquotedField][Newline] = Transition{Next: RecordStart, EmitsSeparator: true}
	Table[UnquotedField][Other] = Transition{Next: UnquotedField}
	Table[UnquotedField][Escape] = Transition{Next: UnquotedField}

	// QuotedField: inside quotes, everything is content until a quote byte.
	Table[QuotedField][Delimiter] = Transition{Next: QuotedField}
	Table[QuotedField][Quote] = Transition{Next: QuotedEnd}
	Table[QuotedField][Newline] = Transition{Next: QuotedField}
	Table[QuotedField][Other] = Transition{Next: QuotedField}
	Table[QuotedField][Escape] = Transition{Next: Escaped}

	// QuotedEnd: just saw a quote while inside a quoted field.
	Table[QuotedEnd][Delimiter] = Transition{Next: FieldStart, EmitsSeparator: true}
	Table[QuotedEnd][Quote] = Transition{Next: QuotedField} // doubled-quote escape
	Table[QuotedEnd][Newline] = Transition{Next: RecordStart, EmitsSeparator: true}
	Table[QuotedEnd][Other] = Transition{
		Next:          UnquotedField,
		ErrorCode:     vrerrors.InvalidQuoteEscape,
		ErrorSeverity: vrerrors.Recoverable,
	}
	Table[QuotedEnd][Escape] = Transition{Next: QuotedField}

	// Escaped: the escaped byte is literal content, regardless of class.
	for c := Class(0); c < numClasses; c++ {
		Table[Escaped][c] = Transition{Next: QuotedField}
	}
}

// Step applies the table to (state, class) and reports the transition.
func Step(s State, c Class) Transition {
	return Table[s][c]
}

// ClassOf classifies a single byte under dialect (delim, quote, escape),
// honoring double-quote mode (escape byte is never classified Escape when
// doubleQuote is true).
func ClassOf(b byte, delim, quote, escape byte, doubleQuote bool) Class {
	switch {
	case b == delim:
		return Delimiter
	case b == quote:
		return Quote
	case b == '\n':
		return Newline
	case !doubleQuote && b == escape:
		return Escape
	default:
		return Other
	}
}
