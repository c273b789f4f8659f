// Package typeguess implements spec §4.H's type guesser: given a sample of
// field values from one column, infer the strictest type every non-NA
// sample satisfies, walking an ordered predicate chain from strictest to
// loosest exactly as the original's guess_type__ does.
package typeguess

import (
	"github.com/vroomgo/vroom/internal/valueparse"
)

// Type is the inferred column type, ordered strictest-first to match the
// predicate chain's evaluation order.
type Type int

const (
	Unknown Type = iota
	Logical
	Integer
	Double
	Number
	Time
	Date
	DateTime
	String
)

func (t Type) String() string {
	switch t {
	case Logical:
		return "logical"
	case Integer:
		return "integer"
	case Double:
		return "double"
	case Number:
		return "number"
	case Time:
		return "time"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Options configures the guesser: locale marks, true/false string sets, NA
// strings, whether integer is offered as a distinct candidate ahead of
// double (spec's `guess_integer` flag), and the confidence thresholds for
// early termination (spec §4.H paragraph 2).
type Options struct {
	Bool         valueparse.BoolConfig
	Double       valueparse.DoubleConfig
	NA           valueparse.NAConfig
	GuessInteger bool
	Threshold    float64 // fraction of samples that must satisfy a predicate
	MinSamples   int     // minimum samples required before confidence applies
}

// DefaultOptions matches the original's default locale and a threshold
// that requires unanimous agreement once min_samples is reached, mirroring
// canParse's "true for every non-NA sample" semantics.
var DefaultOptions = Options{
	Bool:         valueparse.DefaultBool,
	Double:       valueparse.DefaultDouble,
	NA:           valueparse.DefaultNA,
	GuessInteger: true,
	Threshold:    1.0,
	MinSamples:   1,
}

type predicate struct {
	typ  Type
	test func(field []byte, opts Options) bool
}

func chain(opts Options) []predicate {
	p := []predicate{
		{Logical, isLogical},
	}
	if opts.GuessInteger {
		p = append(p, predicate{Integer, isInteger})
	}
	p = append(p,
		predicate{Double, isDouble},
		predicate{Number, isNumber},
		predicate{Time, isTime},
		predicate{Date, isDate},
		predicate{DateTime, isDateTime},
	)
	return p
}

func isLogical(field []byte, opts Options) bool {
	_, isNA, ok := valueparse.ParseBool(field, opts.Bool, opts.NA)
	return ok && !isNA
}

func isInteger(field []byte, opts Options) bool {
	return valueparse.CanParseInt(field)
}

func isDouble(field []byte, opts Options) bool {
	return valueparse.CanParseDouble(field, opts.Double)
}

func isNumber(field []byte, opts Options) bool {
	return valueparse.CanParseNumber(field, opts.Double)
}

func isTime(field []byte, opts Options) bool {
	return valueparse.CanParseTime(field)
}

func isDate(field []byte, opts Options) bool {
	return valueparse.CanParseDate(field)
}

func isDateTime(field []byte, opts Options) bool {
	return valueparse.CanParseDateTime(field)
}

// Sample holds one field value considered during guessing. NA samples are
// skipped by every predicate (spec §4.H "every sampled non-NA value").
type Sample struct {
	Field []byte
}

// Guess walks the predicate chain strictest-first and returns the
// strictest type every non-NA sample satisfies, with confidence-based
// early termination once Options.Threshold of at least Options.MinSamples
// samples agree on one predicate (spec §4.H paragraph 2). An all-NA or
// empty sample set guesses Logical, matching the original's allMissing
// short-circuit.
func Guess(samples []Sample, opts Options) Type {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultOptions.Threshold
	}
	if opts.MinSamples <= 0 {
		opts.MinSamples = DefaultOptions.MinSamples
	}

	nonNA := make([][]byte, 0, len(samples))
	for _, s := range samples {
		if valueparse.IsNA(s.Field, opts.NA) {
			continue
		}
		nonNA = append(nonNA, s.Field)
	}
	if len(nonNA) == 0 {
		return Logical
	}

	for _, p := range chain(opts) {
		matched := 0
		for _, f := range nonNA {
			if p.test(f, opts) {
				matched++
			}
		}
		if matched == len(nonNA) {
			return p.typ
		}
		if len(nonNA) >= opts.MinSamples && float64(matched)/float64(len(nonNA)) >= opts.Threshold {
			return p.typ
		}
	}
	return String
}

// Stride computes spec §4.H's sampling step: `step = num_rows / guess_max`,
// clamped to at least 1 so every row is visited when num_rows <= guess_max.
func Stride(numRows int64, guessMax int) int64 {
	if guessMax <= 0 {
		return 1
	}
	step := numRows / int64(guessMax)
	if step < 1 {
		return 1
	}
	return step
}
