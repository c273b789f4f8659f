// Package valueparse implements spec §4.I's value parsers: integer, double,
// date/time, boolean, and the NA recognizer. Every parser operates on a
// trimmed byte slice borrowed from the parse buffer; none of them allocate
// on the success path except where a string must be materialized.
package valueparse

import "bytes"

// NAConfig is the set of strings recognized as "not available", compared
// after optional whitespace trimming. An empty field (after trimming) is
// always NA regardless of this set.
type NAConfig struct {
	Strings []string
	Trim    bool
}

// DefaultNA matches the original's default na.strings = c("", "NA").
var DefaultNA = NAConfig{Strings: []string{"NA"}, Trim: true}

// IsNA reports whether field should be treated as a missing value.
func IsNA(field []byte, cfg NAConfig) bool {
	s := field
	if cfg.Trim {
		s = trimSpace(s)
	}
	if len(s) == 0 {
		return true
	}
	for _, na := range cfg.Strings {
		if string(s) == na {
			return true
		}
	}
	return false
}

func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// BoolConfig holds the configurable case-sensitive true/false string sets
// spec §4.I's boolean parser matches against.
type BoolConfig struct {
	True  []string
	False []string
}

// DefaultBool matches the common R-style literal set.
var DefaultBool = BoolConfig{
	True:  []string{"TRUE", "T", "true", "True"},
	False: []string{"FALSE", "F", "false", "False"},
}

// ParseBool matches field against cfg's true/false sets, falls back to the
// NA check, then reports invalid (spec §4.I "Boolean parser").
func ParseBool(field []byte, cfg BoolConfig, na NAConfig) (value bool, isNA bool, ok bool) {
	if IsNA(field, na) {
		return false, true, true
	}
	s := string(trimSpace(field))
	for _, t := range cfg.True {
		if s == t {
			return true, false, true
		}
	}
	for _, f := range cfg.False {
		if s == f {
			return false, false, true
		}
	}
	return false, false, false
}

// HasLeadingZero reports whether field begins with a '0' followed by
// another digit-or-more character that is not decimalMark, the leading-zero
// rejection spec §4.H attributes to locale config (grounded on the
// original's isNumber/isInteger/isDouble leading-zero guard).
func HasLeadingZero(field []byte, decimalMark byte) bool {
	if len(field) < 2 {
		return false
	}
	start := 0
	if field[0] == '+' || field[0] == '-' {
		start = 1
	}
	if start+1 >= len(field) {
		return false
	}
	return field[start] == '0' && field[start+1] != decimalMark
}

// StripGrouping removes every occurrence of groupingMark, the original's
// approach to locale-aware thousands separators (e.g. "1,234.5" with
// groupingMark=',' becomes "1234.5" before the decimal-mark-aware parse).
func StripGrouping(field []byte, groupingMark byte) []byte {
	if groupingMark == 0 {
		return field
	}
	if bytes.IndexByte(field, groupingMark) < 0 {
		return field
	}
	out := make([]byte, 0, len(field))
	for _, b := range field {
		if b == groupingMark {
			continue
		}
		out = append(out, b)
	}
	return out
}
