package valueparse

import "math"

// maxMantissaDigits is the number of digits, integer and fraction parts
// together, accumulated into the mantissa; further integer-part digits
// merely bump the exponent and further fraction digits are dropped (spec §4.I
// "up to 19 mantissa digits; further digits increment exponent without
// affecting value").
const maxMantissaDigits = 19

// maxExponentMagnitude caps the exponent spec §4.I describes ("caps
// exponent magnitude at 400 and consumes remaining exponent digits").
const maxExponentMagnitude = 400

// pow10Table covers |exponent| <= 22, the range spec §4.I calls out for an
// exact lookup rather than library math.Pow (every power of ten up to 1e22
// is exactly representable in a float64).
var pow10Table = [23]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
	1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

func pow10(exp int) float64 {
	if exp >= 0 && exp <= 22 {
		return pow10Table[exp]
	}
	return 1 / pow10Table[-exp]
}

// pow10LadderTable holds 10^(2^i) for i in [0,8]: binary powers of ten used
// to build any magnitude up to maxExponentMagnitude by repeated squaring.
// Grounded on original_source/vroom_dbl.cc's bsd_strtod ("powersOf10"),
// itself a Tcl/RetroBSD strtod derivative: "process the exponent one bit
// at a time to combine many powers of 2 of 10" rather than a single
// math.Pow(10, exp) call, which loses precision fast once |exp| grows past
// the exact-lookup range above (spec §8 S6's
// `3.141592653589793e-10`, whose decomposed exponent is -25, is exactly
// the kind of case a single math.Pow(10, -25) rounds one ULP away from).
var pow10LadderTable = [9]float64{1e1, 1e2, 1e4, 1e8, 1e16, 1e32, 1e64, 1e128, 1e256}

// pow10Ladder computes 10^mag (mag >= 0) by combining pow10LadderTable
// entries selected by mag's binary representation, the same bit-at-a-time
// technique bsd_strtod uses.
func pow10Ladder(mag int) float64 {
	result := 1.0
	for i := 0; mag != 0; i++ {
		if mag&1 != 0 {
			result *= pow10LadderTable[i]
		}
		mag >>= 1
	}
	return result
}

// DoubleConfig carries the locale-sensitive marks spec §3's Extraction
// config names.
type DoubleConfig struct {
	DecimalMark  byte
	GroupingMark byte
}

// DefaultDouble is the plain '.' decimal, no grouping mark, locale.
var DefaultDouble = DoubleConfig{DecimalMark: '.'}

// ParseFloat64 implements spec §4.I's double parser: special values (nan,
// inf, infinity, case-insensitive, with sign), sign, integer part, optional
// fraction, optional exponent, computed as mantissa * pow10(exponent).
func ParseFloat64(field []byte, cfg DoubleConfig, na NAConfig) (value float64, isNA bool, ok bool) {
	if IsNA(field, na) {
		return 0, true, true
	}
	s := trimSpace(field)
	if cfg.GroupingMark != 0 {
		s = StripGrouping(s, cfg.GroupingMark)
	}
	v, ok := parseDouble(s, cfg.DecimalMark)
	return v, false, ok
}

func parseDouble(s []byte, decimalMark byte) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	pos := 0
	neg := false
	if s[pos] == '-' {
		neg = true
		pos++
	} else if s[pos] == '+' {
		pos++
	}
	if v, ok := matchSpecial(s[pos:]); ok {
		if neg {
			v = -v
		}
		return v, true
	}
	if pos >= len(s) {
		return 0, false
	}

	var mantissa float64
	exponent := 0
	digits := 0
	sawDigit := false

	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		sawDigit = true
		if digits < maxMantissaDigits {
			mantissa = mantissa*10 + float64(s[pos]-'0')
			digits++
		} else {
			exponent++
		}
		pos++
	}

	if pos < len(s) && s[pos] == decimalMark {
		pos++
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			sawDigit = true
			if digits < maxMantissaDigits {
				mantissa = mantissa*10 + float64(s[pos]-'0')
				digits++
				exponent--
			}
			pos++
		}
	}

	if !sawDigit {
		return 0, false
	}

	if pos < len(s) && (s[pos] == 'e' || s[pos] == 'E') {
		pos++
		expSign := 1
		if pos < len(s) && (s[pos] == '+' || s[pos] == '-') {
			if s[pos] == '-' {
				expSign = -1
			}
			pos++
		}
		if pos >= len(s) || s[pos] < '0' || s[pos] > '9' {
			return 0, false
		}
		expVal := 0
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			if expVal < maxExponentMagnitude*10 {
				expVal = expVal*10 + int(s[pos]-'0')
			}
			pos++
		}
		exponent += expSign * expVal
	}

	if pos != len(s) {
		return 0, false
	}

	if exponent > maxExponentMagnitude {
		exponent = maxExponentMagnitude
	} else if exponent < -maxExponentMagnitude {
		exponent = -maxExponentMagnitude
	}

	var result float64
	switch {
	case exponent >= -22 && exponent <= 22:
		result = mantissa * pow10(exponent)
	case exponent < 0:
		// Dividing by the positive ladder value, rather than multiplying by
		// its precomputed reciprocal, avoids a second rounding step (matches
		// bsd_strtod's "fraction /= dblExp").
		result = mantissa / pow10Ladder(-exponent)
	default:
		result = mantissa * pow10Ladder(exponent)
	}
	if neg {
		result = -result
	}
	return result, true
}

func matchSpecial(s []byte) (float64, bool) {
	switch {
	case equalFold(s, "nan"):
		return math.NaN(), true
	case equalFold(s, "inf"), equalFold(s, "infinity"):
		return math.Inf(1), true
	}
	return 0, false
}

func equalFold(s []byte, want string) bool {
	if len(s) != len(want) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != want[i] {
			return false
		}
	}
	return true
}

// CanParseDouble reports whether field parses cleanly as a double under
// the leading-zero rule spec §4.H's type guesser applies (a leading zero
// is only legal when immediately followed by the decimal mark).
func CanParseDouble(field []byte, cfg DoubleConfig) bool {
	s := trimSpace(field)
	if len(s) == 0 {
		return false
	}
	if HasLeadingZero(s, cfg.DecimalMark) {
		return false
	}
	_, ok := parseDouble(s, cfg.DecimalMark)
	return ok
}

// CanParseNumber is the locale-aware "general number" predicate (spec
// §4.H), identical to CanParseDouble but without the leading-zero
// restriction — it is the loosest numeric predicate in the chain.
func CanParseNumber(field []byte, cfg DoubleConfig) bool {
	s := trimSpace(field)
	if len(s) == 0 {
		return false
	}
	_, ok := parseDouble(s, cfg.DecimalMark)
	return ok
}
