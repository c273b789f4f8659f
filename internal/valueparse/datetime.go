package valueparse

import "fmt"

// DateTime is the parsed result of the date/time parser, grounded on the
// original's DateTime/DateTimeParser split: calendar fields plus an
// optional time-of-day and timezone offset, kept apart from time.Time so
// that the parser never has to guess an IANA zone for a bare numeric
// offset (spec §4.I "Timezone offset is stored in minutes").
type DateTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Nanosecond           int
	HasDate              bool
	HasTime              bool
	HasOffset            bool
	OffsetMinutes        int
}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func daysIn(year, month int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return daysInMonth[month]
}

// ValidDate reports whether the calendar fields form a real date,
// including leap-year handling for February (spec §4.I "Validation checks
// calendar ranges including leap years").
func (d DateTime) ValidDate() bool {
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	if d.Day < 1 || d.Day > daysIn(d.Year, d.Month) {
		return false
	}
	return true
}

// ValidTime reports whether the time-of-day fields are in range.
func (d DateTime) ValidTime() bool {
	if d.Hour < 0 || d.Hour > 23 {
		return false
	}
	if d.Minute < 0 || d.Minute > 59 {
		return false
	}
	if d.Second < 0 || d.Second > 60 { // 60 permits a leap second
		return false
	}
	return true
}

// digitsN consumes exactly n decimal digits from s starting at pos, or
// reports failure (grounded on the original's consumeInteger(n, &field)).
func digitsN(s []byte, pos, n int) (value, newPos int, ok bool) {
	if pos+n > len(s) {
		return 0, pos, false
	}
	v := 0
	for i := 0; i < n; i++ {
		c := s[pos+i]
		if c < '0' || c > '9' {
			return 0, pos, false
		}
		v = v*10 + int(c-'0')
	}
	return v, pos + n, true
}

// ParseISO8601 parses `YYYY-MM-DD` and
// `YYYY-MM-DDThh:mm:ss[.frac][Z|+hh[:mm]|-hh[:mm]]` (spec §4.I), or the
// compact `YYYYMMDD` form (the SUPPLEMENTED FEATURES compact-date addition
// grounded on the original's hour_/min_/sec_ state fields).
func ParseISO8601(field []byte) (DateTime, bool) {
	s := trimSpace(field)
	if len(s) == 8 && allDigits(s) {
		return parseCompactDate(s)
	}

	var dt DateTime
	pos := 0

	year, pos, ok := digitsN(s, pos, 4)
	if !ok {
		return DateTime{}, false
	}
	if pos >= len(s) || s[pos] != '-' {
		return DateTime{}, false
	}
	pos++
	month, pos, ok := digitsN(s, pos, 2)
	if !ok {
		return DateTime{}, false
	}
	if pos >= len(s) || s[pos] != '-' {
		return DateTime{}, false
	}
	pos++
	day, pos, ok := digitsN(s, pos, 2)
	if !ok {
		return DateTime{}, false
	}
	dt.Year, dt.Month, dt.Day = year, month, day
	dt.HasDate = true

	if pos == len(s) {
		if !dt.ValidDate() {
			return DateTime{}, false
		}
		return dt, true
	}

	if s[pos] != 'T' && s[pos] != ' ' {
		return DateTime{}, false
	}
	pos++

	hour, pos, ok := digitsN(s, pos, 2)
	if !ok {
		return DateTime{}, false
	}
	dt.Hour = hour
	dt.HasTime = true
	if pos < len(s) && s[pos] == ':' {
		pos++
		minute, newPos, ok := digitsN(s, pos, 2)
		if ok {
			dt.Minute = minute
			pos = newPos
		}
	}
	if pos < len(s) && s[pos] == ':' {
		pos++
		sec, newPos, ok := digitsN(s, pos, 2)
		if ok {
			dt.Second = sec
			pos = newPos
		}
		if pos < len(s) && s[pos] == '.' {
			pos++
			fracStart := pos
			for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
				pos++
			}
			dt.Nanosecond = fracToNanos(s[fracStart:pos])
		}
	}

	if pos < len(s) {
		switch s[pos] {
		case 'Z':
			pos++
			dt.HasOffset = true
			dt.OffsetMinutes = 0
		case '+', '-':
			sign := 1
			if s[pos] == '-' {
				sign = -1
			}
			pos++
			offH, newPos, ok := digitsN(s, pos, 2)
			if !ok {
				return DateTime{}, false
			}
			pos = newPos
			offM := 0
			if pos < len(s) && s[pos] == ':' {
				pos++
			}
			if m, newPos2, ok2 := digitsN(s, pos, 2); ok2 {
				offM = m
				pos = newPos2
			}
			dt.HasOffset = true
			dt.OffsetMinutes = sign * (offH*60 + offM)
		}
	}

	if pos != len(s) {
		return DateTime{}, false
	}
	if !dt.ValidDate() || !dt.ValidTime() {
		return DateTime{}, false
	}
	return dt, true
}

func parseCompactDate(s []byte) (DateTime, bool) {
	year, pos, ok := digitsN(s, 0, 4)
	if !ok {
		return DateTime{}, false
	}
	month, pos, ok := digitsN(s, pos, 2)
	if !ok {
		return DateTime{}, false
	}
	day, _, ok := digitsN(s, pos, 2)
	if !ok {
		return DateTime{}, false
	}
	dt := DateTime{Year: year, Month: month, Day: day, HasDate: true}
	if !dt.ValidDate() {
		return DateTime{}, false
	}
	return dt, true
}

// ParseTimeOnly parses a bare `hh:mm:ss[.frac]` field (the SUPPLEMENTED
// FEATURES time-only addition), used when a column's guessed type is
// `time` rather than `date` or `datetime`.
func ParseTimeOnly(field []byte) (DateTime, bool) {
	s := trimSpace(field)
	pos := 0
	hour, pos, ok := digitsN(s, pos, 2)
	if !ok || pos >= len(s) || s[pos] != ':' {
		return DateTime{}, false
	}
	pos++
	minute, pos, ok := digitsN(s, pos, 2)
	if !ok {
		return DateTime{}, false
	}
	dt := DateTime{Hour: hour, Minute: minute, HasTime: true}
	if pos < len(s) && s[pos] == ':' {
		pos++
		sec, newPos, ok := digitsN(s, pos, 2)
		if ok {
			dt.Second = sec
			pos = newPos
		}
		if pos < len(s) && s[pos] == '.' {
			pos++
			fracStart := pos
			for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
				pos++
			}
			dt.Nanosecond = fracToNanos(s[fracStart:pos])
		}
	}
	if pos != len(s) {
		return DateTime{}, false
	}
	if !dt.ValidTime() {
		return DateTime{}, false
	}
	return dt, true
}

func fracToNanos(digits []byte) int {
	if len(digits) == 0 {
		return 0
	}
	if len(digits) > 9 {
		digits = digits[:9]
	}
	v := 0
	for _, c := range digits {
		v = v*10 + int(c-'0')
	}
	for i := len(digits); i < 9; i++ {
		v *= 10
	}
	return v
}

func allDigits(s []byte) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (d DateTime) String() string {
	if d.HasDate && d.HasTime {
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
	}
	if d.HasDate {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
}

// CanParseDate reports whether field is a date-only ISO-8601 value.
func CanParseDate(field []byte) bool {
	dt, ok := ParseISO8601(field)
	return ok && dt.HasDate && !dt.HasTime
}

// CanParseDateTime reports whether field carries both a date and a time
// component.
func CanParseDateTime(field []byte) bool {
	dt, ok := ParseISO8601(field)
	return ok && dt.HasDate && dt.HasTime
}

// CanParseTime reports whether field is a bare time-of-day value.
func CanParseTime(field []byte) bool {
	_, ok := ParseTimeOnly(field)
	return ok
}
