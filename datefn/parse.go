package datefn

import "fmt"

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

// fieldMax decodes the third character of a digit-field spec into the
// field's maximum value.
var fieldMax = [6]int{12, 14, 24, 31, 59, 14712}

// getDigits converts s into integers according to spec. Each field of spec
// is four characters (the last has three): digit count, minimum value,
// maximum value code ('a'..'f', indexing fieldMax), and the separator that
// must follow, absent on the final field. It returns the number of fields
// successfully converted.
//
// Example: "40f-21a-21d" reads an ISO date, a 4-digit year followed by '-',
// a 2-digit month in [1,12] followed by '-', and a 2-digit day in [1,31].
func getDigits(s string, spec string, out ...*int) int {
	cnt := 0
	pos := 0
	for i := 0; i < len(spec); i += 4 {
		n := int(spec[i] - '0')
		min := int(spec[i+1] - '0')
		max := fieldMax[spec[i+2]-'a']
		var sep byte
		if i+3 < len(spec) {
			sep = spec[i+3]
		}
		val := 0
		for ; n > 0; n-- {
			if pos >= len(s) || !isDigit(s[pos]) {
				return cnt
			}
			val = val*10 + int(s[pos]-'0')
			pos++
		}
		if val < min || val > max {
			return cnt
		}
		if sep != 0 && (pos >= len(s) || s[pos] != sep) {
			return cnt
		}
		*out[cnt] = val
		pos++
		cnt++
		if sep == 0 {
			break
		}
	}
	return cnt
}

// parseTimezone parses an optional timezone suffix: leading whitespace, then
// either Z/z or (+|-)HH:MM, then trailing whitespace only. A missing suffix
// is not an error. It reports whether the parse succeeded.
func parseTimezone(s string, v *value) bool {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	v.tz = 0
	if i >= len(s) {
		return true
	}
	switch s[i] {
	case '-', '+':
		sgn := 1
		if s[i] == '-' {
			sgn = -1
		}
		i++
		var hr, mn int
		if getDigits(s[i:], "20b:20e", &hr, &mn) != 2 {
			return false
		}
		i += 5
		v.tz = sgn * (mn + hr*60)
	case 'Z', 'z':
		i++
		v.isLocal = false
		v.isUTC = true
	default:
		return false
	}
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i == len(s)
}

// parseHhMmSs parses HH:MM, HH:MM:SS, or HH:MM:SS.FFFF with an optional
// timezone suffix. HH, MM, and SS must each be exactly two digits; the
// fractional part may have any number of digits.
func parseHhMmSs(s string, v *value) bool {
	var h, m, sec int
	if getDigits(s, "20c:20e", &h, &m) != 2 {
		return false
	}
	pos := 5
	ms := 0.0
	if pos < len(s) && s[pos] == ':' {
		pos++
		if getDigits(s[pos:], "20e", &sec) != 1 {
			return false
		}
		pos += 2
		if pos+1 < len(s) && s[pos] == '.' && isDigit(s[pos+1]) {
			pos++
			scale := 1.0
			for pos < len(s) && isDigit(s[pos]) {
				ms = ms*10.0 + float64(s[pos]-'0')
				scale *= 10.0
				pos++
			}
			ms /= scale
		}
	} else {
		sec = 0
	}
	v.validJD = false
	v.rawNum = false
	v.validHMS = true
	v.hour = h
	v.minute = m
	v.sec = float64(sec) + ms
	return parseTimezone(s[pos:], v)
}

// parseYyyyMmDd parses [-]YYYY-MM-DD with an optional trailing time-of-day
// separated by whitespace or 'T'. A leading '-' marks a BCE year. A pending
// timezone forces the instant to be computed immediately (folding the local
// fields to UTC).
func parseYyyyMmDd(s string, v *value) bool {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
		neg = true
	}
	var Y, M, D int
	if getDigits(s, "40f-21a-21d", &Y, &M, &D) != 3 {
		return false
	}
	pos := 10
	for pos < len(s) && (isSpace(s[pos]) || s[pos] == 'T') {
		pos++
	}
	if parseHhMmSs(s[pos:], v) {
		// time-of-day parsed
	} else if pos == len(s) {
		v.validHMS = false
	} else {
		return false
	}
	v.validJD = false
	v.validYMD = true
	if neg {
		v.year = -Y
	} else {
		v.year = Y
	}
	v.month = M
	v.day = D
	v.computeFloor()
	if v.tz != 0 {
		v.computeJD()
	}
	return true
}

// isNumericLiteral reports whether s is a bare unsigned numeric literal:
// a leading digit followed by digits with at most one decimal point.
func isNumericLiteral(s string) bool {
	if len(s) == 0 || !isDigit(s[0]) {
		return false
	}
	dots := 0
	for i := 1; i < len(s); i++ {
		if s[i] == '.' {
			dots++
			if dots > 1 {
				return false
			}
		} else if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// parseDateOrTime parses the base token of a call. Recognized forms, tried
// in order: an ISO-like date with optional time, a bare time-of-day, the
// literal "now", a decimal number (classified later as day count or epoch
// seconds), and "subsec"/"subsecond" (now, with subsecond display).
func (e *Engine) parseDateOrTime(s string, v *value) error {
	if parseYyyyMmDd(s, v) {
		return nil
	}
	if parseHhMmSs(s, v) {
		return nil
	}
	if s == "now" {
		return e.setToCurrent(v)
	}
	if isNumericLiteral(s) {
		if d, ok := parseDecimal(s); ok {
			v.setRawNumber(d)
			return nil
		}
	}
	if s == "subsec" || s == "subsecond" {
		v.useSubsec = true
		return e.setToCurrent(v)
	}
	return fmt.Errorf("%w: %q", ErrMalformedToken, s)
}
