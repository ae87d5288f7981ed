package datefn

import (
	"fmt"
	"strconv"
	"strings"
)

// renderDate formats the calendar fields as YYYY-MM-DD. Negative years are
// rendered with a leading minus and the year magnitude zero-padded to four
// digits.
func renderDate(v *value) string {
	y := v.year
	if y < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -y, v.month, v.day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, v.month, v.day)
}

// renderTime formats the clock fields as HH:MM:SS, with millisecond
// precision when subsecond output was requested.
func renderTime(v *value) string {
	if v.useSubsec {
		ms := int(1000.0*v.sec + 0.5)
		return fmt.Sprintf("%02d:%02d:%02d.%03d", v.hour, v.minute, ms/1000, ms%1000)
	}
	return fmt.Sprintf("%02d:%02d:%02d", v.hour, v.minute, int(v.sec))
}

// strftime renders the value using a format string with %-directives. The
// supported directive set and its output match the engine's fixed-layout
// renderers; an unrecognized directive fails the whole call.
func (e *Engine) strftime(format string, v *value) (string, error) {
	v.computeJD()
	v.computeYMDHMS()
	if v.invalid || !validJulianMillis(v.jd) {
		return "", fmt.Errorf("%w: value out of range", ErrRangeOverflow)
	}
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])
			continue
		}
		i++
		if i == len(format) {
			return "", fmt.Errorf("%w: trailing %%", ErrBadFormatDirective)
		}
		cf := format[i]
		switch cf {
		case 'd':
			fmt.Fprintf(&b, "%02d", v.day)
		case 'e':
			fmt.Fprintf(&b, "%2d", v.day)
		case 'f':
			s := v.sec
			if s > 59.999 {
				s = 59.999
			}
			fmt.Fprintf(&b, "%06.3f", s)
		case 'F':
			fmt.Fprintf(&b, "%04d-%02d-%02d", v.year, v.month, v.day)
		case 'g', 'G', 'V':
			// ISO 8601 week-based fields are anchored on the Thursday of
			// the current week.
			y := *v
			y.jd += int64(3-daysAfterMonday(v)) * msPerDay
			y.validYMD = false
			y.computeYMD()
			switch cf {
			case 'g':
				fmt.Fprintf(&b, "%02d", y.year%100)
			case 'G':
				fmt.Fprintf(&b, "%04d", y.year)
			default:
				fmt.Fprintf(&b, "%02d", daysAfterJan01(&y)/7+1)
			}
		case 'H':
			fmt.Fprintf(&b, "%02d", v.hour)
		case 'k':
			fmt.Fprintf(&b, "%2d", v.hour)
		case 'I', 'l':
			h := v.hour
			if h > 12 {
				h -= 12
			}
			if h == 0 {
				h = 12
			}
			if cf == 'I' {
				fmt.Fprintf(&b, "%02d", h)
			} else {
				fmt.Fprintf(&b, "%2d", h)
			}
		case 'j':
			fmt.Fprintf(&b, "%03d", daysAfterJan01(v)+1)
		case 'J':
			b.WriteString(strconv.FormatFloat(float64(v.jd)/float64(msPerDay), 'g', 16, 64))
		case 'm':
			fmt.Fprintf(&b, "%02d", v.month)
		case 'M':
			fmt.Fprintf(&b, "%02d", v.minute)
		case 'p', 'P':
			m := "AM"
			if v.hour >= 12 {
				m = "PM"
			}
			if cf == 'P' {
				m = strings.ToLower(m)
			}
			b.WriteString(m)
		case 'R':
			fmt.Fprintf(&b, "%02d:%02d", v.hour, v.minute)
		case 's':
			if v.useSubsec {
				fmt.Fprintf(&b, "%.3f", float64(v.jd-unixEpochMillis)/1000.0)
			} else {
				b.WriteString(strconv.FormatInt(v.jd/1000-unixEpochSeconds, 10))
			}
		case 'S':
			fmt.Fprintf(&b, "%02d", int(v.sec))
		case 'T':
			fmt.Fprintf(&b, "%02d:%02d:%02d", v.hour, v.minute, int(v.sec))
		case 'u', 'w':
			dow := daysAfterSunday(v)
			if cf == 'u' && dow == 0 {
				dow = 7
			}
			b.WriteByte(byte('0' + dow))
		case 'U':
			fmt.Fprintf(&b, "%02d", (daysAfterJan01(v)-daysAfterSunday(v)+7)/7)
		case 'W':
			fmt.Fprintf(&b, "%02d", (daysAfterJan01(v)-daysAfterMonday(v)+7)/7)
		case 'Y':
			fmt.Fprintf(&b, "%04d", v.year)
		case '%':
			b.WriteByte('%')
		default:
			return "", fmt.Errorf("%w: %%%c", ErrBadFormatDirective, cf)
		}
	}
	return b.String(), nil
}
