package datefn

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// modifierKind enumerates the modifier families a token can belong to.
type modifierKind int

const (
	modUnknown modifierKind = iota
	modAuto
	modCeiling
	modFloor
	modJulianDay
	modLocaltime
	modUnixEpoch
	modUTC
	modWeekday
	modStartOfDay
	modStartOfMonth
	modStartOfYear
	modSubsec
	modDelta
)

// classifyModifier maps a token to its kind. Names are matched exactly;
// anything starting with a sign or digit is routed to the delta grammar and
// validated there.
func classifyModifier(z string) modifierKind {
	switch z {
	case "auto":
		return modAuto
	case "ceiling":
		return modCeiling
	case "floor":
		return modFloor
	case "julianday":
		return modJulianDay
	case "localtime":
		return modLocaltime
	case "unixepoch":
		return modUnixEpoch
	case "utc":
		return modUTC
	case "start of day":
		return modStartOfDay
	case "start of month":
		return modStartOfMonth
	case "start of year":
		return modStartOfYear
	case "subsec", "subsecond":
		return modSubsec
	}
	if strings.HasPrefix(z, "weekday ") {
		return modWeekday
	}
	if len(z) > 0 && (z[0] == '+' || z[0] == '-' || isDigit(z[0])) {
		return modDelta
	}
	return modUnknown
}

// unitXform describes one delta unit: the magnitude limit of the amount and
// the unit's length in milliseconds. Month and year amounts get calendar
// handling for their integer part; the fixed lengths below (30-day month,
// 365-day year) then only scale the fractional remainder.
type unitXform struct {
	limit    float64
	scaleMS  int64
	calendar bool
}

var unitXforms = map[string]unitXform{
	"second": {4.6427e14, 1000, false},
	"minute": {7.7379e12, 60000, false},
	"hour":   {1.2897e11, 3600000, false},
	"day":    {5373485.0, 86400000, false},
	"month":  {176546.0, 2592000000, true},
	"year":   {14713.0, 31536000000, true},
}

// autoAdjust classifies a raw numeric token: values that already landed in
// the julian day range keep their day-count interpretation; otherwise the
// number is reinterpreted as seconds since the Unix epoch when it lies in
// the representable window. Out-of-window numbers stay ambiguous and fail
// during finalization.
func (v *value) autoAdjust() {
	if !v.rawNum || v.validJD {
		v.rawNum = false
		return
	}
	if v.sec >= -210866760000 && v.sec <= 253402300799 {
		v.installEpochSeconds()
	}
}

// installEpochSeconds reinterprets the raw numeric token as seconds since
// 1970-01-01 and installs the corresponding instant. It reports whether the
// result is representable.
func (v *value) installEpochSeconds() bool {
	ms, err := decimalToMillis(v.raw, 1000)
	if err != nil || ms < -unixEpochMillis || ms >= maxJulianMillis+1-unixEpochMillis {
		return false
	}
	v.clearYMDHMSTZ()
	v.jd = ms + unixEpochMillis
	v.validJD = true
	v.rawNum = false
	return true
}

// applyModifier applies one modifier token to the value. idx is the token's
// 1-based position in the call's token list; auto, julianday, and unixepoch
// are only legal at position 1.
func (e *Engine) applyModifier(v *value, z string, idx int) error {
	switch classifyModifier(z) {
	case modAuto:
		// Resolve the day-count vs epoch-seconds ambiguity of a raw numeric
		// base token by magnitude.
		if idx > 1 {
			return fmt.Errorf("%w: %q", ErrModifierOrder, z)
		}
		v.autoAdjust()
		return nil

	case modCeiling:
		// Resolve day-of-month overflow by rolling forward into the next
		// month. This is the default behavior, so the modifier only
		// discards the recorded overflow. See floor.
		v.computeJD()
		v.clearYMDHMSTZ()
		v.floorDays = 0
		return nil

	case modFloor:
		// Resolve day-of-month overflow by rolling back to the end of the
		// intended month.
		v.computeJD()
		v.jd -= int64(v.floorDays) * msPerDay
		v.clearYMDHMSTZ()
		return nil

	case modJulianDay:
		// Force the day-count interpretation of the raw numeric base token.
		if idx > 1 {
			return fmt.Errorf("%w: %q", ErrModifierOrder, z)
		}
		if v.validJD && v.rawNum {
			v.rawNum = false
			return nil
		}

	case modLocaltime:
		// Shift a UTC value to local wall-clock fields.
		if !v.isLocal {
			if err := e.toLocaltime(v); err != nil {
				return err
			}
		}
		v.isUTC = false
		v.isLocal = true
		return nil

	case modUnixEpoch:
		// Reinterpret the raw numeric base token as seconds since 1970.
		if v.rawNum {
			if idx > 1 {
				return fmt.Errorf("%w: %q", ErrModifierOrder, z)
			}
			if !v.installEpochSeconds() {
				return fmt.Errorf("%w: %q", ErrRangeOverflow, z)
			}
			return nil
		}

	case modUTC:
		// Find the UTC instant whose local rendering matches the current
		// fields, refining the guess by the observed error.
		if !v.isUTC {
			v.computeJD()
			orig := v.jd
			guess := orig
			var diff int64
			for cnt := 0; ; cnt++ {
				guess -= diff
				probe := value{jd: guess, validJD: true}
				if err := e.toLocaltime(&probe); err != nil {
					return err
				}
				probe.computeJD()
				diff = probe.jd - orig
				if diff == 0 || cnt >= 3 {
					break
				}
			}
			*v = value{jd: guess, validJD: true, isUTC: true}
		}
		return nil

	case modWeekday:
		// weekday N: advance to the next occurrence of weekday N
		// (0=Sunday), keeping the time of day. Already being on N is a
		// no-op.
		arg := strings.TrimLeft(z[8:], " \t\n\v\f\r")
		r, err := strconv.ParseFloat(arg, 64)
		if err == nil && r >= 0.0 && r < 7.0 && r == math.Trunc(r) {
			n := int64(r)
			v.computeYMDHMS()
			v.tz = 0
			v.validJD = false
			v.computeJD()
			dow := (v.jd + msPerHalfDay + msPerDay) / msPerDay % 7
			if dow > n {
				dow -= 7
			}
			v.jd += (n - dow) * msPerDay
			v.clearYMDHMSTZ()
			return nil
		}

	case modStartOfDay, modStartOfMonth, modStartOfYear:
		if !v.validJD && !v.validYMD && !v.validHMS {
			break
		}
		v.computeYMD()
		v.validHMS = true
		v.hour = 0
		v.minute = 0
		v.sec = 0
		v.rawNum = false
		v.tz = 0
		v.validJD = false
		switch classifyModifier(z) {
		case modStartOfMonth:
			v.day = 1
		case modStartOfYear:
			v.month = 1
			v.day = 1
		}
		return nil

	case modSubsec:
		// Show subsecond precision on output.
		v.useSubsec = true
		return nil

	case modDelta:
		return e.applyDelta(v, z)
	}
	return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
}

// numericPrefix returns the leading signed decimal literal of s, or ok=false
// if s does not start with one.
func numericPrefix(s string) (string, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return "", false
	}
	return s[:i], true
}

// applyDelta handles the three numeric modifier families:
//
//	(+|-)YYYY-MM-DD[ HH:MM[:SS[.FFF]]]   calendar delta
//	(+|-)HH:MM[:SS[.FFF]]                time-of-day delta
//	[+|-]NNN[.FFFF] <unit>               unit delta
//
// The calendar delta adds years and months on the calendar fields (with
// carry normalization) and the day component directly on the instant so it
// can cross month boundaries freely.
func (e *Engine) applyDelta(v *value, z string) error {
	n := 1
	for ; n < len(z); n++ {
		if z[n] == ':' || isSpace(z[n]) {
			break
		}
		if z[n] == '-' {
			var Y int
			if n == 5 && getDigits(z[1:], "40f", &Y) == 1 {
				break
			}
			if n == 6 && getDigits(z[1:], "50f", &Y) == 1 {
				break
			}
		}
	}
	num, ok := numericPrefix(z)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
	}

	z2 := z
	if n < len(z) && z[n] == '-' {
		if z[0] != '+' && z[0] != '-' {
			return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
		}
		var Y, M, D int
		zz := z
		if n == 5 {
			if getDigits(z[1:], "40f-20a-20d", &Y, &M, &D) != 3 {
				return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
			}
		} else {
			if getDigits(z[1:], "50f-20a-20d", &Y, &M, &D) != 3 {
				return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
			}
			zz = z[1:]
		}
		if M >= 12 || D >= 31 {
			return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
		}
		v.computeYMDHMS()
		v.validJD = false
		if z[0] == '-' {
			v.year -= Y
			v.month -= M
			D = -D
		} else {
			v.year += Y
			v.month += M
		}
		v.carryMonths()
		v.computeFloor()
		v.computeJD()
		v.validHMS = false
		v.validYMD = false
		v.jd += int64(D) * msPerDay
		if len(zz) == 11 {
			return nil
		}
		// Optional chained time component.
		var hh, mm int
		if len(zz) >= 12 && isSpace(zz[11]) && getDigits(zz[12:], "20c:20e", &hh, &mm) == 2 {
			z2 = zz[12:]
			n = 2
		} else {
			return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
		}
	}

	if n < len(z2) && z2[n] == ':' {
		s2 := z2
		if !isDigit(s2[0]) {
			s2 = s2[1:]
		}
		var tx value
		if !parseHhMmSs(s2, &tx) {
			return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
		}
		tx.computeJD()
		tx.jd -= msPerHalfDay
		day := tx.jd / msPerDay
		tx.jd -= day * msPerDay
		if z[0] == '-' {
			tx.jd = -tx.jd
		}
		v.computeJD()
		v.clearYMDHMSTZ()
		v.jd += tx.jd
		return nil
	}

	// NNN <unit>
	i := n
	for i < len(z) && isSpace(z[i]) {
		i++
	}
	name := z[i:]
	if len(name) < 3 || len(name) > 10 {
		return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
	}
	if last := name[len(name)-1]; last == 's' || last == 'S' {
		name = name[:len(name)-1]
	}
	xf, found := unitXforms[name]
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
	}
	r, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
	}
	if !(r > -xf.limit && r < xf.limit) {
		return fmt.Errorf("%w: %q", ErrRangeOverflow, z)
	}
	amount, ok := parseDecimal(num)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModifier, z)
	}
	v.computeJD()
	v.floorDays = 0
	if xf.calendar {
		var integ, frac apd.Decimal
		amount.Modf(&integ, &frac)
		whole, err := integ.Int64()
		if err != nil {
			return fmt.Errorf("%w: %q", ErrRangeOverflow, z)
		}
		v.computeYMDHMS()
		if name == "month" {
			v.month += int(whole)
			v.carryMonths()
		} else {
			v.year += int(whole)
		}
		v.computeFloor()
		v.validJD = false
		amount = &frac
	}
	v.computeJD()
	ms, err := decimalToMillis(amount, xf.scaleMS)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrRangeOverflow, z)
	}
	v.jd += ms
	v.clearYMDHMSTZ()
	return nil
}

// carryMonths normalizes the month field into [1,12], carrying whole years.
func (v *value) carryMonths() {
	var x int
	if v.month > 0 {
		x = (v.month - 1) / 12
	} else {
		x = (v.month - 12) / 12
	}
	v.year += x
	v.month -= x * 12
}
