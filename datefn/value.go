package datefn

import (
	"github.com/cockroachdb/apd/v3"
)

const (
	msPerDay     = 86400000
	msPerHalfDay = 43200000

	// maxJulianMillis is the largest representable instant,
	// 9999-12-31 23:59:59.999 as milliseconds since the julian day epoch.
	maxJulianMillis = 464269060799999

	// unixEpochMillis is 1970-01-01T00:00:00Z (julian day 2440587.5)
	// expressed in milliseconds since the julian day epoch.
	unixEpochMillis = 210866760000000

	// unixEpochSeconds is unixEpochMillis scaled to seconds.
	unixEpochSeconds = 210866760000
)

// value holds an instant in up to three equivalent representations: the
// millisecond day counter jd, Gregorian calendar fields, and wall-clock
// fields. The valid* flags track which representations currently hold
// freshly computed data; deriving one representation from another never
// touches the others' validity.
type value struct {
	jd     int64 // milliseconds since the julian day epoch
	year   int
	month  int
	day    int
	hour   int
	minute int
	sec    float64 // seconds with fraction; the raw token value while rawNum is set
	tz     int     // pending timezone shift in minutes, not yet folded into jd

	raw *apd.Decimal // exact form of a raw numeric token, nil otherwise

	validJD  bool
	validYMD bool
	validHMS bool

	rawNum    bool // sec/raw hold a numeric token not yet classified
	invalid   bool // unrecoverable overflow or derivation failure
	useSubsec bool // render subsecond precision
	isUTC     bool
	isLocal   bool

	// floorDays is the number of days by which the calendar day overflowed
	// its month, retained so the "floor" modifier can undo the overflow.
	floorDays int
}

func validJulianMillis(jd int64) bool {
	return jd >= 0 && jd <= maxJulianMillis
}

// setError puts the value into its terminal error state.
func (v *value) setError() {
	*v = value{invalid: true}
}

func (v *value) clearYMDHMSTZ() {
	v.validYMD = false
	v.validHMS = false
	v.tz = 0
}

// computeJD derives the millisecond day counter from the calendar and clock
// fields using the standard proleptic-Gregorian formula (January and
// February are shifted into the preceding year, then the century correction
// is applied). A pending timezone shift is folded in here, converting the
// local fields to UTC.
func (v *value) computeJD() {
	if v.validJD {
		return
	}
	Y, M, D := 2000, 1, 1
	if v.validYMD {
		Y, M, D = v.year, v.month, v.day
	}
	if Y < -4713 || Y > 9999 || v.rawNum {
		v.setError()
		return
	}
	if M <= 2 {
		Y--
		M += 12
	}
	A := (Y + 4800) / 100
	B := 38 - A + A/4
	X1 := 36525 * (Y + 4716) / 100
	X2 := 306001 * (M + 1) / 10000
	v.jd = int64((float64(X1+X2+D+B) - 1524.5) * msPerDay)
	v.validJD = true
	if v.validHMS {
		v.jd += int64(v.hour)*3600000 + int64(v.minute)*60000 + int64(v.sec*1000+0.5)
		if v.tz != 0 {
			v.jd -= int64(v.tz) * 60000
			v.validYMD = false
			v.validHMS = false
			v.tz = 0
			v.isUTC = true
			v.isLocal = false
		}
	}
}

// computeYMD derives the calendar fields from the day counter via the
// inverse Gregorian algorithm.
func (v *value) computeYMD() {
	if v.validYMD {
		return
	}
	if !v.validJD {
		v.year, v.month, v.day = 2000, 1, 1
	} else if !validJulianMillis(v.jd) {
		v.setError()
		return
	} else {
		Z := int((v.jd + msPerHalfDay) / msPerDay)
		alpha := int((float64(Z)+32044.75)/36524.25) - 52
		A := Z + 1 + alpha - (alpha+100)/4 + 25
		B := A + 1524
		C := int((float64(B) - 122.1) / 365.25)
		D := 36525 * (C & 32767) / 100
		E := int(float64(B-D) / 30.6001)
		X1 := int(30.6001 * float64(E))
		v.day = B - D - X1
		if E < 14 {
			v.month = E - 1
		} else {
			v.month = E - 13
		}
		if v.month > 2 {
			v.year = C - 4716
		} else {
			v.year = C - 4715
		}
	}
	v.validYMD = true
}

// computeHMS derives the clock fields from the day counter. Day boundaries
// fall at .5 julian days, hence the half-day shift.
func (v *value) computeHMS() {
	if v.validHMS {
		return
	}
	v.computeJD()
	dayMS := int((v.jd + msPerHalfDay) % msPerDay)
	v.sec = float64(dayMS%60000) / 1000.0
	dayMin := dayMS / 60000
	v.minute = dayMin % 60
	v.hour = dayMin / 60
	v.rawNum = false
	v.validHMS = true
}

func (v *value) computeYMDHMS() {
	v.computeYMD()
	v.computeHMS()
}

// computeFloor records how far the current day-of-month overflows its month
// so a later "floor" modifier can roll the date back. Bit i of 0x15aa is set
// for 31-day months, which cannot overflow.
func (v *value) computeFloor() {
	switch {
	case v.day <= 28:
		v.floorDays = 0
	case (1<<v.month)&0x15aa != 0:
		v.floorDays = 0
	case v.month != 2:
		if v.day == 31 {
			v.floorDays = 1
		} else {
			v.floorDays = 0
		}
	case v.year%4 != 0 || (v.year%100 == 0 && v.year%400 != 0):
		v.floorDays = v.day - 28
	default:
		v.floorDays = v.day - 29
	}
}

// setRawNumber installs an unclassified numeric token. Values inside the
// julian day range are provisionally treated as a day count; the auto,
// julianday, and unixepoch modifiers may reinterpret them.
func (v *value) setRawNumber(d *apd.Decimal) {
	v.sec, _ = d.Float64()
	v.raw = d
	v.rawNum = true
	if v.sec >= 0.0 && v.sec < 5373484.5 {
		jd, err := decimalToMillis(d, msPerDay)
		if err != nil {
			v.setError()
			return
		}
		v.jd = jd
		v.validJD = true
	}
}

// daysAfterJan01 returns the zero-based day number within the value's year.
// The caller must have resolved the calendar, clock, and day-counter
// representations.
func daysAfterJan01(v *value) int {
	jan01 := *v
	jan01.validJD = false
	jan01.month = 1
	jan01.day = 1
	jan01.computeJD()
	return int((v.jd - jan01.jd + msPerHalfDay) / msPerDay)
}

// daysAfterMonday returns the day of the week with 0=Monday .. 6=Sunday.
func daysAfterMonday(v *value) int {
	return int((v.jd+msPerHalfDay)/msPerDay) % 7
}

// daysAfterSunday returns the day of the week with 0=Sunday .. 6=Saturday.
func daysAfterSunday(v *value) int {
	return int((v.jd+msPerHalfDay+msPerDay)/msPerDay) % 7
}
