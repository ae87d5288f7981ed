package datefn

import (
	"fmt"
	"time"
)

// LocalFields are the wall-clock fields of an instant in some local
// timezone, as reported by a Locale.
type LocalFields struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Locale converts an absolute instant to local wall-clock fields. It is the
// one service the engine cannot provide itself: the mapping is owned by the
// host's timezone database. Implementations backed by a non-reentrant OS
// facility must serialize their own calls; the engine invokes the Locale
// synchronously and never concurrently for a single value.
type Locale interface {
	// Localtime converts seconds since the Unix epoch to local wall-clock
	// fields.
	Localtime(unixSeconds int64) (LocalFields, error)
}

// SystemLocale returns a Locale backed by the process's local timezone as
// resolved by the host timezone database.
func SystemLocale() Locale {
	return locationLocale{time.Local}
}

// LocationLocale returns a Locale for a fixed *time.Location. It is mainly
// useful for tests and for embedders that manage zones themselves.
func LocationLocale(loc *time.Location) Locale {
	return locationLocale{loc}
}

type locationLocale struct {
	loc *time.Location
}

func (l locationLocale) Localtime(unixSeconds int64) (LocalFields, error) {
	if l.loc == nil {
		return LocalFields{}, fmt.Errorf("no location configured")
	}
	t := time.Unix(unixSeconds, 0).In(l.loc)
	return LocalFields{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}, nil
}

// toLocaltime replaces the value's calendar and clock fields with their
// local-time equivalents, preserving the millisecond fraction. The day
// counter is invalidated: the value now means "these local fields".
func (e *Engine) toLocaltime(v *value) error {
	v.computeJD()
	fields, err := e.locale.Localtime(v.jd/1000 - unixEpochSeconds)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLocalTimeUnavailable, err)
	}
	v.year = fields.Year
	v.month = fields.Month
	v.day = fields.Day
	v.hour = fields.Hour
	v.minute = fields.Minute
	v.sec = float64(fields.Second) + float64(v.jd%1000)*0.001
	v.validYMD = true
	v.validHMS = true
	v.validJD = false
	v.rawNum = false
	v.tz = 0
	v.invalid = false
	return nil
}
