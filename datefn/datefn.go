// Package datefn is a date and time value engine modeled on julian day
// arithmetic. Every instant is an int64 count of milliseconds since noon in
// Greenwich on -4713-11-24 (the julian day number epoch), which sidesteps
// the year ranges, leap rules, and epoch choices of platform time APIs.
//
// Each operation takes an ordered token list: the first token is the base
// value ("now", an ISO-8601 date or time, or a number), and every further
// token is a modifier that transforms the value in sequence:
//
//	out, err := datefn.Date("2024-01-15", "start of month", "+1 month", "-1 day")
//	// out == "2024-01-31"
//
// Results are rendered through fixed layouts (Date, Time, DateTime), as
// numbers (JulianDay, UnixEpoch), through strftime-style format strings
// (Strftime), or as calendar differences (TimeDiff).
package datefn

import (
	"fmt"
	"time"
)

// Engine evaluates date/time token lists. Its only external inputs are a
// clock and a Locale; both are injectable, so an Engine with a fixed clock
// and locale is a pure function of its token lists.
//
// An Engine is immutable after New and safe for concurrent use as long as
// its Locale is.
type Engine struct {
	clock  func() time.Time
	locale Locale
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the source of the current instant used by "now".
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLocale replaces the local-time bridge used by the localtime and utc
// modifiers.
func WithLocale(locale Locale) Option {
	return func(e *Engine) { e.locale = locale }
}

// New returns an Engine reading the system clock and the process's local
// timezone, unless overridden by options.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  time.Now,
		locale: SystemLocale(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// setToCurrent installs the clock's current instant at millisecond
// precision. The result is a known-UTC instant.
func (e *Engine) setToCurrent(v *value) error {
	ms := e.clock().UnixMilli()
	v.jd = ms + unixEpochMillis
	v.validJD = true
	v.isUTC = true
	v.isLocal = false
	v.clearYMDHMSTZ()
	return nil
}

// finalize forces the instant and validates it. tokenCount is the number of
// input tokens.
func finalize(v *value, tokenCount int) error {
	v.computeJD()
	if v.invalid || !validJulianMillis(v.jd) {
		return fmt.Errorf("%w: result not representable", ErrRangeOverflow)
	}
	if tokenCount == 1 && v.validYMD && v.day > 28 {
		// A bare YYYY-MM-DD may name a nonexistent day (Feb 31). Dropping
		// the cached calendar fields makes rendering re-derive them from
		// the instant, normalizing into the next month.
		v.validYMD = false
	}
	return nil
}

// eval parses the base token, folds the modifiers into the value in order,
// and finalizes. An empty token list means "now".
func (e *Engine) eval(tokens []string) (*value, error) {
	var v value
	if len(tokens) == 0 {
		if err := e.setToCurrent(&v); err != nil {
			return nil, err
		}
	} else {
		if err := e.parseDateOrTime(tokens[0], &v); err != nil {
			return nil, err
		}
		for i := 1; i < len(tokens); i++ {
			if err := e.applyModifier(&v, tokens[i], i); err != nil {
				return nil, err
			}
		}
	}
	if err := finalize(&v, len(tokens)); err != nil {
		return nil, err
	}
	return &v, nil
}

// evalBase evaluates a single base token with no modifiers into v.
func (e *Engine) evalBase(token string, v *value) error {
	if err := e.parseDateOrTime(token, v); err != nil {
		return err
	}
	return finalize(v, 1)
}

// Date renders the token list as YYYY-MM-DD.
func (e *Engine) Date(tokens ...string) (string, error) {
	v, err := e.eval(tokens)
	if err != nil {
		return "", err
	}
	v.computeYMD()
	return renderDate(v), nil
}

// Time renders the token list as HH:MM:SS, or HH:MM:SS.SSS after a subsec
// modifier.
func (e *Engine) Time(tokens ...string) (string, error) {
	v, err := e.eval(tokens)
	if err != nil {
		return "", err
	}
	v.computeHMS()
	return renderTime(v), nil
}

// DateTime renders the token list as YYYY-MM-DD HH:MM:SS, or with
// millisecond seconds after a subsec modifier.
func (e *Engine) DateTime(tokens ...string) (string, error) {
	v, err := e.eval(tokens)
	if err != nil {
		return "", err
	}
	v.computeYMDHMS()
	return renderDate(v) + " " + renderTime(v), nil
}

// JulianDay returns the token list's value as a fractional day count since
// the julian day number epoch.
func (e *Engine) JulianDay(tokens ...string) (float64, error) {
	v, err := e.eval(tokens)
	if err != nil {
		return 0, err
	}
	return float64(v.jd) / float64(msPerDay), nil
}

// UnixEpoch returns the token list's value as whole seconds since
// 1970-01-01T00:00:00Z.
func (e *Engine) UnixEpoch(tokens ...string) (int64, error) {
	v, err := e.eval(tokens)
	if err != nil {
		return 0, err
	}
	// jd is non-negative, so this division floors: fractional seconds
	// before the epoch still land on the earlier whole second.
	return v.jd/1000 - unixEpochSeconds, nil
}

// Strftime renders the token list using the %-directive format string. At
// least one date/time token is required.
func (e *Engine) Strftime(format string, tokens ...string) (string, error) {
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: missing date/time value", ErrMalformedToken)
	}
	v, err := e.eval(tokens)
	if err != nil {
		return "", err
	}
	return e.strftime(format, v)
}

// TimeDiff returns the signed calendar difference between two base tokens,
// see the timeDiff documentation for the encoding.
func (e *Engine) TimeDiff(a, b string) (string, error) {
	return e.timeDiff(a, b)
}

var defaultEngine = New()

// Date renders tokens as YYYY-MM-DD using the default engine.
func Date(tokens ...string) (string, error) { return defaultEngine.Date(tokens...) }

// Time renders tokens as HH:MM:SS using the default engine.
func Time(tokens ...string) (string, error) { return defaultEngine.Time(tokens...) }

// DateTime renders tokens as YYYY-MM-DD HH:MM:SS using the default engine.
func DateTime(tokens ...string) (string, error) { return defaultEngine.DateTime(tokens...) }

// JulianDay returns tokens as a day count using the default engine.
func JulianDay(tokens ...string) (float64, error) { return defaultEngine.JulianDay(tokens...) }

// UnixEpoch returns tokens as epoch seconds using the default engine.
func UnixEpoch(tokens ...string) (int64, error) { return defaultEngine.UnixEpoch(tokens...) }

// Strftime renders tokens through a format string using the default engine.
func Strftime(format string, tokens ...string) (string, error) {
	return defaultEngine.Strftime(format, tokens...)
}

// TimeDiff returns the calendar difference of two base tokens using the
// default engine.
func TimeDiff(a, b string) (string, error) { return defaultEngine.TimeDiff(a, b) }
