package datefn

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestJulianDayAnchors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   float64
	}{
		{"y2k", []string{"2000-01-01"}, 2451544.5},
		{"unix epoch", []string{"1970-01-01"}, 2440587.5},
		{"1910-04-20", []string{"1910-04-20"}, 2418781.5},
		{"noon", []string{"2000-01-01 12:00:00"}, 2451545.0},
		{"numeric day count", []string{"2451544.5"}, 2451544.5},
		{"numeric with julianday", []string{"2451544.5", "julianday"}, 2451544.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JulianDay(tt.tokens...)
			if err != nil {
				t.Fatalf("JulianDay(%v): %v", tt.tokens, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JulianDay(%v) = %v, want %v", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestJulianDayMalformed(t *testing.T) {
	_, err := JulianDay("abc")
	if !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("JulianDay(abc) error = %v, want ErrMalformedToken", err)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"plain", []string{"2024-03-10"}, "2024-03-10"},
		{"overflow normalizes forward", []string{"2023-02-31"}, "2023-03-03"},
		{"overflow floored", []string{"2023-02-31", "floor"}, "2023-02-28"},
		{"leap day kept", []string{"2024-02-29"}, "2024-02-29"},
		{"non-leap feb 29", []string{"2023-02-29"}, "2023-03-01"},
		{"ceiling is the default", []string{"2024-06-15", "ceiling"}, "2024-06-15"},
		{"weekday no-op on match", []string{"2024-01-01", "weekday 1"}, "2024-01-01"},
		{"weekday advances", []string{"2024-01-01", "weekday 3"}, "2024-01-03"},
		{"weekday sunday", []string{"2024-01-01", "weekday 0"}, "2024-01-07"},
		{"start of month", []string{"2024-06-15", "start of month"}, "2024-06-01"},
		{"start of year", []string{"2024-06-15", "start of year"}, "2024-01-01"},
		{"last day of month", []string{"2024-01-15", "start of month", "+1 month", "-1 day"}, "2024-01-31"},
		{"epoch seconds", []string{"946684800", "unixepoch"}, "2000-01-01"},
		{"auto picks epoch seconds", []string{"946684800", "auto"}, "2000-01-01"},
		{"auto keeps day count", []string{"2451544.5", "auto"}, "2000-01-01"},
		{"negative year", []string{"0000-01-01", "-10 years"}, "-0010-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.tokens...)
			if err != nil {
				t.Fatalf("Date(%v): %v", tt.tokens, err)
			}
			if got != tt.want {
				t.Errorf("Date(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"plain", []string{"2024-03-10 12:30:45"}, "2024-03-10 12:30:45"},
		{"t separator", []string{"2024-03-10T12:30:45"}, "2024-03-10 12:30:45"},
		{"bare time uses 2000-01-01", []string{"12:30:45"}, "2000-01-01 12:30:45"},
		{"subsec", []string{"2024-03-10 12:30:45.5", "subsec"}, "2024-03-10 12:30:45.500"},
		{"fraction truncated by default", []string{"2024-03-10 12:30:45.5"}, "2024-03-10 12:30:45"},
		{"plus hours", []string{"2024-01-01 00:00:00", "+1.5 hours"}, "2024-01-01 01:30:00"},
		{"minus clock delta", []string{"2024-05-01 10:00:00", "-01:30"}, "2024-05-01 08:30:00"},
		{"clock delta with seconds", []string{"2024-05-01 10:00:00", "+00:00:30.500", "subsec"}, "2024-05-01 10:00:30.500"},
		{"date delta forward", []string{"2000-01-01 00:00:00", "+0001-02-03 04:05"}, "2001-03-04 04:05:00"},
		{"date delta backward", []string{"2024-01-01 12:00:00", "-0001-02-03"}, "2022-10-29 12:00:00"},
		{"month end ceiling", []string{"2024-01-31 00:00:00", "+1 month"}, "2024-03-02 00:00:00"},
		{"month end floored", []string{"2024-01-31 00:00:00", "+1 month", "floor"}, "2024-02-29 00:00:00"},
		{"seconds delta", []string{"2024-01-01 00:00:00", "+90 seconds"}, "2024-01-01 00:01:30"},
		{"negative years delta", []string{"2024-02-29 06:00:00", "-3 years"}, "2021-03-01 06:00:00"},
		{"start of day", []string{"2024-03-10 18:45:12", "start of day"}, "2024-03-10 00:00:00"},
		{"timezone folded", []string{"2000-01-01 00:00:00+01:00"}, "1999-12-31 23:00:00"},
		{"zulu suffix", []string{"2000-01-01 00:00:00Z"}, "2000-01-01 00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DateTime(tt.tokens...)
			if err != nil {
				t.Fatalf("DateTime(%v): %v", tt.tokens, err)
			}
			if got != tt.want {
				t.Errorf("DateTime(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"plain", []string{"11:22:33"}, "11:22:33"},
		{"no seconds", []string{"11:22"}, "11:22:00"},
		{"subsec", []string{"11:22:33.25", "subsec"}, "11:22:33.250"},
		{"from datetime", []string{"2024-03-10 07:08:09"}, "07:08:09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Time(tt.tokens...)
			if err != nil {
				t.Fatalf("Time(%v): %v", tt.tokens, err)
			}
			if got != tt.want {
				t.Errorf("Time(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestUnixEpoch(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   int64
	}{
		{"epoch", []string{"1970-01-01"}, 0},
		{"y2k", []string{"2000-01-01"}, 946684800},
		{"pre-epoch", []string{"1969-12-31 23:59:59"}, -1},
		{"fraction floors before epoch", []string{"1969-12-31 23:59:59.5"}, -1},
		{"tz offset east", []string{"2000-01-01 00:00:00+01:00"}, 946681200},
		{"tz offset west", []string{"2000-01-01 00:00:00-05:30"}, 946704600},
		{"round trip through modifier", []string{"946684800", "unixepoch"}, 946684800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnixEpoch(tt.tokens...)
			if err != nil {
				t.Fatalf("UnixEpoch(%v): %v", tt.tokens, err)
			}
			if got != tt.want {
				t.Errorf("UnixEpoch(%v) = %d, want %d", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestModifierErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   error
	}{
		{"unknown modifier aborts", []string{"100", "foo", "auto"}, ErrUnknownModifier},
		{"auto after another modifier", []string{"946684800", "+1 day", "auto"}, ErrModifierOrder},
		{"unixepoch after another modifier", []string{"946684800", "subsec", "unixepoch"}, ErrModifierOrder},
		{"unixepoch on non-raw value", []string{"2024-01-01", "unixepoch"}, ErrUnknownModifier},
		{"julianday after another modifier", []string{"100", "+1 day", "julianday"}, ErrModifierOrder},
		{"unit amount too large", []string{"2000-01-01", "+20000 years"}, ErrRangeOverflow},
		{"unknown unit", []string{"2000-01-01", "+1 fortnight"}, ErrUnknownModifier},
		{"weekday out of range", []string{"2000-01-01", "weekday 7"}, ErrUnknownModifier},
		{"start of week is not a thing", []string{"2000-01-01", "start of week"}, ErrUnknownModifier},
		{"empty modifier", []string{"2000-01-01", ""}, ErrUnknownModifier},
		{"bad timezone digits", []string{"2000-01-01 00:00:00+1:00"}, ErrMalformedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Date(tt.tokens...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Date(%v) error = %v, want %v", tt.tokens, err, tt.want)
			}
		})
	}
}

func TestNowUsesInjectedClock(t *testing.T) {
	eng := New(WithClock(func() time.Time {
		return time.Unix(1700000000, 123000000).UTC()
	}))

	sec, err := eng.UnixEpoch("now")
	if err != nil {
		t.Fatalf("UnixEpoch(now): %v", err)
	}
	if sec != 1700000000 {
		t.Errorf("UnixEpoch(now) = %d, want 1700000000", sec)
	}

	got, err := eng.DateTime("now")
	if err != nil {
		t.Fatalf("DateTime(now): %v", err)
	}
	if want := "2023-11-14 22:13:20"; got != want {
		t.Errorf("DateTime(now) = %q, want %q", got, want)
	}

	got, err = eng.Time("now", "subsec")
	if err != nil {
		t.Fatalf("Time(now, subsec): %v", err)
	}
	if want := "22:13:20.123"; got != want {
		t.Errorf("Time(now, subsec) = %q, want %q", got, want)
	}
}

func TestNoTokensMeansNow(t *testing.T) {
	eng := New(WithClock(func() time.Time {
		return time.Unix(1700000000, 0).UTC()
	}))
	withToken, err := eng.DateTime("now")
	if err != nil {
		t.Fatalf("DateTime(now): %v", err)
	}
	without, err := eng.DateTime()
	if err != nil {
		t.Fatalf("DateTime(): %v", err)
	}
	if diff := cmp.Diff(withToken, without); diff != "" {
		t.Errorf("DateTime() mismatch (-now +empty):\n%s", diff)
	}
}

func TestLocaltimeAndUTC(t *testing.T) {
	eng := New(WithLocale(LocationLocale(time.FixedZone("UTC+2", 2*60*60))))

	got, err := eng.DateTime("2024-01-01 12:00:00", "localtime")
	if err != nil {
		t.Fatalf("localtime: %v", err)
	}
	if want := "2024-01-01 14:00:00"; got != want {
		t.Errorf("localtime = %q, want %q", got, want)
	}

	got, err = eng.DateTime("2024-01-01 14:00:00", "utc")
	if err != nil {
		t.Fatalf("utc: %v", err)
	}
	if want := "2024-01-01 12:00:00"; got != want {
		t.Errorf("utc = %q, want %q", got, want)
	}

	// localtime twice is a single conversion.
	got, err = eng.DateTime("2024-01-01 12:00:00", "localtime", "localtime")
	if err != nil {
		t.Fatalf("localtime twice: %v", err)
	}
	if want := "2024-01-01 14:00:00"; got != want {
		t.Errorf("localtime twice = %q, want %q", got, want)
	}
}

func TestNowIsAlreadyUTC(t *testing.T) {
	// The current instant is UTC-known, so a utc modifier must not shift it
	// by the locale offset.
	eng := New(
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }),
		WithLocale(LocationLocale(time.FixedZone("UTC+2", 2*60*60))),
	)
	plain, err := eng.UnixEpoch("now")
	if err != nil {
		t.Fatalf("UnixEpoch(now): %v", err)
	}
	viaUTC, err := eng.UnixEpoch("now", "utc")
	if err != nil {
		t.Fatalf("UnixEpoch(now, utc): %v", err)
	}
	if plain != 1700000000 || viaUTC != plain {
		t.Errorf("UnixEpoch(now) = %d, UnixEpoch(now, utc) = %d, want both 1700000000", plain, viaUTC)
	}
}

type failingLocale struct{}

func (failingLocale) Localtime(int64) (LocalFields, error) {
	return LocalFields{}, errors.New("tzdata missing")
}

func TestLocaltimeFailurePropagates(t *testing.T) {
	eng := New(WithLocale(failingLocale{}))
	_, err := eng.DateTime("2024-01-01 12:00:00", "localtime")
	if !errors.Is(err, ErrLocalTimeUnavailable) {
		t.Fatalf("error = %v, want ErrLocalTimeUnavailable", err)
	}
}

func TestRawNumberWithoutClassifierOutOfRange(t *testing.T) {
	// Outside the day-count window and never classified: the value stays
	// ambiguous and finalization rejects it.
	_, err := Date("99999999999")
	if !errors.Is(err, ErrRangeOverflow) {
		t.Fatalf("error = %v, want ErrRangeOverflow", err)
	}
}
