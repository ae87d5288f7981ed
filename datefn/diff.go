package datefn

import "fmt"

// renderOffsetMillis shifts a duration in milliseconds into the positive
// julian range so the day, hour, minute, and second components fall out of
// the ordinary calendar conversion.
const renderOffsetMillis = 148699540800000

// timeDiff computes the signed calendar difference between two instants,
// rendered as ±YYYY-MM-DD HH:MM:SS.SSS. The year and month components count
// whole calendar months between the instants; the remainder is exact clock
// time. Adding the result of timeDiff(a, b) to b yields a.
func (e *Engine) timeDiff(a, b string) (string, error) {
	var d1, d2 value
	if err := e.evalBase(a, &d1); err != nil {
		return "", err
	}
	if err := e.evalBase(b, &d2); err != nil {
		return "", err
	}
	d1.computeYMDHMS()
	d2.computeYMDHMS()

	// Align d2 with d1 by whole calendar months, then take the exact
	// remainder between the instants.
	var sign byte
	var Y, M int
	if d1.jd >= d2.jd {
		sign = '+'
		Y = d1.year - d2.year
		if Y != 0 {
			d2.year = d1.year
			d2.validJD = false
			d2.computeJD()
		}
		M = d1.month - d2.month
		if M < 0 {
			Y--
			M += 12
		}
		if M != 0 {
			d2.month = d1.month
			d2.validJD = false
			d2.computeJD()
		}
		// Back off whole months until the moved base no longer overshoots.
		for d1.jd < d2.jd {
			M--
			if M < 0 {
				M = 11
				Y--
			}
			d2.month--
			if d2.month < 1 {
				d2.month = 12
				d2.year--
			}
			d2.validJD = false
			d2.computeJD()
		}
		d1.jd -= d2.jd
		d1.jd += renderOffsetMillis
	} else {
		sign = '-'
		Y = d2.year - d1.year
		if Y != 0 {
			d2.year = d1.year
			d2.validJD = false
			d2.computeJD()
		}
		M = d2.month - d1.month
		if M < 0 {
			Y--
			M += 12
		}
		if M != 0 {
			d2.month = d1.month
			d2.validJD = false
			d2.computeJD()
		}
		for d1.jd > d2.jd {
			M--
			if M < 0 {
				M = 11
				Y--
			}
			d2.month++
			if d2.month > 12 {
				d2.month = 1
				d2.year++
			}
			d2.validJD = false
			d2.computeJD()
		}
		d1.jd = d2.jd - d1.jd
		d1.jd += renderOffsetMillis
	}
	d1.clearYMDHMSTZ()
	d1.computeYMDHMS()
	return fmt.Sprintf("%c%04d-%02d-%02d %02d:%02d:%06.3f",
		sign, Y, M, d1.day-1, d1.hour, d1.minute, d1.sec), nil
}
