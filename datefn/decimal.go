package datefn

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// millisContext has enough precision for any in-range amount scaled to
// milliseconds, and rounds ties away from zero like the original engine's
// value*scale+0.5 arithmetic.
func millisContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(50)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}

// decimalToMillis converts d, expressed in units of scale milliseconds, to a
// whole millisecond count, rounding half away from zero.
func decimalToMillis(d *apd.Decimal, scale int64) (int64, error) {
	ctx := millisContext()
	var ms, rounded apd.Decimal
	if _, err := ctx.Mul(&ms, d, apd.New(scale, 0)); err != nil {
		return 0, err
	}
	if _, err := ctx.Quantize(&rounded, &ms, 0); err != nil {
		return 0, err
	}
	return rounded.Int64()
}

// parseDecimal parses s as a finite decimal number, rejecting the special
// forms (NaN, infinities) that apd would otherwise accept.
func parseDecimal(s string) (*apd.Decimal, bool) {
	if strings.HasSuffix(s, ".") {
		s = s[:len(s)-1]
	}
	d, _, err := apd.NewFromString(s)
	if err != nil || d.Form != apd.Finite {
		return nil, false
	}
	return d, true
}
