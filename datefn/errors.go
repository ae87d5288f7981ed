package datefn

import "errors"

// Errors reported by the engine. All of them are terminal for the call that
// produced them: no partial result is returned alongside.
var (
	// ErrMalformedToken is returned when the base token matches none of the
	// recognized date/time grammars.
	ErrMalformedToken = errors.New("malformed date/time token")

	// ErrUnknownModifier is returned when a modifier token matches no known
	// transformation.
	ErrUnknownModifier = errors.New("unknown modifier")

	// ErrModifierOrder is returned when an order-restricted modifier (auto,
	// julianday, unixepoch) appears after the first modifier position.
	ErrModifierOrder = errors.New("modifier not allowed at this position")

	// ErrRangeOverflow is returned when the resulting year or instant falls
	// outside the representable range.
	ErrRangeOverflow = errors.New("date/time value out of range")

	// ErrLocalTimeUnavailable is returned when the host local-time facility
	// fails.
	ErrLocalTimeUnavailable = errors.New("localtime unavailable")

	// ErrBadFormatDirective is returned by Strftime for an unrecognized %
	// conversion.
	ErrBadFormatDirective = errors.New("unrecognized format directive")
)
