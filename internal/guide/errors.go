package guide

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a terminal decoding outcome.
type ErrorKind int

const (
	// KindInvalidLength: the payload is not exactly 44 ASCII digits.
	KindInvalidLength ErrorKind = iota + 1

	// KindInvalidCurrency: the currency/reference code is outside the set
	// recognized by the selected codec.
	KindInvalidCurrency

	// KindInvalidCheckDigit: a transfer guide carries the barcode check
	// digit 0, which is never issued.
	KindInvalidCheckDigit
)

// Sentinels for errors.Is matching against *Error values.
var (
	ErrInvalidLength     = errors.New("invalid code length")
	ErrInvalidCurrency   = errors.New("invalid currency code")
	ErrInvalidCheckDigit = errors.New("invalid check digit")
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidLength:
		return "invalid_length"
	case KindInvalidCurrency:
		return "invalid_currency"
	case KindInvalidCheckDigit:
		return "invalid_check_digit"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidLength:
		return ErrInvalidLength
	case KindInvalidCurrency:
		return ErrInvalidCurrency
	case KindInvalidCheckDigit:
		return ErrInvalidCheckDigit
	}
	return nil
}

// Error is a classification outcome carrying the offending field and value.
// It is returned as a value and is never retryable: the same input always
// yields the same Error.
type Error struct {
	Kind  ErrorKind
	Field string
	Value string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidLength:
		return fmt.Sprintf("%v: %s has %d characters, want %d digits", ErrInvalidLength, e.Field, len(e.Value), CodeLength)
	case KindInvalidCurrency:
		return fmt.Sprintf("%v %s", ErrInvalidCurrency, e.Value)
	case KindInvalidCheckDigit:
		return fmt.Sprintf("%v %s", ErrInvalidCheckDigit, e.Value)
	}
	return fmt.Sprintf("%s: %s=%q", e.Kind, e.Field, e.Value)
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
