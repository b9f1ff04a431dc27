package guide

import (
	"errors"
	"fmt"
)

// Type tags the outcome of decoding a payload.
type Type int

const (
	// TypeUnrecognized: the payload is not a 44-digit code and is handed
	// back verbatim.
	TypeUnrecognized Type = iota
	TypeCollectionGuide
	TypeTransferGuide
	TypeInvalidCurrency
	TypeInvalidCheckDigit
)

func (t Type) String() string {
	switch t {
	case TypeUnrecognized:
		return "unrecognized"
	case TypeCollectionGuide:
		return "collection_guide"
	case TypeTransferGuide:
		return "transfer_guide"
	case TypeInvalidCurrency:
		return "invalid_currency"
	case TypeInvalidCheckDigit:
		return "invalid_check_digit"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Result is the externally visible outcome of decoding one payload.
// Exactly one of Collection, Transfer or Err is set for 44-digit codes;
// none is set for unrecognized payloads.
type Result struct {
	Type    Type
	Payload string

	Collection *Collection
	Transfer   *Transfer
	Err        *Error
}

// OK reports whether the payload decoded into a renderable guide.
func (r Result) OK() bool {
	return r.Type == TypeCollectionGuide || r.Type == TypeTransferGuide
}

// Decode classifies payload and runs the matching codec.
//
// Payloads of exactly 44 digits go to the collection codec when they start
// with '8' and to the transfer codec otherwise. Any other payload comes back
// as TypeUnrecognized.
func Decode(payload string) Result {
	code, err := NewRawCode(payload)
	if err != nil {
		return Result{Type: TypeUnrecognized, Payload: payload}
	}
	return DecodeCode(code)
}

// DecodeCode runs the codec selected by the code's leading digit.
func DecodeCode(code RawCode) Result {
	res := Result{Payload: string(code)}

	if code.IsCollectionGuide() {
		c, err := NewCollection(code)
		if err != nil {
			return withError(res, err)
		}
		res.Type = TypeCollectionGuide
		res.Collection = c
		return res
	}

	t, err := NewTransfer(code)
	if err != nil {
		return withError(res, err)
	}
	res.Type = TypeTransferGuide
	res.Transfer = t
	return res
}

func withError(res Result, err error) Result {
	var derr *Error
	if !errors.As(err, &derr) {
		// Layout failures cannot happen for a validated RawCode.
		panic(fmt.Sprintf("guide: decode %s: %v", res.Payload, err))
	}

	res.Err = derr
	switch derr.Kind {
	case KindInvalidCurrency:
		res.Type = TypeInvalidCurrency
	case KindInvalidCheckDigit:
		res.Type = TypeInvalidCheckDigit
	default:
		res.Type = TypeUnrecognized
	}
	return res
}
