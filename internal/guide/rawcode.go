package guide

import "github.com/ginjaninja78/boleto-line-reader/internal/layout"

// CodeLength is the number of digits of a payment barcode.
const CodeLength = layout.CodeLength

// collectionProduct is the leading digit that identifies collection guides.
const collectionProduct = '8'

// RawCode is a validated 44-digit payment barcode.
type RawCode string

// NewRawCode validates s and returns it as a RawCode.
//
// Anything other than exactly 44 ASCII digits is rejected with a
// KindInvalidLength error; nothing is partially parsed.
func NewRawCode(s string) (RawCode, error) {
	if !isDigits(s, CodeLength) {
		return "", &Error{Kind: KindInvalidLength, Field: "code", Value: s}
	}
	return RawCode(s), nil
}

// IsCollectionGuide reports whether the code is routed to the collection
// guide codec.
func (c RawCode) IsCollectionGuide() bool {
	return len(c) > 0 && c[0] == collectionProduct
}

func (c RawCode) String() string {
	return string(c)
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
