// =============================================================================
// Boleto Line Reader - Checksum Engine
// =============================================================================
//
// This package computes the check digits embedded in Brazilian payment codes.
// Two algorithms are implemented, each under two parameterizations:
//
//   Modulo10Collection : collection/utility guides, currency codes 6 and 7
//   Modulo10Transfer   : bank transfer guides (boleto), every block
//   Modulo11Collection : collection/utility guides, currency codes 8 and 9
//   Modulo11Transfer   : bank transfer guides, barcode general check digit
//
// The two modulo-10 variants use different folding and remainder formulas.
// They are kept apart on purpose; do not merge them.
//
// CONTRACT:
//   Every function here expects a non-empty string of ASCII digits. Callers
//   slice that string out of an already validated 44-digit code, so any other
//   input is a programming error and panics.
//
// =============================================================================

package checksum

import (
	"fmt"
	"strconv"
)

// =============================================================================
// VARIANTS
// =============================================================================

// Variant selects the multiplier cycling and remainder mapping rules.
type Variant int

const (
	// Modulo10Collection is the modulo-10 rule of collection guides.
	Modulo10Collection Variant = iota + 1

	// Modulo10Transfer is the modulo-10 rule of bank transfer guides.
	Modulo10Transfer

	// Modulo11Collection is the modulo-11 rule of collection guides.
	Modulo11Collection

	// Modulo11Transfer is the modulo-11 rule of bank transfer guides.
	Modulo11Transfer
)

// String returns the variant name used in logs and reports.
func (v Variant) String() string {
	switch v {
	case Modulo10Collection:
		return "modulo10-collection"
	case Modulo10Transfer:
		return "modulo10-transfer"
	case Modulo11Collection:
		return "modulo11-collection"
	case Modulo11Transfer:
		return "modulo11-transfer"
	}
	return "variant(" + strconv.Itoa(int(v)) + ")"
}

// IsModulo10 reports whether the variant belongs to the modulo-10 family.
func (v Variant) IsModulo10() bool {
	return v == Modulo10Collection || v == Modulo10Transfer
}

// IsModulo11 reports whether the variant belongs to the modulo-11 family.
func (v Variant) IsModulo11() bool {
	return v == Modulo11Collection || v == Modulo11Transfer
}

// =============================================================================
// DISPATCH
// =============================================================================

// Compute returns the check digit of seq under the given variant.
func Compute(seq string, v Variant) byte {
	switch {
	case v.IsModulo10():
		return Modulo10(seq, v)
	case v.IsModulo11():
		return Modulo11(seq, v)
	}
	panic(fmt.Sprintf("checksum: unknown variant %d", int(v)))
}

// Modulo10 returns the modulo-10 check digit of seq as an ASCII digit.
//
// Digits are weighted right to left with 2,1,2,1... and two-digit products
// are folded into the sum of their digits before accumulating.
func Modulo10(seq string, v Variant) byte {
	mustBeDigits(seq)

	switch v {
	case Modulo10Collection:
		return modulo10Collection(seq)
	case Modulo10Transfer:
		return modulo10Transfer(seq)
	}
	panic(fmt.Sprintf("checksum: %s is not a modulo-10 variant", v))
}

// Modulo11 returns the modulo-11 check digit of seq as an ASCII digit.
//
// Digits are weighted right to left with 2,3,...,9 wrapping back to 2.
// Products are summed without folding.
func Modulo11(seq string, v Variant) byte {
	mustBeDigits(seq)

	remainder := weightedSum11(seq) % 11

	switch v {
	case Modulo11Collection:
		switch remainder {
		case 0, 1:
			return '0'
		case 10:
			return '1'
		}
		return digit(11 - remainder)
	case Modulo11Transfer:
		// Remainders 0, 1, 10 and 11 all collapse to 1 under the bank rule.
		switch remainder {
		case 0, 1:
			return '1'
		case 10, 11:
			return '1'
		}
		return digit(11 - remainder)
	}
	panic(fmt.Sprintf("checksum: %s is not a modulo-11 variant", v))
}

// =============================================================================
// MODULO 10
// =============================================================================

// modulo10Collection folds products arithmetically and maps the remainder
// directly: 0 stays 0, anything else becomes 10 - remainder.
func modulo10Collection(seq string) byte {
	multiplier := 2
	sum := 0

	for i := len(seq) - 1; i >= 0; i-- {
		product := int(seq[i]-'0') * multiplier
		multiplier = nextModulo10Multiplier(multiplier)

		if product < 10 {
			sum += product
		} else {
			sum += product/10 + product%10
		}
	}

	remainder := sum % 10
	if remainder == 0 {
		return '0'
	}
	return digit(10 - remainder)
}

// modulo10Transfer folds products by splitting their decimal representation
// and subtracts the remainder from the next multiple of ten above the sum.
func modulo10Transfer(seq string) byte {
	multiplier := 2
	sum := 0

	for i := len(seq) - 1; i >= 0; i-- {
		product := int(seq[i]-'0') * multiplier
		multiplier = nextModulo10Multiplier(multiplier)

		if product <= 9 {
			sum += product
			continue
		}
		// multiplier <= 2 keeps every product at two characters or fewer.
		s := strconv.Itoa(product)
		sum += int(s[0]-'0') + int(s[1]-'0')
	}

	upperTen := (sum/10 + 1) * 10
	checkDigit := upperTen - sum%10
	if checkDigit == 10 {
		checkDigit = 0
	}
	return digit(checkDigit % 10)
}

func nextModulo10Multiplier(m int) int {
	if m == 2 {
		return 1
	}
	return 2
}

// =============================================================================
// MODULO 11
// =============================================================================

func weightedSum11(seq string) int {
	multiplier := 2
	sum := 0

	for i := len(seq) - 1; i >= 0; i-- {
		sum += int(seq[i]-'0') * multiplier
		if multiplier == 9 {
			multiplier = 2
		} else {
			multiplier++
		}
	}
	return sum
}

// =============================================================================
// HELPERS
// =============================================================================

func digit(n int) byte {
	return byte('0' + n)
}

func mustBeDigits(seq string) {
	if seq == "" {
		panic("checksum: empty sequence")
	}
	for i := 0; i < len(seq); i++ {
		if seq[i] < '0' || seq[i] > '9' {
			panic(fmt.Sprintf("checksum: non-digit %q at position %d", seq[i], i))
		}
	}
}
