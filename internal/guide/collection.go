// =============================================================================
// Boleto Line Reader - Collection Guide Codec
// =============================================================================
//
// Collection/utility guides (product digit 8) are split into four blocks of
// eleven digits. Each block gets one check digit computed with the variant
// selected by the currency/reference code:
//
//   6, 7 -> modulo 10
//   8, 9 -> modulo 11
//
// Any other currency code makes the guide undecodable.
//
// =============================================================================

package guide

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/boleto-line-reader/internal/checksum"
	"github.com/ginjaninja78/boleto-line-reader/internal/layout"
)

// Currency/reference codes of collection guides.
const (
	modulo10EffectiveValue = 6
	modulo10CurrencyAmount = 7
	modulo11EffectiveValue = 8
	modulo11CurrencyAmount = 9
)

// Block is a digitable line group: field content plus its check digit.
type Block struct {
	Content string

	// CheckDigit is the computed ASCII digit, or zero for groups that are
	// carried through verbatim.
	CheckDigit byte
}

// String returns the content followed by its check digit, if any.
func (b Block) String() string {
	if b.CheckDigit == 0 {
		return b.Content
	}
	return b.Content + string(b.CheckDigit)
}

// Collection is a decoded collection/utility guide.
type Collection struct {
	Code    RawCode
	Fields  layout.CollectionRecord
	Variant checksum.Variant
	Blocks  [4]Block

	// GeneralDigitOK reports whether the general check digit at position 4
	// matches the one recomputed over the other 43 digits. Advisory only.
	GeneralDigitOK bool
}

// SelectCollectionVariant maps a currency/reference code to its checksum
// variant. ok is false for codes outside 6..9, including multi-digit and
// non-numeric values.
func SelectCollectionVariant(currencyCode string) (v checksum.Variant, ok bool) {
	n, err := strconv.Atoi(currencyCode)
	if err != nil {
		return 0, false
	}

	switch n {
	case modulo10EffectiveValue, modulo10CurrencyAmount:
		return checksum.Modulo10Collection, true
	case modulo11EffectiveValue, modulo11CurrencyAmount:
		return checksum.Modulo11Collection, true
	}
	return 0, false
}

// NewCollection decodes code as a collection guide.
//
// A currency code outside the recognized set yields a *Error of kind
// KindInvalidCurrency and no blocks are computed.
func NewCollection(code RawCode) (*Collection, error) {
	rec, err := layout.DecodeCollection(string(code))
	if err != nil {
		return nil, fmt.Errorf("collection guide: %w", err)
	}

	variant, ok := SelectCollectionVariant(rec.CurrencyCode)
	if !ok {
		return nil, &Error{Kind: KindInvalidCurrency, Field: "currency_code", Value: rec.CurrencyCode}
	}

	c := &Collection{
		Code:    code,
		Fields:  rec,
		Variant: variant,
	}

	contents := [4]string{
		rec.Product + rec.Segment + rec.CurrencyCode + rec.CheckDigit + rec.Value[:7],
		rec.Value[7:] + rec.CompanyID + rec.FreeField[:3],
		rec.FreeField[3:14],
		rec.FreeField[14:],
	}
	for i, content := range contents {
		c.Blocks[i] = Block{Content: content, CheckDigit: checksum.Compute(content, variant)}
	}

	c.GeneralDigitOK = rec.CheckDigit == string(checksum.Compute(rec.WithoutCheckDigit(), variant))
	return c, nil
}

// Amount returns the value field in reais.
func (c *Collection) Amount() decimal.Decimal {
	return c.Fields.Amount()
}
