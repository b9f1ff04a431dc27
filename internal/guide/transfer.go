// =============================================================================
// Boleto Line Reader - Transfer Guide Codec
// =============================================================================
//
// Bank transfer guides (boleto) are rendered as five groups:
//
//   1. bank + currency + free[0:5]   -> modulo 10 check digit
//   2. free[5:15]                    -> modulo 10 check digit
//   3. free[15:25]                   -> modulo 10 check digit
//   4. barcode check digit           (verbatim)
//   5. expiration factor + value     (verbatim)
//
// DUE DATE:
//   The expiration factor counts days from 1997-10-07. It reached 9999 on
//   2025-02-21 and restarted at 1000 the next day, so factors in
//   [1000, 5001) count from 2022-05-29 instead.
//
// =============================================================================

package guide

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/boleto-line-reader/internal/checksum"
	"github.com/ginjaninja78/boleto-line-reader/internal/layout"
)

const (
	// realCurrencyCode is the only currency code issued on transfer guides.
	realCurrencyCode = "9"

	// invalidCheckDigit is never issued as a barcode check digit.
	invalidCheckDigit = "0"

	rolloverFactorMin = 1000
	rolloverFactorMax = 5001
)

var (
	// BaseEpoch is the original expiration factor base date.
	BaseEpoch = time.Date(1997, time.October, 7, 0, 0, 0, 0, time.UTC)

	// RolloverEpoch is the base date of factors issued after the 2025 rollover.
	RolloverEpoch = time.Date(2022, time.May, 29, 0, 0, 0, 0, time.UTC)
)

// Transfer is a decoded bank transfer guide.
type Transfer struct {
	Code   RawCode
	Fields layout.TransferRecord
	Factor int
	Blocks [3]Block

	// GeneralDigitOK reports whether the barcode check digit matches the
	// modulo-11 digit recomputed over the other 43 digits. Advisory only.
	GeneralDigitOK bool
}

// ExpirationEpoch returns the base date for an expiration factor.
func ExpirationEpoch(factor int) time.Time {
	if factor >= rolloverFactorMin && factor < rolloverFactorMax {
		return RolloverEpoch
	}
	return BaseEpoch
}

// NewTransfer decodes code as a bank transfer guide.
//
// The currency code is checked first, then the barcode check digit. Either
// failure returns a *Error and nothing else is computed.
func NewTransfer(code RawCode) (*Transfer, error) {
	rec, err := layout.DecodeTransfer(string(code))
	if err != nil {
		return nil, fmt.Errorf("transfer guide: %w", err)
	}

	if rec.CurrencyCode != realCurrencyCode {
		return nil, &Error{Kind: KindInvalidCurrency, Field: "currency_code", Value: rec.CurrencyCode}
	}
	if rec.CheckDigit == invalidCheckDigit {
		return nil, &Error{Kind: KindInvalidCheckDigit, Field: "check_digit", Value: rec.CheckDigit}
	}

	factor, err := rec.Factor()
	if err != nil {
		return nil, fmt.Errorf("transfer guide: %w", err)
	}

	t := &Transfer{
		Code:   code,
		Fields: rec,
		Factor: factor,
	}

	contents := [3]string{
		rec.Bank + rec.CurrencyCode + rec.FreeField[:5],
		rec.FreeField[5:15],
		rec.FreeField[15:],
	}
	for i, content := range contents {
		t.Blocks[i] = Block{Content: content, CheckDigit: checksum.Modulo10(content, checksum.Modulo10Transfer)}
	}

	t.GeneralDigitOK = rec.CheckDigit == string(checksum.Modulo11(rec.WithoutCheckDigit(), checksum.Modulo11Transfer))
	return t, nil
}

// Groups returns all five digitable line groups in order.
func (t *Transfer) Groups() [5]Block {
	return [5]Block{
		t.Blocks[0],
		t.Blocks[1],
		t.Blocks[2],
		{Content: t.Fields.CheckDigit},
		{Content: t.Fields.ExpirationFactor + t.Fields.Value},
	}
}

// Epoch returns the base date the expiration factor counts from.
func (t *Transfer) Epoch() time.Time {
	return ExpirationEpoch(t.Factor)
}

// DueDate returns the epoch plus the expiration factor in days.
func (t *Transfer) DueDate() time.Time {
	return t.Epoch().AddDate(0, 0, t.Factor)
}

// Amount returns the value field in reais.
func (t *Transfer) Amount() decimal.Decimal {
	return t.Fields.Amount()
}
