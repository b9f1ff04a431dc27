// Package layout decomposes a 44-digit payment code into its fixed-width
// fields. Each document type has its own record; offsets are declared once
// in the struct tags and decoded in a single pass.
package layout

import (
	"fmt"
	"strconv"

	"github.com/ianlopshire/go-fixedwidth"
	"github.com/shopspring/decimal"
)

// CodeLength is the number of digits in a payment barcode.
const CodeLength = 44

// CollectionRecord holds the fields of a collection/utility guide.
//
//	Pos    Len  Content
//	01-01  01   product identification
//	02-02  01   segment identification
//	03-03  01   real value or reference indicator (currency code)
//	04-04  01   general check digit
//	05-15  11   value
//	16-19  04   company/agency identification
//	20-44  25   free field of the company/agency
type CollectionRecord struct {
	Product      string `fixed:"1,1"`
	Segment      string `fixed:"2,2"`
	CurrencyCode string `fixed:"3,3"`
	CheckDigit   string `fixed:"4,4"`
	Value        string `fixed:"5,15"`
	CompanyID    string `fixed:"16,19"`
	FreeField    string `fixed:"20,44"`
}

// TransferRecord holds the fields of a bank transfer guide (boleto).
//
//	Pos    Len  Content
//	01-03  03   bank code at the clearing house
//	04-04  01   currency code (9 = real)
//	05-05  01   barcode check digit
//	06-09  04   expiration factor
//	10-19  10   value, 8 integer + 2 decimal digits
//	20-44  25   free field
type TransferRecord struct {
	Bank             string `fixed:"1,3"`
	CurrencyCode     string `fixed:"4,4"`
	CheckDigit       string `fixed:"5,5"`
	ExpirationFactor string `fixed:"6,9"`
	Value            string `fixed:"10,19"`
	FreeField        string `fixed:"20,44"`
}

// DecodeCollection splits code into a CollectionRecord.
func DecodeCollection(code string) (CollectionRecord, error) {
	var rec CollectionRecord
	if err := decode(code, &rec); err != nil {
		return CollectionRecord{}, fmt.Errorf("decode collection record: %w", err)
	}
	return rec, nil
}

// DecodeTransfer splits code into a TransferRecord.
func DecodeTransfer(code string) (TransferRecord, error) {
	var rec TransferRecord
	if err := decode(code, &rec); err != nil {
		return TransferRecord{}, fmt.Errorf("decode transfer record: %w", err)
	}
	return rec, nil
}

func decode(code string, v interface{}) error {
	if len(code) != CodeLength {
		return fmt.Errorf("code has %d characters, want %d", len(code), CodeLength)
	}
	return fixedwidth.Unmarshal([]byte(code), v)
}

// Barcode reassembles the record into the original 44-digit code.
func (r CollectionRecord) Barcode() string {
	return r.Product + r.Segment + r.CurrencyCode + r.CheckDigit + r.Value + r.CompanyID + r.FreeField
}

// WithoutCheckDigit returns the 43 digits the general check digit covers.
func (r CollectionRecord) WithoutCheckDigit() string {
	return r.Product + r.Segment + r.CurrencyCode + r.Value + r.CompanyID + r.FreeField
}

// Amount interprets the value field as cents.
func (r CollectionRecord) Amount() decimal.Decimal {
	return cents(r.Value)
}

// Barcode reassembles the record into the original 44-digit code.
func (r TransferRecord) Barcode() string {
	return r.Bank + r.CurrencyCode + r.CheckDigit + r.ExpirationFactor + r.Value + r.FreeField
}

// WithoutCheckDigit returns the 43 digits the barcode check digit covers.
func (r TransferRecord) WithoutCheckDigit() string {
	return r.Bank + r.CurrencyCode + r.ExpirationFactor + r.Value + r.FreeField
}

// Factor parses the expiration factor.
func (r TransferRecord) Factor() (int, error) {
	f, err := strconv.Atoi(r.ExpirationFactor)
	if err != nil {
		return 0, fmt.Errorf("parse expiration factor %q: %w", r.ExpirationFactor, err)
	}
	return f, nil
}

// Amount interprets the value field as cents.
func (r TransferRecord) Amount() decimal.Decimal {
	return cents(r.Value)
}

func cents(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d.Shift(-2)
}
