// Package digitable renders decoded payment codes as digitable lines, the
// form printed on slips for manual entry when the barcode cannot be read.
package digitable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/boleto-line-reader/internal/guide"
)

// ErrUnrecognized is returned for payloads that were not decoded as a
// payment code. The caller shows the payload as is.
var ErrUnrecognized = errors.New("payload is not a payment code")

// Style selects between the compact and the spaced rendering.
type Style int

const (
	StyleCompact Style = iota
	StyleSpaced
)

// ParseStyle maps a configuration value to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compact":
		return StyleCompact, nil
	case "spaced":
		return StyleSpaced, nil
	}
	return 0, fmt.Errorf("unknown digitable line style %q", s)
}

func (s Style) String() string {
	if s == StyleSpaced {
		return "spaced"
	}
	return "compact"
}

// Format renders res in the given style.
func Format(res guide.Result, style Style) (string, error) {
	if style == StyleSpaced {
		return Spaced(res)
	}
	return Compact(res)
}

// Compact concatenates every group without separators: 48 digits for
// collection guides, 47 for transfer guides.
func Compact(res guide.Result) (string, error) {
	if err := renderable(res); err != nil {
		return "", err
	}

	var sb strings.Builder
	if res.Type == guide.TypeCollectionGuide {
		for _, b := range res.Collection.Blocks {
			sb.WriteString(b.String())
		}
		return sb.String(), nil
	}

	for _, g := range res.Transfer.Groups() {
		sb.WriteString(g.String())
	}
	return sb.String(), nil
}

// Spaced renders the human-entry form.
//
// Collection guides: "content digit" per block, blocks separated by spaces.
// Transfer guides: blocks 1..3 with a dot after their fifth character, then
// the barcode check digit and the factor+value group, space separated.
func Spaced(res guide.Result) (string, error) {
	if err := renderable(res); err != nil {
		return "", err
	}

	if res.Type == guide.TypeCollectionGuide {
		parts := make([]string, 0, 2*len(res.Collection.Blocks))
		for _, b := range res.Collection.Blocks {
			parts = append(parts, b.Content, string(b.CheckDigit))
		}
		return strings.TrimSpace(strings.Join(parts, " ")), nil
	}

	groups := res.Transfer.Groups()
	parts := make([]string, 0, len(groups))
	for i, g := range groups {
		s := g.String()
		if i < len(res.Transfer.Blocks) {
			s = s[:5] + "." + s[5:]
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

func renderable(res guide.Result) error {
	switch res.Type {
	case guide.TypeCollectionGuide:
		if res.Collection == nil {
			return fmt.Errorf("collection result without guide")
		}
		return nil
	case guide.TypeTransferGuide:
		if res.Transfer == nil {
			return fmt.Errorf("transfer result without guide")
		}
		return nil
	case guide.TypeInvalidCurrency, guide.TypeInvalidCheckDigit:
		if res.Err == nil {
			return fmt.Errorf("%s result without error", res.Type)
		}
		return res.Err
	}
	return ErrUnrecognized
}
