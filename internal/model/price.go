package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("price is negative")

// Price is a decimal amount without currency symbol. Documents written by
// older versions may hold free text; that text is kept as-is and the price
// reports !Valid() instead of failing the whole decode.
type Price struct {
	amount decimal.Decimal
	raw    string
	valid  bool
}

func NewPrice(d decimal.Decimal) Price {
	return Price{amount: d, valid: true}
}

// Plain digits or thousands groups, with an optional fraction. Exponent
// forms are refused: rescaling them for display is unbounded.
var (
	plainPrice   = regexp.MustCompile(`^\d{1,15}(\.\d{1,6})?$`)
	groupedPrice = regexp.MustCompile(`^\d{1,3}(,\d{3}){1,4}(\.\d{1,6})?$`)
)

// ParsePrice accepts "59.99", " $59.99 ", "1,299" and similar. Only one
// leading "$" is removed. Negative amounts are rejected.
func ParsePrice(s string) (Price, error) {
	clean := normalizePrice(s)
	if clean == "" {
		return Price{}, fmt.Errorf("parse price: empty")
	}
	if strings.HasPrefix(clean, "-") {
		return Price{}, ErrNegativePrice
	}
	switch {
	case plainPrice.MatchString(clean):
	case groupedPrice.MatchString(clean):
		clean = strings.ReplaceAll(clean, ",", "")
	default:
		return Price{}, fmt.Errorf("parse price %q: not a plain amount", s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Price{}, fmt.Errorf("parse price %q: %w", s, err)
	}
	if d.IsNegative() {
		return Price{}, ErrNegativePrice
	}
	return NewPrice(d), nil
}

func normalizePrice(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	return strings.TrimSpace(s)
}

func (p Price) Valid() bool              { return p.valid }
func (p Price) Decimal() decimal.Decimal { return p.amount }

// String is the persisted form.
func (p Price) String() string {
	if !p.valid {
		return p.raw
	}
	return p.amount.String()
}

// Display is the form shown to users: "$59.99", or the raw text.
func (p Price) Display() string {
	if !p.valid {
		if p.raw == "" {
			return "-"
		}
		return p.raw
	}
	return "$" + p.amount.StringFixed(2)
}

func (p Price) Equal(o Price) bool {
	if p.valid != o.valid {
		return false
	}
	if !p.valid {
		return p.raw == o.raw
	}
	return p.amount.Equal(o.amount)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = Price{}
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("price: %w", err)
		}
	} else {
		s = string(b)
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		*p = Price{raw: s}
		return nil
	}
	*p = parsed
	return nil
}
