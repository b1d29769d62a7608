package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type (
	// Amount is a signed value in rupiah, the smallest unit the receipts use.
	Amount int64
)

const (
	// CurrencySymbol prefixes every price printed on a receipt.
	CurrencySymbol = "Rp"

	thousandsSep = "."
)

var (
	amountNoise = strings.NewReplacer(CurrencySymbol, "", "@", "", "-", "", ".", "", ",", "")
	regexDigits = regexp.MustCompile(`^[0-9]+$`)
)

// ParseAmount strips the currency symbol, the unit price marker '@', minus
// signs and thousand separators from tok and parses what is left.
// The result is always a magnitude: callers re-apply the sign.
func ParseAmount(tok string) (Amount, bool) {
	digits := amountNoise.Replace(strings.TrimSpace(tok))
	if !regexDigits.MatchString(digits) {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return Amount(v), true
}

// MustParseAmount ...
func MustParseAmount(tok string) Amount {
	a, ok := ParseAmount(tok)
	if !ok {
		panic(fmt.Errorf("%q is not a currency amount", tok))
	}
	return a
}

// String formats the amount the way id-ID renders IDR, e.g. Rp25.000 and -Rp10.000.
func (a Amount) String() string {
	v := int64(a)
	var sign string
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	return sign + CurrencySymbol + strings.Join(groups, thousandsSep)
}
