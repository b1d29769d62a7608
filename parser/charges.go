package parser

import (
	"regexp"
	"strings"

	"github.com/matheuscscp/splitbill/models"
)

type (
	chargeRule struct {
		keywords []string
		amount   *regexp.Regexp
		discount bool
		// label is used when the line has no usable text before the amount
		// or when the rule does not keep the printed wording.
		label       string
		keepWording bool
	}
)

const (
	handlingFeeLabel = "Handling and Delivery Fee"
	discountLabel    = "Discount"
)

var (
	regexFeeAmount      = regexp.MustCompile(`Rp([\d.,]+)`)
	regexDiscountAmount = regexp.MustCompile(`-?Rp([\d.,]+)`)

	discountKeywords = []string{"diskon", "discount"}

	chargeRules = []chargeRule{
		{
			// Indonesian receipts print their own fee wording, keep it
			keywords:    []string{"biaya penanganan", "biaya lainnya"},
			amount:      regexFeeAmount,
			label:       handlingFeeLabel,
			keepWording: true,
		},
		{
			keywords: []string{"handling and delivery fee"},
			amount:   regexFeeAmount,
			label:    handlingFeeLabel,
		},
		{
			keywords: discountKeywords,
			amount:   regexDiscountAmount,
			discount: true,
			label:    discountLabel,
		},
	}
)

func feeKeywords() (keywords []string) {
	for _, r := range chargeRules {
		if !r.discount {
			keywords = append(keywords, r.keywords...)
		}
	}
	return
}

// matchCharge recognizes a fee or discount line of the fee section.
// Discounts are always negative, whatever sign the receipt printed.
func matchCharge(line string) (models.AdditionalCharge, bool) {
	lower := strings.ToLower(line)
	for _, r := range chargeRules {
		if !containsAny(lower, r.keywords) {
			continue
		}
		m := r.amount.FindStringSubmatch(line)
		if m == nil {
			return models.AdditionalCharge{}, false
		}
		amount, ok := models.ParseAmount(m[1])
		if !ok {
			return models.AdditionalCharge{}, false
		}
		if r.discount {
			amount = -amount
		}
		return models.AdditionalCharge{Name: r.chargeName(line), Amount: amount}, true
	}
	return models.AdditionalCharge{}, false
}

func (r *chargeRule) chargeName(line string) string {
	if !r.keepWording {
		return r.label
	}
	wording := strings.TrimSpace(strings.SplitN(line, models.CurrencySymbol, 2)[0])
	if wording == "" {
		return r.label
	}
	return wording
}
