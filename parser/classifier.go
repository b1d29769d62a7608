package parser

import (
	"strings"
)

type (
	// section is where the classifier currently is on the receipt.
	section int

	lineAction int

	// lineRule discards or redirects any line containing one of its keywords.
	lineRule struct {
		keywords []string
		action   lineAction
	}
)

const (
	sectionSkipHeader section = iota
	sectionItems
	sectionFees
)

const (
	actionDiscard lineAction = iota
	actionEnterFees
)

// classifierRules are checked in order against the lowercased line. Adding a
// receipt variant means adding keywords here.
var classifierRules = []lineRule{
	{
		// greetings, headers and payment method lines, in both languages
		keywords: []string{
			"hai",
			"makasih udah pakai",
			"total dibayar",
			"transaction details",
			"rincian transaksi",
			"paid with",
			"bayar pakai",
		},
		action: actionDiscard,
	},
	{
		keywords: totalsMarkers,
		action:   actionEnterFees,
	},
}

var totalsMarkers = []string{
	"pasal harga",
	"total price",
}

func containsAny(lowerLine string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lowerLine, k) {
			return true
		}
	}
	return false
}

// matchRule returns the first rule matching line.
func matchRule(line string) (lineRule, bool) {
	lower := strings.ToLower(line)
	for _, r := range classifierRules {
		if containsAny(lower, r.keywords) {
			return r, true
		}
	}
	return lineRule{}, false
}

// next applies the classifier to one line. It returns the new section and
// whether the line should be dispatched to the matcher of that section.
func (s section) next(line string) (section, bool) {
	if r, ok := matchRule(line); ok {
		switch r.action {
		case actionEnterFees:
			return sectionFees, false
		default:
			return s, false
		}
	}
	if s == sectionSkipHeader {
		return sectionItems, true
	}
	return s, true
}

func (s section) String() string {
	switch s {
	case sectionSkipHeader:
		return "skip-header"
	case sectionItems:
		return "items"
	case sectionFees:
		return "fees"
	default:
		return "unknown"
	}
}
