// Package parser turns the OCR transcript of a food delivery receipt into a
// bill. Receipts come in Indonesian or English. The parser is lenient: lines
// it does not recognize are dropped and it never fails.
package parser

import (
	"strings"

	"github.com/matheuscscp/splitbill/models"

	"github.com/sirupsen/logrus"
)

// ParseReceipt ...
func ParseReceipt(text string) *models.Bill {
	lines := splitLines(text)

	var items []models.Item
	var charges []models.AdditionalCharge
	state := sectionSkipHeader
	nextID := 1

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		var dispatch bool
		prev := state
		if state, dispatch = state.next(line); !dispatch {
			if state != prev {
				logrus.WithField("line", line).Debugf("parser: entering %s section", state)
			}
			continue
		}

		switch state {
		case sectionItems:
			next, hasNext := "", i+1 < len(lines)
			if hasNext {
				next = lines[i+1]
			}
			item, consumed, ok := matchItem(line, next, hasNext, nextID)
			if !ok {
				logrus.WithField("line", line).Debug("parser: discarding unrecognized item line")
				continue
			}
			items = append(items, item)
			nextID++
			if consumed {
				i++
			}
		case sectionFees:
			charge, ok := matchCharge(line)
			if !ok {
				logrus.WithField("line", line).Debug("parser: discarding unrecognized fee line")
				continue
			}
			charges = append(charges, charge)
		}
	}

	return models.NewBill(items, charges)
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
