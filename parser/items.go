package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matheuscscp/splitbill/models"
)

var (
	// e.g. "2 Iced Latte @Rp25.000"
	regexItemLine = regexp.MustCompile(`^(\d+)\s+(.+?)\s+@Rp([\d.,]+)`)

	// lines that start a record of their own and never continue an item name
	regexRecordLine = regexp.MustCompile(`(?i)^\d+\s+|@Rp|Rp|Total|Handling|Discount`)

	// utensil opt-out notices printed under items
	boilerplateNotices = []*regexp.Regexp{
		regexp.MustCompile(`(?i)No cutlery/straws.+waste!?`),
		regexp.MustCompile(`(?i)Tanpa alat makan/sedotan.+sekali!?`),
	}
	boilerplateKeywords = []string{
		"cutlery",
		"straws",
		"tanpa alat",
	}
)

// matchItem recognizes one item line. When next continues the item name it
// is merged and consumed is true.
func matchItem(line, next string, hasNext bool, id int) (item models.Item, consumed, ok bool) {
	m := regexItemLine.FindStringSubmatch(line)
	if m == nil {
		return models.Item{}, false, false
	}
	quantity, err := strconv.Atoi(m[1])
	if err != nil || quantity <= 0 {
		return models.Item{}, false, false
	}
	price, ok := models.ParseAmount(m[3])
	if !ok {
		return models.Item{}, false, false
	}

	name := m[2]
	if hasNext && isContinuation(next) {
		name += " " + strings.TrimSpace(next)
		consumed = true
	}
	for _, notice := range boilerplateNotices {
		name = strings.TrimSpace(notice.ReplaceAllString(name, ""))
	}

	return models.NewItem(strconv.Itoa(id), name, quantity, price), consumed, true
}

func isContinuation(line string) bool {
	if regexRecordLine.MatchString(line) {
		return false
	}
	lower := strings.ToLower(line)
	return !containsAny(lower, boilerplateKeywords) &&
		!containsAny(lower, feeKeywords()) &&
		!containsAny(lower, discountKeywords) &&
		!containsAny(lower, totalsMarkers)
}
