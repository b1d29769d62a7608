package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuscscp/splitbill/models"
	"github.com/matheuscscp/splitbill/split"
)

const (
	historyDateFormat = "02 Jan 2006 15:04 MST"
)

var (
	// receipts are from Indonesia, dates are shown in WIB
	displayLocation = time.FixedZone("WIB", 7*60*60)
)

const helpText = `Send me a photo of a receipt, or paste its text, and I'll read the items.

/items - show the items and who claimed what
/add <name>[, <name>...] - add people to the split
/rename <name>, <new name> - rename someone
/remove <name> - remove someone and free their items
/claim <name> <item number> [quantity] - set how many units someone had (0 to unclaim)
/menu <name> <quantity> <price> - add an item the receipt missed
/fee <name> <amount> - add a shared fee (negative for a discount)
/summary - show who pays what
/save - save the bill
/history - list saved bills
/open <number> - open a saved bill
/forget <number> - delete a saved bill
/abort - drop the current bill
/uptime, /finish, /help`

func renderState(s split.State) string {
	bill := s.Bill()
	if bill == nil {
		return "No receipt yet. Send me a photo or the text of one."
	}

	var b strings.Builder
	b.WriteString("Items:\n")
	if len(bill.Items) == 0 {
		b.WriteString("(none)\n")
	}
	for i, item := range bill.Items {
		fmt.Fprintf(&b, "%d. %s x%d @ %v = %v", i+1, item.Name, item.Quantity, item.Price, item.TotalPrice)
		if remaining, err := s.RemainingCapacity(item.ID); err == nil && remaining > 0 {
			fmt.Fprintf(&b, " (%d left)", remaining)
		}
		b.WriteString("\n")
	}
	if len(bill.AdditionalCharges) > 0 {
		b.WriteString("\nCharges:\n")
		for _, c := range bill.AdditionalCharges {
			fmt.Fprintf(&b, "%s: %v\n", c.Name, c.Amount)
		}
	}
	fmt.Fprintf(&b, "\nSubtotal: %v\nTotal: %v", bill.TotalBeforeCharges, bill.TotalAfterCharges)

	participants := s.Participants()
	if len(participants) > 0 {
		b.WriteString("\n\nPeople:")
		for _, p := range participants {
			fmt.Fprintf(&b, "\n%s: %s", p.Name, renderClaims(bill, p))
		}
	}
	return b.String()
}

func renderClaims(bill *models.Bill, p models.Participant) string {
	var claims []string
	for i, item := range bill.Items {
		if q := p.Claimed(item.ID); q > 0 {
			claims = append(claims, fmt.Sprintf("%dx #%d %s", q, i+1, item.Name))
		}
	}
	if len(claims) == 0 {
		return "nothing yet"
	}
	return strings.Join(claims, ", ")
}

func renderSettlement(st *split.Settlement) string {
	var b strings.Builder
	for i := range st.Shares {
		share := &st.Shares[i]
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s pays %v", share.Name, share.DisplayTotal())
		if !share.Active {
			b.WriteString(" (nothing claimed)")
			continue
		}
		for _, line := range share.Lines {
			fmt.Fprintf(&b, "\n  %dx %s: %v", line.Quantity, line.Name, line.Amount)
		}
		if st.TotalCharges != 0 {
			fmt.Fprintf(&b, "\n  Fees and discounts: %v", share.DisplayChargeShare())
		}
	}
	if residual := st.DisplayResidual(); residual != 0 {
		fmt.Fprintf(&b, "\n\nRounding difference: %v", residual)
	}
	return b.String()
}

func renderHistory(snapshots []models.Snapshot) string {
	if len(snapshots) == 0 {
		return "No saved bills."
	}
	var b strings.Builder
	b.WriteString("Saved bills:")
	for i, s := range snapshots {
		var total models.Amount
		var items int
		if s.Bill != nil {
			total, items = s.Bill.TotalAfterCharges, len(s.Bill.Items)
		}
		fmt.Fprintf(&b, "\n%d. %s - %v, %d items, %d people",
			i+1, s.Date.In(displayLocation).Format(historyDateFormat), total, items, len(s.Participants))
	}
	b.WriteString("\n\nUse /open <number> or /forget <number>.")
	return b.String()
}
