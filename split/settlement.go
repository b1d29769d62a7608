package split

import (
	"github.com/matheuscscp/splitbill/models"

	"github.com/shopspring/decimal"
)

type (
	// Settlement is what every participant pays for one bill.
	Settlement struct {
		Shares []Share
		// TotalCharges is the signed sum of fees and discounts.
		TotalCharges models.Amount
		// ActiveParticipants counts participants with at least one claim.
		ActiveParticipants int
		// ChargePerActiveParticipant is exact, it is not rounded to rupiah.
		ChargePerActiveParticipant decimal.Decimal
	}

	// Share is one participant's part of the bill. Inactive participants
	// pay nothing, not even a part of the fees.
	Share struct {
		ParticipantID string
		Name          string
		Active        bool
		Lines         []Line
		Subtotal      models.Amount
		ChargeShare   decimal.Decimal
		Total         decimal.Decimal
	}

	// Line is a claimed quantity of one item.
	Line struct {
		ItemID   string
		Name     string
		Quantity int
		Amount   models.Amount
	}
)

// ComputeSettlement splits the bill among participants: each one pays the
// items claimed plus an equal part of the charges. The charges are divided
// among active participants only.
func ComputeSettlement(bill *models.Bill, participants []models.Participant) *Settlement {
	s := &Settlement{
		Shares:                     make([]Share, 0, len(participants)),
		TotalCharges:               bill.TotalCharges(),
		ChargePerActiveParticipant: decimal.Zero,
	}
	for _, p := range participants {
		if p.IsActive() {
			s.ActiveParticipants++
		}
	}
	if s.ActiveParticipants > 0 {
		s.ChargePerActiveParticipant = decimal.NewFromInt(int64(s.TotalCharges)).
			Div(decimal.NewFromInt(int64(s.ActiveParticipants)))
	}

	for _, p := range participants {
		share := Share{
			ParticipantID: p.ID,
			Name:          p.Name,
			Active:        p.IsActive(),
			ChargeShare:   decimal.Zero,
			Total:         decimal.Zero,
		}
		for _, item := range bill.Items {
			q := p.Claimed(item.ID)
			if q <= 0 {
				continue
			}
			line := Line{ItemID: item.ID, Name: item.Name, Quantity: q, Amount: models.Amount(q) * item.Price}
			share.Lines = append(share.Lines, line)
			share.Subtotal += line.Amount
		}
		if share.Active {
			share.ChargeShare = s.ChargePerActiveParticipant
			share.Total = decimal.NewFromInt(int64(share.Subtotal)).Add(share.ChargeShare)
		}
		s.Shares = append(s.Shares, share)
	}
	return s
}

// DisplayTotal rounds the total to whole rupiah, half away from zero.
func (s *Share) DisplayTotal() models.Amount {
	return models.Amount(s.Total.Round(0).IntPart())
}

// DisplayChargeShare ...
func (s *Share) DisplayChargeShare() models.Amount {
	return models.Amount(s.ChargeShare.Round(0).IntPart())
}

// ActiveSubtotal sums the subtotals of active participants.
func (s *Settlement) ActiveSubtotal() (total models.Amount) {
	for _, sh := range s.Shares {
		if sh.Active {
			total += sh.Subtotal
		}
	}
	return
}

// DisplayResidual is the sum of the rounded totals minus what the active
// participants owe in exact terms. Rounding each share independently can
// leave a few rupiah of difference, which is not redistributed.
func (s *Settlement) DisplayResidual() models.Amount {
	var displayed models.Amount
	for i := range s.Shares {
		displayed += s.Shares[i].DisplayTotal()
	}
	owed := s.ActiveSubtotal()
	if s.ActiveParticipants > 0 {
		owed += s.TotalCharges
	}
	return displayed - owed
}
