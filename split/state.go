// Package split tracks who claims which receipt items and computes what each
// participant pays. State values are immutable: every action returns a new
// State and leaves the old one untouched.
package split

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matheuscscp/splitbill/models"
)

type (
	// State is a bill together with its participants and their claims.
	State struct {
		bill         *models.Bill
		participants []models.Participant
	}
)

var (
	// ErrNoBill ...
	ErrNoBill = errors.New("no bill loaded")
	// ErrEmptyName ...
	ErrEmptyName = errors.New("participant name is empty")
	// ErrDuplicateName ...
	ErrDuplicateName = errors.New("participant name already exists")
	// ErrParticipantNotFound ...
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrItemNotFound ...
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidQuantity ...
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
	// ErrCapacityExceeded is returned when an allocation would claim more
	// units of an item than the receipt lists.
	ErrCapacityExceeded = errors.New("not enough quantity left")
	// ErrNotFullyAllocated ...
	ErrNotFullyAllocated = errors.New("some items are not fully allocated")
)

// NewState starts a split of bill with no participants. bill may be nil
// before the first receipt is parsed.
func NewState(bill *models.Bill) State {
	return State{bill: bill.Clone()}
}

// Restore rebuilds the state saved in a snapshot.
func Restore(s models.Snapshot) State {
	st := State{
		bill:         s.Bill.Clone(),
		participants: make([]models.Participant, len(s.Participants)),
	}
	for i, p := range s.Participants {
		st.participants[i] = p.Clone()
	}
	return st
}

// Bill returns a copy of the bill, nil when none was loaded.
func (s State) Bill() *models.Bill {
	return s.bill.Clone()
}

// HasBill ...
func (s State) HasBill() bool {
	return s.bill != nil
}

// Participants returns copies of the participants in creation order.
func (s State) Participants() []models.Participant {
	ps := make([]models.Participant, len(s.participants))
	for i, p := range s.participants {
		ps[i] = p.Clone()
	}
	return ps
}

// Participant looks up a participant by id.
func (s State) Participant(id string) (models.Participant, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.participants[i].Clone(), true
	}
	return models.Participant{}, false
}

// ParticipantByName looks up a participant by name, ignoring case.
func (s State) ParticipantByName(name string) (models.Participant, bool) {
	name = strings.TrimSpace(name)
	for _, p := range s.participants {
		if strings.EqualFold(p.Name, name) {
			return p.Clone(), true
		}
	}
	return models.Participant{}, false
}

func (s State) indexOf(id string) int {
	for i, p := range s.participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Claimed sums the claims of every participant on itemID.
func (s State) Claimed(itemID string) (claimed int) {
	for _, p := range s.participants {
		claimed += p.Claimed(itemID)
	}
	return
}

// RemainingCapacity is the quantity of itemID nobody claimed yet. It is
// always derived from the current claims.
func (s State) RemainingCapacity(itemID string) (int, error) {
	if s.bill == nil {
		return 0, ErrNoBill
	}
	item, ok := s.bill.Item(itemID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return item.Quantity - s.Claimed(itemID), nil
}

// IsFullyAllocated tells whether every item is claimed exactly, neither
// less nor more than its quantity.
func (s State) IsFullyAllocated() bool {
	if s.bill == nil {
		return false
	}
	for _, item := range s.bill.Items {
		if s.Claimed(item.ID) != item.Quantity {
			return false
		}
	}
	return true
}

// Settle computes the settlement, refusing while items are unclaimed.
func (s State) Settle() (*Settlement, error) {
	if s.bill == nil {
		return nil, ErrNoBill
	}
	if !s.IsFullyAllocated() {
		return nil, ErrNotFullyAllocated
	}
	return ComputeSettlement(s.bill, s.participants), nil
}

// Snapshot captures the state for persistence.
func (s State) Snapshot(id string, date time.Time, imagePreview *string) models.Snapshot {
	return models.NewSnapshot(id, date, s.bill, s.participants, imagePreview)
}
