package split

import (
	"fmt"
	"strings"

	"github.com/matheuscscp/splitbill/models"

	"github.com/google/uuid"
)

type (
	// Action is a user action on a State.
	Action interface {
		apply(s State) (State, error)
	}

	// ReplaceBill loads a freshly parsed bill. Participants are dropped: a new
	// receipt starts a new split.
	ReplaceBill struct {
		Bill *models.Bill
	}

	// AddParticipant ...
	AddParticipant struct {
		ID   string
		Name string
	}

	// RenameParticipant ...
	RenameParticipant struct {
		ID   string
		Name string
	}

	// DeleteParticipant removes a participant and its claims. The freed
	// quantity is left unclaimed.
	DeleteParticipant struct {
		ID string
	}

	// SetAllocation replaces the quantity of an item claimed by a
	// participant. Quantity 0 removes the claim.
	SetAllocation struct {
		ParticipantID string
		ItemID        string
		Quantity      int
	}

	// AddManualEntry appends an item or a shared fee to the bill.
	AddManualEntry struct {
		Entry models.ManualEntry
	}
)

// Apply returns the state resulting from a. On error the returned state is
// s unchanged, so the action has no effect.
func Apply(s State, a Action) (State, error) {
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// NewAddParticipant creates the action with a fresh participant id.
func NewAddParticipant(name string) AddParticipant {
	return AddParticipant{ID: uuid.New().String(), Name: name}
}

func (a ReplaceBill) apply(s State) (State, error) {
	return NewState(a.Bill), nil
}

func (a AddParticipant) apply(s State) (State, error) {
	name, err := s.validateName(a.ID, a.Name)
	if err != nil {
		return s, err
	}
	if a.ID == "" || s.indexOf(a.ID) >= 0 {
		return s, fmt.Errorf("participant id '%s' already exists", a.ID)
	}
	next := s.withParticipants()
	next.participants = append(next.participants, models.Participant{
		ID:     a.ID,
		Name:   name,
		Claims: map[string]int{},
	})
	return next, nil
}

func (a RenameParticipant) apply(s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrParticipantNotFound, a.ID)
	}
	name, err := s.validateName(a.ID, a.Name)
	if err != nil {
		return s, err
	}
	next := s.withParticipants()
	next.participants[i].Name = name
	return next, nil
}

func (a DeleteParticipant) apply(s State) (State, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrParticipantNotFound, a.ID)
	}
	next := s.withParticipants()
	next.participants = append(next.participants[:i], next.participants[i+1:]...)
	return next, nil
}

func (a SetAllocation) apply(s State) (State, error) {
	if s.bill == nil {
		return s, ErrNoBill
	}
	i := s.indexOf(a.ParticipantID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrParticipantNotFound, a.ParticipantID)
	}
	item, ok := s.bill.Item(a.ItemID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrItemNotFound, a.ItemID)
	}
	if a.Quantity < 0 {
		return s, fmt.Errorf("%w: %d", ErrInvalidQuantity, a.Quantity)
	}
	byOthers := s.Claimed(a.ItemID) - s.participants[i].Claimed(a.ItemID)
	if available := item.Quantity - byOthers; a.Quantity > available {
		return s, fmt.Errorf("%w: '%s' has %d of %d left, requested %d",
			ErrCapacityExceeded, item.Name, available, item.Quantity, a.Quantity)
	}

	next := s.withParticipants()
	claims := next.participants[i].Claims
	if a.Quantity == 0 {
		delete(claims, a.ItemID)
	} else {
		claims[a.ItemID] = a.Quantity
	}
	return next, nil
}

func (a AddManualEntry) apply(s State) (State, error) {
	if s.bill == nil {
		return s, ErrNoBill
	}
	bill, err := s.bill.WithManualEntry(a.Entry)
	if err != nil {
		return s, err
	}
	next := s.withParticipants()
	next.bill = bill
	return next, nil
}

// withParticipants returns a copy of s whose participants can be modified.
func (s State) withParticipants() State {
	return State{bill: s.bill, participants: s.Participants()}
}

func (s State) validateName(selfID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	for _, p := range s.participants {
		if p.ID != selfID && strings.EqualFold(p.Name, name) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	return name, nil
}
