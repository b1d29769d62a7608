package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type (
	// Item is one receipt line: Quantity units at Price each.
	Item struct {
		ID         string `json:"id" yaml:"id"`
		Name       string `json:"name" yaml:"name"`
		Quantity   int    `json:"quantity" yaml:"quantity"`
		Price      Amount `json:"price" yaml:"price"`
		TotalPrice Amount `json:"totalPrice" yaml:"totalPrice"`
	}

	// AdditionalCharge is a fee (positive) or a discount (negative).
	AdditionalCharge struct {
		Name   string `json:"name" yaml:"name"`
		Amount Amount `json:"amount" yaml:"amount"`
	}

	// Bill is the ledger extracted from one receipt. Build it with NewBill
	// so that both totals are derived from the items and charges.
	Bill struct {
		Items              []Item             `json:"items" yaml:"items"`
		AdditionalCharges  []AdditionalCharge `json:"additionalCharges" yaml:"additionalCharges"`
		TotalBeforeCharges Amount             `json:"totalBeforeCharges" yaml:"totalBeforeCharges"`
		TotalAfterCharges  Amount             `json:"totalAfterCharges" yaml:"totalAfterCharges"`
	}

	// ManualEntry is something the user adds by hand when the parser missed it.
	ManualEntry struct {
		Name     string
		Quantity int
		Price    Amount
		Category EntryCategory
	}

	// EntryCategory ...
	EntryCategory string
)

const (
	// CategoryMenu entries become items participants can claim.
	CategoryMenu EntryCategory = "menu"
	// CategoryFee entries become charges shared by every active participant.
	CategoryFee EntryCategory = "fee"

	customItemPrefix = "custom-"
)

var (
	// ErrInvalidManualEntry ...
	ErrInvalidManualEntry = errors.New("invalid manual entry")
)

// NewItem ...
func NewItem(id, name string, quantity int, price Amount) Item {
	return Item{
		ID:         id,
		Name:       name,
		Quantity:   quantity,
		Price:      price,
		TotalPrice: Amount(quantity) * price,
	}
}

// NewBill copies items and charges and derives both totals from them.
func NewBill(items []Item, charges []AdditionalCharge) *Bill {
	b := &Bill{
		Items:             make([]Item, len(items)),
		AdditionalCharges: make([]AdditionalCharge, len(charges)),
	}
	copy(b.AdditionalCharges, charges)
	for i, item := range items {
		b.Items[i] = NewItem(item.ID, item.Name, item.Quantity, item.Price)
	}
	b.recomputeTotals()
	return b
}

func (b *Bill) recomputeTotals() {
	b.TotalBeforeCharges = 0
	for _, item := range b.Items {
		b.TotalBeforeCharges += item.TotalPrice
	}
	b.TotalAfterCharges = b.TotalBeforeCharges + b.TotalCharges()
}

// TotalCharges is the signed sum of the additional charges.
func (b *Bill) TotalCharges() (total Amount) {
	for _, c := range b.AdditionalCharges {
		total += c.Amount
	}
	return
}

// Item looks up an item by id.
func (b *Bill) Item(id string) (Item, bool) {
	for _, item := range b.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Clone ...
func (b *Bill) Clone() *Bill {
	if b == nil {
		return nil
	}
	return NewBill(b.Items, b.AdditionalCharges)
}

// WithManualEntry returns a new bill with the entry appended and both totals
// derived again from the full collections. The receiver is not modified.
func (b *Bill) WithManualEntry(e ManualEntry) (*Bill, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidManualEntry)
	}
	items, charges := b.Items, b.AdditionalCharges
	switch e.Category {
	case CategoryMenu, "":
		if e.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidManualEntry, e.Quantity)
		}
		if e.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative, got %v", ErrInvalidManualEntry, e.Price)
		}
		item := NewItem(b.nextCustomItemID(), name, e.Quantity, e.Price)
		items = append(append([]Item(nil), items...), item)
	case CategoryFee:
		charges = append(append([]AdditionalCharge(nil), charges...), AdditionalCharge{
			Name:   name,
			Amount: e.Price,
		})
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidManualEntry, e.Category)
	}
	return NewBill(items, charges), nil
}

func (b *Bill) nextCustomItemID() string {
	var n int
	for _, item := range b.Items {
		if !strings.HasPrefix(item.ID, customItemPrefix) {
			continue
		}
		if k, err := strconv.Atoi(strings.TrimPrefix(item.ID, customItemPrefix)); err == nil && k > n {
			n = k
		}
	}
	return fmt.Sprintf("%s%d", customItemPrefix, n+1)
}

// IsCustomItemID tells whether the id belongs to a manually added item.
func IsCustomItemID(id string) bool {
	return strings.HasPrefix(id, customItemPrefix)
}

// UnmarshalJSON decodes a bill and derives item and bill totals again, so a
// stored total can never disagree with the stored items and charges.
func (b *Bill) UnmarshalJSON(data []byte) error {
	type rawBill Bill
	var raw rawBill
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = *NewBill(raw.Items, raw.AdditionalCharges)
	return nil
}
