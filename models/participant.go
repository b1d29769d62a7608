package models

import (
	"encoding/json"
	"sort"
)

type (
	// Participant is someone splitting the bill. Claims maps item ids to the
	// quantity the participant takes; only positive quantities are kept.
	Participant struct {
		ID     string
		Name   string
		Claims map[string]int
	}

	participantJSON struct {
		ID    string      `json:"id"`
		Name  string      `json:"name"`
		Items []claimJSON `json:"items"`
	}

	claimJSON struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
)

// Claimed returns the quantity of itemID claimed by the participant.
func (p *Participant) Claimed(itemID string) int {
	return p.Claims[itemID]
}

// IsActive tells whether the participant claimed at least one unit.
func (p *Participant) IsActive() bool {
	for _, q := range p.Claims {
		if q > 0 {
			return true
		}
	}
	return false
}

// ClaimedItemIDs returns the claimed item ids in a stable order.
func (p *Participant) ClaimedItemIDs() []string {
	ids := make([]string, 0, len(p.Claims))
	for id, q := range p.Claims {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clone ...
func (p Participant) Clone() Participant {
	claims := make(map[string]int, len(p.Claims))
	for id, q := range p.Claims {
		if q > 0 {
			claims[id] = q
		}
	}
	p.Claims = claims
	return p
}

// MarshalJSON writes claims as the list of {itemId, quantity} pairs saved bills use.
func (p Participant) MarshalJSON() ([]byte, error) {
	out := participantJSON{ID: p.ID, Name: p.Name, Items: []claimJSON{}}
	for _, id := range p.ClaimedItemIDs() {
		out.Items = append(out.Items, claimJSON{ItemID: id, Quantity: p.Claims[id]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON ...
func (p *Participant) UnmarshalJSON(data []byte) error {
	var in participantJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.ID, p.Name = in.ID, in.Name
	p.Claims = make(map[string]int, len(in.Items))
	for _, c := range in.Items {
		if c.Quantity > 0 {
			p.Claims[c.ItemID] += c.Quantity
		}
	}
	return nil
}
