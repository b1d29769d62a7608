package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matheuscscp/splitbill/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBill() *models.Bill {
	return models.NewBill([]models.Item{
		models.NewItem("1", "Iced Latte", 2, 25000),
		models.NewItem("2", "Croissant", 1, 18000),
	}, []models.AdditionalCharge{
		{Name: "Biaya Penanganan", Amount: 3000},
		{Name: "Discount", Amount: -10000},
	})
}

func TestNewBillDerivesTotals(t *testing.T) {
	b := sampleBill()
	assert.Equal(t, models.Amount(68000), b.TotalBeforeCharges)
	assert.Equal(t, models.Amount(-7000), b.TotalCharges())
	assert.Equal(t, models.Amount(61000), b.TotalAfterCharges)

	// item totals are derived, not trusted
	b = models.NewBill([]models.Item{{ID: "1", Name: "x", Quantity: 3, Price: 1000, TotalPrice: 1}}, nil)
	assert.Equal(t, models.Amount(3000), b.Items[0].TotalPrice)
	assert.Equal(t, models.Amount(3000), b.TotalAfterCharges)
	assert.NotNil(t, b.AdditionalCharges)
}

func TestWithManualEntry(t *testing.T) {
	t.Run("menu item", func(t *testing.T) {
		b := sampleBill()
		nb, err := b.WithManualEntry(models.ManualEntry{Name: " Teh Manis ", Quantity: 2, Price: 5000, Category: models.CategoryMenu})
		require.NoError(t, err)
		require.Len(t, nb.Items, 3)
		item := nb.Items[2]
		assert.Equal(t, "custom-1", item.ID)
		assert.True(t, models.IsCustomItemID(item.ID))
		assert.Equal(t, "Teh Manis", item.Name)
		assert.Equal(t, models.Amount(10000), item.TotalPrice)
		assert.Equal(t, models.Amount(78000), nb.TotalBeforeCharges)
		assert.Equal(t, nb.TotalBeforeCharges+nb.TotalCharges(), nb.TotalAfterCharges)

		// the original bill is untouched
		assert.Len(t, b.Items, 2)
		assert.Equal(t, models.Amount(68000), b.TotalBeforeCharges)

		nb, err = nb.WithManualEntry(models.ManualEntry{Name: "Air", Quantity: 1, Price: 0})
		require.NoError(t, err)
		assert.Equal(t, "custom-2", nb.Items[3].ID)
	})

	t.Run("fee", func(t *testing.T) {
		b := sampleBill()
		nb, err := b.WithManualEntry(models.ManualEntry{Name: "Tip", Quantity: 1, Price: 5000, Category: models.CategoryFee})
		require.NoError(t, err)
		assert.Len(t, nb.Items, 2)
		require.Len(t, nb.AdditionalCharges, 3)
		assert.Equal(t, models.AdditionalCharge{Name: "Tip", Amount: 5000}, nb.AdditionalCharges[2])
		assert.Equal(t, models.Amount(68000), nb.TotalBeforeCharges)
		assert.Equal(t, models.Amount(66000), nb.TotalAfterCharges)
	})

	for _, tt := range []struct {
		name  string
		entry models.ManualEntry
	}{
		{name: "empty name", entry: models.ManualEntry{Name: "  ", Quantity: 1, Price: 1000}},
		{name: "zero quantity", entry: models.ManualEntry{Name: "x", Quantity: 0, Price: 1000}},
		{name: "negative price", entry: models.ManualEntry{Name: "x", Quantity: 1, Price: -1}},
		{name: "unknown category", entry: models.ManualEntry{Name: "x", Quantity: 1, Price: 1, Category: "tax"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sampleBill().WithManualEntry(tt.entry)
			assert.ErrorIs(t, err, models.ErrInvalidManualEntry)
		})
	}
}

func TestBillJSON(t *testing.T) {
	b, err := json.Marshal(sampleBill())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))
	for _, k := range []string{"items", "additionalCharges", "totalBeforeCharges", "totalAfterCharges"} {
		assert.Contains(t, fields, k)
	}

	tampered := []byte(`{"items":[{"id":"1","name":"x","quantity":2,"price":1000,"totalPrice":5}],
		"additionalCharges":[{"name":"fee","amount":300}],"totalBeforeCharges":1,"totalAfterCharges":1}`)
	var decoded models.Bill
	require.NoError(t, json.Unmarshal(tampered, &decoded))
	assert.Equal(t, models.Amount(2000), decoded.Items[0].TotalPrice)
	assert.Equal(t, models.Amount(2000), decoded.TotalBeforeCharges)
	assert.Equal(t, models.Amount(2300), decoded.TotalAfterCharges)
}

func TestParticipantJSON(t *testing.T) {
	p := models.Participant{ID: "p1", Name: "Ana", Claims: map[string]int{"2": 1, "1": 2, "3": 0}}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Ana","items":[{"itemId":"1","quantity":2},{"itemId":"2","quantity":1}]}`, string(b))

	var decoded models.Participant
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, decoded.Claims)
	assert.True(t, decoded.IsActive())
	assert.False(t, (&models.Participant{}).IsActive())
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	bill := sampleBill()
	participants := []models.Participant{{ID: "p1", Name: "Ana", Claims: map[string]int{"1": 2}}}
	preview := models.ImageDataURL([]byte("\xff\xd8\xff\xe0 fake jpeg"))
	s := models.NewSnapshot("s1", time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600)), bill, participants, &preview)

	bill.Items[0].Name = "changed"
	participants[0].Claims["1"] = 0
	preview = "changed"

	assert.Equal(t, "Iced Latte", s.Bill.Items[0].Name)
	assert.Equal(t, 2, s.Participants[0].Claimed("1"))
	require.NotNil(t, s.ImagePreview)
	assert.Contains(t, *s.ImagePreview, "data:image/jpeg;base64,")
	assert.Equal(t, time.UTC, s.Date.Location())

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2024-05-01T05:00:00Z"`)
}
