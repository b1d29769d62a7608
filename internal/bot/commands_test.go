package bot

import (
	"testing"

	"github.com/matheuscscp/splitbill/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	for _, tt := range []struct {
		text     string
		expected command
		ok       bool
	}{
		{text: "/items", expected: command{name: "items"}, ok: true},
		{text: "  /Claim Ana 1 2 ", expected: command{name: "claim", args: "Ana 1 2"}, ok: true},
		{text: "/add@splitbill_bot Ana, Budi", expected: command{name: "add", args: "Ana, Budi"}, ok: true},
		{text: "2 Iced Latte @Rp25.000", ok: false},
	} {
		t.Run(tt.text, func(t *testing.T) {
			cmd, ok := parseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParseClaim(t *testing.T) {
	for _, tt := range []struct {
		args     string
		expected claimArgs
		err      bool
	}{
		{args: "Ana 1 2", expected: claimArgs{participant: "Ana", position: 1, quantity: 2}},
		{args: "Ana 3", expected: claimArgs{participant: "Ana", position: 3, quantity: 1}},
		{args: "Ana Maria 2 0", expected: claimArgs{participant: "Ana Maria", position: 2, quantity: 0}},
		{args: "Ana Maria 2", expected: claimArgs{participant: "Ana Maria", position: 2, quantity: 1}},
		{args: "Ana -1 2", err: true},
		{args: "Ana", err: true},
		{args: "Ana x", err: true},
	} {
		t.Run(tt.args, func(t *testing.T) {
			c, err := parseClaim(tt.args)
			if tt.err {
				assert.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestParseManualEntries(t *testing.T) {
	e, err := parseMenu("Kerupuk Udang 2 Rp2.000")
	require.NoError(t, err)
	assert.Equal(t, models.ManualEntry{Name: "Kerupuk Udang", Quantity: 2, Price: 2000, Category: models.CategoryMenu}, e)

	e, err = parseFee("Promo ongkir -Rp5.000")
	require.NoError(t, err)
	assert.Equal(t, models.ManualEntry{Name: "Promo ongkir", Price: -5000, Category: models.CategoryFee}, e)

	for _, args := range []string{"", "Kerupuk", "Kerupuk two 2000", "Kerupuk 2 free"} {
		_, err := parseMenu(args)
		assert.ErrorIs(t, err, errUsage, args)
	}
	for _, args := range []string{"", "5000", "Tip lots"} {
		_, err := parseFee(args)
		assert.ErrorIs(t, err, errUsage, args)
	}
}

func TestParseNamesAndRename(t *testing.T) {
	assert.Equal(t, []string{"Ana", "Budi Santoso"}, parseNames(" Ana ,, Budi Santoso "))
	assert.Empty(t, parseNames(" , "))

	oldName, newName, err := parseRename("Budi ,  Bayu")
	require.NoError(t, err)
	assert.Equal(t, "Budi", oldName)
	assert.Equal(t, "Bayu", newName)

	_, _, err = parseRename("Budi,")
	assert.ErrorIs(t, err, errUsage)
}
