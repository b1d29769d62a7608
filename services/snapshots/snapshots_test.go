package snapshots_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheuscscp/splitbill/config"
	"github.com/matheuscscp/splitbill/models"
	"github.com/matheuscscp/splitbill/services/snapshots"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(id string, claims map[string]int) models.Snapshot {
	bill := models.NewBill(
		[]models.Item{models.NewItem("1", "Iced Latte", 2, 25000)},
		[]models.AdditionalCharge{{Name: "Discount", Amount: -10000}},
	)
	preview := "data:image/jpeg;base64,/9j/"
	return models.NewSnapshot(id, time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC), bill,
		[]models.Participant{{ID: "p1", Name: "Ana", Claims: claims}}, &preview)
}

func TestUpsert(t *testing.T) {
	first := newSnapshot("a", map[string]int{"1": 1})
	second := newSnapshot("b", nil)

	list, replaced := snapshots.Upsert(nil, first)
	assert.False(t, replaced)
	list, replaced = snapshots.Upsert(list, second)
	assert.False(t, replaced)
	require.Len(t, list, 2)

	edited := newSnapshot("a", map[string]int{"1": 2})
	updated, replaced := snapshots.Upsert(list, edited)
	assert.True(t, replaced)
	require.Len(t, updated, 2)
	assert.Equal(t, "a", updated[0].ID)
	assert.Equal(t, 2, updated[0].Participants[0].Claimed("1"))
	assert.Equal(t, 1, list[0].Participants[0].Claimed("1"))
}

func TestRemoveAndFind(t *testing.T) {
	list := []models.Snapshot{newSnapshot("a", nil), newSnapshot("b", nil)}

	found, err := snapshots.Find(list, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", found.ID)

	list, err = snapshots.Remove(list, "a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	_, err = snapshots.Remove(list, "a")
	assert.ErrorIs(t, err, snapshots.ErrSnapshotNotFound)
	_, err = snapshots.Find(list, "a")
	assert.ErrorIs(t, err, snapshots.ErrSnapshotNotFound)
}

func TestStores(t *testing.T) {
	for _, tt := range []struct {
		name     string
		newStore func(t *testing.T) snapshots.Store
	}{
		{
			name: "memory",
			newStore: func(t *testing.T) snapshots.Store {
				store, err := snapshots.NewStore(context.Background(), config.Snapshots{})
				require.NoError(t, err)
				return store
			},
		},
		{
			name: "sqlite",
			newStore: func(t *testing.T) snapshots.Store {
				path := filepath.Join(t.TempDir(), "nested", "splitbill.db")
				store, err := snapshots.NewStore(context.Background(), config.Snapshots{SQLitePath: path})
				require.NoError(t, err)
				return store
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := tt.newStore(t)
			defer store.Close()

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, loaded)
			assert.NotNil(t, loaded)

			saved := []models.Snapshot{newSnapshot("a", map[string]int{"1": 2}), newSnapshot("b", nil)}
			require.NoError(t, store.Save(ctx, saved))
			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, saved, loaded)

			saved, err = snapshots.Remove(saved, "a")
			require.NoError(t, err)
			require.NoError(t, store.Save(ctx, saved))
			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, "b", loaded[0].ID)

			require.NoError(t, store.Save(ctx, nil))
			loaded, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, loaded)
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "splitbill.db")

	store, err := snapshots.NewSQLiteStore(path)
	require.NoError(t, err)
	saved := []models.Snapshot{newSnapshot("a", map[string]int{"1": 1})}
	require.NoError(t, store.Save(ctx, saved))
	store.Close()

	store, err = snapshots.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSQLiteStoreCorruptSlot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "splitbill.db")
	store, err := snapshots.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("INSERT INTO kv (key, value) VALUES (?, ?)", snapshots.SlotName, "{not json")
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error unmarshaling saved bills")
}

func TestLoadRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "splitbill.db")
	store, err := snapshots.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("INSERT INTO kv (key, value) VALUES (?, ?)", snapshots.SlotName, `[{
		"id": "x",
		"date": "2024-05-01T05:00:00Z",
		"bill": {
			"items": [{"id": "1", "name": "Es Teh", "quantity": 2, "price": 5000, "totalPrice": 1}],
			"additionalCharges": [],
			"totalBeforeCharges": 7,
			"totalAfterCharges": 7
		},
		"participants": [{"id": "p1", "name": "Ana", "items": [{"itemId": "1", "quantity": 2}]}],
		"imagePreview": null
	}]`)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, models.Amount(10000), loaded[0].Bill.Items[0].TotalPrice)
	assert.Equal(t, models.Amount(10000), loaded[0].Bill.TotalAfterCharges)
	assert.Equal(t, 2, loaded[0].Participants[0].Claimed("1"))
	assert.Nil(t, loaded[0].ImagePreview)
}
