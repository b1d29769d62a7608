// Package snapshots keeps the list of saved bills. Every backend stores the
// whole list as one JSON document in a single slot, so the split logic never
// depends on a particular storage technology.
package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matheuscscp/splitbill/config"
	"github.com/matheuscscp/splitbill/models"
)

type (
	// Store ...
	Store interface {
		// Load returns the saved bills, an empty list when nothing was saved.
		Load(ctx context.Context) ([]models.Snapshot, error)
		// Save replaces the saved bills with snapshots.
		Save(ctx context.Context, snapshots []models.Snapshot) error
		Close()
	}
)

const (
	// SlotName is the key under which the saved bills are stored.
	SlotName = "savedBills"

	defaultObject = SlotName + ".json"
)

var (
	// ErrSnapshotNotFound ...
	ErrSnapshotNotFound = errors.New("saved bill not found")
)

// NewStore picks the backend configured in conf.
func NewStore(ctx context.Context, conf config.Snapshots) (Store, error) {
	switch {
	case conf.Bucket != "":
		return NewGCSStore(ctx, conf.Bucket, conf.Object)
	case conf.SQLitePath != "":
		return NewSQLiteStore(conf.SQLitePath)
	default:
		return NewMemoryStore(), nil
	}
}

// Upsert replaces the snapshot with the same id or appends it. The input
// slice is not modified.
func Upsert(snapshots []models.Snapshot, s models.Snapshot) (updated []models.Snapshot, replaced bool) {
	updated = make([]models.Snapshot, 0, len(snapshots)+1)
	for _, existing := range snapshots {
		if existing.ID == s.ID {
			updated = append(updated, s.Clone())
			replaced = true
			continue
		}
		updated = append(updated, existing)
	}
	if !replaced {
		updated = append(updated, s.Clone())
	}
	return
}

// Remove returns snapshots without the one with the given id.
func Remove(snapshots []models.Snapshot, id string) ([]models.Snapshot, error) {
	updated := make([]models.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.ID != id {
			updated = append(updated, s)
		}
	}
	if len(updated) == len(snapshots) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return updated, nil
}

// Find ...
func Find(snapshots []models.Snapshot, id string) (models.Snapshot, error) {
	for _, s := range snapshots {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return models.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
}

func encode(snapshots []models.Snapshot) ([]byte, error) {
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	b, err := json.Marshal(snapshots)
	if err != nil {
		return nil, fmt.Errorf("error marshaling saved bills: %w", err)
	}
	return b, nil
}

func decode(b []byte) ([]models.Snapshot, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []models.Snapshot{}, nil
	}
	var snapshots []models.Snapshot
	if err := json.Unmarshal(b, &snapshots); err != nil {
		return nil, fmt.Errorf("error unmarshaling saved bills: %w", err)
	}
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	return snapshots, nil
}
