package snapshots

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matheuscscp/splitbill/models"

	"cloud.google.com/go/storage"
)

type (
	gcsStore struct {
		object *storage.ObjectHandle
		close  func()
	}
)

// NewGCSStore keeps the saved bills in one Cloud Storage object.
func NewGCSStore(ctx context.Context, bucket, object string) (Store, error) {
	if object == "" {
		object = defaultObject
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating cloud storage client: %w", err)
	}
	return &gcsStore{
		object: client.Bucket(bucket).Object(object),
		close:  func() { client.Close() },
	}, nil
}

func (s *gcsStore) Close() {
	s.close()
}

func (s *gcsStore) Load(ctx context.Context) ([]models.Snapshot, error) {
	r, err := s.object.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return []models.Snapshot{}, nil
		}
		return nil, fmt.Errorf("error creating saved bills reader: %w", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading saved bills: %w", err)
	}
	return decode(b)
}

func (s *gcsStore) Save(ctx context.Context, snapshots []models.Snapshot) error {
	b, err := encode(snapshots)
	if err != nil {
		return err
	}

	w := s.object.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(b); err != nil {
		w.Close()
		return fmt.Errorf("error writing saved bills: %w", err)
	}
	// the object is only committed on Close
	if err := w.Close(); err != nil {
		return fmt.Errorf("error committing saved bills: %w", err)
	}
	return nil
}
