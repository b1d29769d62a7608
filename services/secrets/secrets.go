package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/sirupsen/logrus"
	secretmanagerpb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
)

type (
	// Service ...
	Service interface {
		Read(ctx context.Context, id string) (string, error)
		ReadBinary(ctx context.Context, id string) ([]byte, error)
		// Rotate adds a random version sized by the secret's "num-bytes"
		// label and destroys the previous one.
		Rotate(ctx context.Context, id string) error
		Close()
	}

	service struct {
		client *secretmanager.Client
	}
)

var (
	// ErrNilSecretPayload ...
	ErrNilSecretPayload = errors.New("nil secret payload")
	// ErrSecretNumBytesMissing ...
	ErrSecretNumBytesMissing = errors.New("secret label 'num-bytes' is not present")

	crc32cTable = crc32.MakeTable(crc32.Castagnoli)
)

// NewService ...
func NewService(ctx context.Context) (Service, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating secret manager client: %w", err)
	}
	return &service{client}, nil
}

func (s *service) Close() {
	s.client.Close()
}

func (s *service) Read(ctx context.Context, id string) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", id),
	})
	if err != nil {
		return "", fmt.Errorf("error accessing secret version: %w", err)
	}
	payload := resp.GetPayload()
	if payload == nil {
		return "", ErrNilSecretPayload
	}
	if err := verifyChecksum(payload.GetData(), payload.DataCrc32C); err != nil {
		return "", err
	}
	return string(payload.GetData()), nil
}

func (s *service) ReadBinary(ctx context.Context, id string) ([]byte, error) {
	secret, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeBinary(secret)
}

func (s *service) Rotate(ctx context.Context, id string) error {
	secret, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: id})
	if err != nil {
		return fmt.Errorf("error getting secret '%s': %w", id, err)
	}
	numBytes, err := numBytesLabel(secret.GetLabels())
	if err != nil {
		return fmt.Errorf("error reading labels of secret '%s': %w", id, err)
	}
	encoded, err := generate(numBytes)
	if err != nil {
		return err
	}
	payload := []byte(encoded)
	checksum := int64(crc32.Checksum(payload, crc32cTable))

	// find previous version
	latest, err := s.client.GetSecretVersion(ctx, &secretmanagerpb.GetSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", id),
	})
	if err != nil {
		logrus.Warnf("error fetching latest version of secret '%s': %v", id, err)
		latest = nil
	}

	newVersion, err := s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: id,
		Payload: &secretmanagerpb.SecretPayload{
			Data:       payload,
			DataCrc32C: &checksum,
		},
	})
	if err != nil {
		return fmt.Errorf("error adding secret version: %w", err)
	}

	if latest != nil {
		_, err = s.client.DestroySecretVersion(ctx, &secretmanagerpb.DestroySecretVersionRequest{
			Name: latest.Name,
		})
		if err != nil {
			return fmt.Errorf("error destroying previous secret version: %w", err)
		}
	}

	logrus.Infof("secret rotated: %s", newVersion.Name)
	return nil
}

func numBytesLabel(labels map[string]string) (int, error) {
	v, ok := labels["num-bytes"]
	if !ok {
		return 0, ErrSecretNumBytesMissing
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid 'num-bytes' label '%s'", v)
	}
	return n, nil
}

// Resolve returns value unless secretID is set, in which case the secret
// is read instead. Config files use it to hold either a literal token or a
// reference to one.
func Resolve(ctx context.Context, svc Service, value, secretID string) (string, error) {
	if secretID == "" {
		return value, nil
	}
	if svc == nil {
		return "", fmt.Errorf("secret '%s' configured but no secrets service available", secretID)
	}
	secret, err := svc.Read(ctx, secretID)
	if err != nil {
		return "", fmt.Errorf("error reading secret '%s': %w", secretID, err)
	}
	return strings.TrimSpace(secret), nil
}

func verifyChecksum(data []byte, want *int64) error {
	if want == nil {
		return nil
	}
	if got := int64(crc32.Checksum(data, crc32cTable)); *want != got {
		return fmt.Errorf("secret checksum mismatch, want %v, got %v", *want, got)
	}
	return nil
}

func decodeBinary(secret string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("error decoding binary secret from base64: %w", err)
	}
	return b, nil
}
