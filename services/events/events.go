package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/sirupsen/logrus"
)

type (
	// Service ...
	Service interface {
		Publish(ctx context.Context, topicID string, data []byte) (id string, err error)
		Close()
	}

	// SnapshotSaved is published after a bill is saved or deleted.
	SnapshotSaved struct {
		SnapshotID string    `json:"snapshotId"`
		Deleted    bool      `json:"deleted,omitempty"`
		Total      int64     `json:"total"`
		Date       time.Time `json:"date"`
	}

	service struct {
		client *pubsub.Client
	}
)

const (
	// StartBotPrefix prefixes the data of start-bot messages, followed by
	// the user name.
	StartBotPrefix = "start-"
)

var (
	// ErrServiceNotConfigured ...
	ErrServiceNotConfigured = errors.New("the pubsub client was not configured with a projectID")
)

// NewService returns a service that fails every Publish with
// ErrServiceNotConfigured when projectID is empty.
func NewService(ctx context.Context, projectID string) (Service, error) {
	if projectID == "" {
		return &service{}, nil
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error creating pubsub client: %w", err)
	}
	return &service{client}, nil
}

func (s *service) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logrus.Errorf("error closing pubsub client: %v", err)
		}
	}
}

func (s *service) Publish(ctx context.Context, topicID string, data []byte) (id string, err error) {
	if s.client == nil {
		return "", ErrServiceNotConfigured
	}
	msg := &pubsub.Message{Data: data}
	id, err = s.client.Topic(topicID).Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("error publishing pubsub message: %w", err)
	}
	return
}

// PublishJSON ...
func PublishJSON(ctx context.Context, s Service, topicID string, v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error marshaling event: %w", err)
	}
	return s.Publish(ctx, topicID, b)
}

// StartBotData ...
func StartBotData(user string) []byte {
	return []byte(StartBotPrefix + user)
}

// ParseStartBotData returns the user that requested the start.
func ParseStartBotData(data []byte) (string, error) {
	s := string(data)
	if len(s) <= len(StartBotPrefix) || s[:len(StartBotPrefix)] != StartBotPrefix {
		return "", fmt.Errorf("message data should be '%s<user>' but was '%s'", StartBotPrefix, s)
	}
	return s[len(StartBotPrefix):], nil
}
