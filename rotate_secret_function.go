package splitbill

import (
	"context"

	"github.com/matheuscscp/splitbill/internal/rotatesecret"
	_ "github.com/matheuscscp/splitbill/logging"

	"github.com/sirupsen/logrus"
)

const secretRotateEventType = "SECRET_ROTATE"

// RotateSecret is a Pub/Sub Cloud Function subscribed to Secret Manager
// notifications. It rotates the JWT secret of the start page.
func RotateSecret(ctx context.Context, m PubSubMessage) error {
	if m.Attributes.EventType != secretRotateEventType {
		logrus.Infof("event %s skipped on secret %s", m.Attributes.EventType, m.Attributes.SecretID)
		return nil
	}
	return rotatesecret.Run(ctx, m.Attributes.SecretID)
}
