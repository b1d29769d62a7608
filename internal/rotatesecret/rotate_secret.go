package rotatesecret

import (
	"context"
	"fmt"

	"github.com/matheuscscp/splitbill/services/secrets"
)

// Run replaces the latest version of secretID with fresh random bytes.
// The start page signs its login tokens with this secret, so rotating it
// logs every user out of the page; the bot itself is not affected.
func Run(ctx context.Context, secretID string) error {
	secretsService, err := secrets.NewService(ctx)
	if err != nil {
		return fmt.Errorf("error creating secrets service: %w", err)
	}
	defer secretsService.Close()
	return secretsService.Rotate(ctx, secretID)
}
