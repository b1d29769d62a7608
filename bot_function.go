package splitbill

import (
	"context"
	"fmt"

	"github.com/matheuscscp/splitbill/internal/bot"
	"github.com/matheuscscp/splitbill/services/events"
)

// Bot is a Pub/Sub Cloud Function.
func Bot(ctx context.Context, m PubSubMessage) error {
	user, err := events.ParseStartBotData(m.Data)
	if err != nil {
		return fmt.Errorf("error parsing start-bot event: %w", err)
	}
	return bot.Run(ctx, user)
}
