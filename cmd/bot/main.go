package main

import (
	"context"
	"os"

	"github.com/matheuscscp/splitbill/internal/bot"
	_ "github.com/matheuscscp/splitbill/logging"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := bot.Run(context.Background(), os.Getenv("USER")); err != nil {
		logrus.Fatalf("error running bot: %v", err)
	}
}
