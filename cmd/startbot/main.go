package main

import (
	"context"
	"net/http"

	"github.com/matheuscscp/splitbill/config"
	"github.com/matheuscscp/splitbill/internal/startbot"
	_ "github.com/matheuscscp/splitbill/logging"
	"github.com/matheuscscp/splitbill/services/events"
	"github.com/matheuscscp/splitbill/services/secrets"

	"github.com/sirupsen/logrus"
)

const addr = "localhost:8080"

func main() {
	ctx := context.Background()

	var conf config.StartBot
	if err := config.Load(&conf); err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	// local runs sign tokens with a random secret
	var err error
	conf.JWTSecret, err = secrets.NewMockService(nil).ReadBinary(ctx, conf.JWTSecretID)
	if err != nil {
		logrus.Fatalf("error generating jwt secret: %v", err)
	}

	eventsService, err := events.NewService(ctx, conf.ProjectID)
	if err != nil {
		logrus.Fatalf("error creating events service: %v", err)
	}
	defer eventsService.Close()

	logrus.Infof("serving start page on http://%s", addr)
	if err := http.ListenAndServe(addr, startbot.NewHandler(&conf, eventsService)); err != nil {
		logrus.Fatalf("error on ListenAndServe(): %v", err)
	}
}
