package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matheuscscp/splitbill/internal/rotatesecret"
	_ "github.com/matheuscscp/splitbill/logging"

	"github.com/sirupsen/logrus"
)

// main rotates a secret by hand, e.g. the start page JWT secret
// (projects/<project>/secrets/<name>), outside the Secret Manager schedule.
func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s projects/<project>/secrets/<name>\n", os.Args[0])
		return
	}

	secretID := os.Args[1]
	if err := rotatesecret.Run(context.Background(), secretID); err != nil {
		logrus.Fatalf("error rotating secret '%s': %v", secretID, err)
	}
}
