package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/matheuscscp/splitbill/logging"
	"github.com/matheuscscp/splitbill/models"
	"github.com/matheuscscp/splitbill/parser"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func main() {
	asYAML := flag.Bool("yaml", false, "print the bill as YAML instead of JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-yaml] [TRANSCRIPT_FILE]\n\nReads stdin when no file is given.\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	text, err := readTranscript(flag.Arg(0))
	if err != nil {
		logrus.Fatal(err)
	}
	bill := parser.ParseReceipt(text)
	if err := write(os.Stdout, bill, *asYAML); err != nil {
		logrus.Fatal(err)
	}
}

func readTranscript(path string) (string, error) {
	var b []byte
	var err error
	if path == "" || path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("error reading transcript: %w", err)
	}
	return string(b), nil
}

func write(w io.Writer, bill *models.Bill, asYAML bool) error {
	if asYAML {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(bill); err != nil {
			return fmt.Errorf("error marshaling bill: %w", err)
		}
		return encoder.Close()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bill); err != nil {
		return fmt.Errorf("error marshaling bill: %w", err)
	}
	return nil
}
