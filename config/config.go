package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// Bot ...
	Bot struct {
		Telegram  Telegram  `yaml:"telegram"`
		OpenAI    OpenAI    `yaml:"openAI"`
		Snapshots Snapshots `yaml:"snapshots"`
		Events    Events    `yaml:"events"`
	}

	// Telegram ...
	Telegram struct {
		Token         string `yaml:"token"`
		TokenSecretID string `yaml:"tokenSecretID"`
		ChatID        int64  `yaml:"chatID"`
	}

	// OpenAI ...
	OpenAI struct {
		Token         string `yaml:"token"`
		TokenSecretID string `yaml:"tokenSecretID"`
		Model         string `yaml:"model"`
		// LanguageHint is passed to the OCR prompt, e.g. "Indonesian".
		LanguageHint string `yaml:"languageHint"`
	}

	// Snapshots selects where saved bills are kept. Bucket wins over
	// SQLitePath; with neither set saved bills live in memory only.
	Snapshots struct {
		Bucket     string `yaml:"bucket"`
		Object     string `yaml:"object"`
		SQLitePath string `yaml:"sqlitePath"`
	}

	// Events ...
	Events struct {
		ProjectID       string `yaml:"projectID"`
		SnapshotTopicID string `yaml:"snapshotTopicID"`
	}

	// StartBot ...
	StartBot struct {
		// Users maps user names to bcrypt password hashes.
		Users       map[string]string `yaml:"users"`
		ProjectID   string            `yaml:"projectID"`
		TopicID     string            `yaml:"topicID"`
		JWTSecretID string            `yaml:"jwtSecretID"`

		JWTSecret []byte `yaml:"-"`
	}
)

const (
	// ConfFileEnv ...
	ConfFileEnv = "CONF_FILE"

	defaultConfFile = "config.yml"
)

// Load reads the YAML file named by CONF_FILE into v.
func Load(v interface{}) error {
	confFile := os.Getenv(ConfFileEnv)
	if confFile == "" {
		confFile = defaultConfFile
	}
	b, err := os.ReadFile(confFile)
	if err != nil {
		return fmt.Errorf("error reading config file '%s': %w", confFile, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	return nil
}
