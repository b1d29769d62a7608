package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matheuscscp/splitbill/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBot(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "bot.yml")
	require.NoError(t, os.WriteFile(confFile, []byte(`
telegram:
  tokenSecretID: projects/p/secrets/telegram
  chatID: -42
openAI:
  token: sk-test
  model: gpt-4o
  languageHint: Indonesian
snapshots:
  sqlitePath: /tmp/splitbill.db
events:
  projectID: p
  snapshotTopicID: snapshot-saved
`), 0o600))
	t.Setenv(config.ConfFileEnv, confFile)

	var conf config.Bot
	require.NoError(t, config.Load(&conf))
	assert.Equal(t, "projects/p/secrets/telegram", conf.Telegram.TokenSecretID)
	assert.Equal(t, int64(-42), conf.Telegram.ChatID)
	assert.Equal(t, "sk-test", conf.OpenAI.Token)
	assert.Equal(t, "Indonesian", conf.OpenAI.LanguageHint)
	assert.Equal(t, "/tmp/splitbill.db", conf.Snapshots.SQLitePath)
	assert.Empty(t, conf.Snapshots.Bucket)
	assert.Equal(t, "snapshot-saved", conf.Events.SnapshotTopicID)
}

func TestLoadStartBot(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "startbot.yml")
	require.NoError(t, os.WriteFile(confFile, []byte(`
users:
  ana: $2a$10$abcdefghijklmnopqrstuv
projectID: p
topicID: start-bot
jwtSecretID: projects/p/secrets/jwt
`), 0o600))
	t.Setenv(config.ConfFileEnv, confFile)

	var conf config.StartBot
	require.NoError(t, config.Load(&conf))
	assert.Equal(t, map[string]string{"ana": "$2a$10$abcdefghijklmnopqrstuv"}, conf.Users)
	assert.Equal(t, "start-bot", conf.TopicID)
	assert.Nil(t, conf.JWTSecret)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(config.ConfFileEnv, filepath.Join(t.TempDir(), "missing.yml"))
	var conf config.Bot
	err := config.Load(&conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	confFile := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(confFile, []byte("telegram: [\n"), 0o600))
	t.Setenv(config.ConfFileEnv, confFile)
	err = config.Load(&conf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error unmarshaling config")
}
