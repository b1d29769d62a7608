package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// LevelEnv names the variable holding the logrus level, e.g. "debug".
const LevelEnv = "LOG_LEVEL"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
	logrus.SetLevel(levelFromEnv())
}

func levelFromEnv() logrus.Level {
	s := os.Getenv(LevelEnv)
	if s == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		logrus.Warnf("invalid %s '%s', using info: %v", LevelEnv, s, err)
		return logrus.InfoLevel
	}
	return level
}
