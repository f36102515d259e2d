package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config - process settings read from the environment
type Config struct {
	Addr            string        `env:"RECEIPTS_ADDR,default=:8080"`
	LogLevel        string        `env:"RECEIPTS_LOG_LEVEL,default=info"`
	LogFormat       string        `env:"RECEIPTS_LOG_FORMAT,default=text"`
	DBPath          string        `env:"RECEIPTS_DB_PATH,default=:memory:"`
	ShutdownTimeout time.Duration `env:"RECEIPTS_SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads envFile when it exists, then decodes the environment into a Config.
// An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	// strict so malformed values fail instead of decoding to zero;
	// defaults still apply when nothing in the environment is set
	if err := envdecode.StrictDecode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Addr == "" {
		return errors.New("RECEIPTS_ADDR must not be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("RECEIPTS_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("RECEIPTS_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	if c.DBPath == "" {
		return errors.New("RECEIPTS_DB_PATH must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("RECEIPTS_SHUTDOWN_TIMEOUT: must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// NewLogger builds the process logger described by the config.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
