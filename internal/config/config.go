// Package config loads environment configuration. A .env file in the
// working directory is honored when present; OS environment wins.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// APIBaseURL points at the review collaborator.
	APIBaseURL     string        `env:"OUTREACH_API_URL" envDefault:"http://localhost:8001"`
	RequestTimeout time.Duration `env:"OUTREACH_API_TIMEOUT" envDefault:"15s"`

	// StubAddr is where cmd/stubserver listens.
	StubAddr string `env:"OUTREACH_STUB_ADDR" envDefault:":8001"`

	// LogFile receives structured logs. Empty disables logging entirely;
	// the console UI owns stdout/stderr.
	LogFile string `env:"OUTREACH_LOG_FILE"`
}

func Load() (Config, error) {
	_ = godotenv.Load() // no .env file is fine, OS env is enough
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger builds the zap logger for the configured sink.
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogFile == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{c.LogFile}
	zc.ErrorOutputPaths = []string{c.LogFile}
	return zc.Build()
}
