package jarcache

import "github.com/kelseyhightower/envconfig"

// Config carries the recognized cache settings in a form suitable for
// environment-driven deployments. It mirrors the functional options.
type Config struct {
	RootDir         string `envconfig:"ROOT_DIR" required:"true"`
	Touch           bool   `envconfig:"TOUCH"`
	HashConcurrency int64  `envconfig:"HASH_CONCURRENCY" default:"1"`
	SingleFlight    bool   `envconfig:"SINGLE_FLIGHT"`
}

// ConfigFromEnv reads a Config from JARCACHE_-prefixed environment
// variables (JARCACHE_ROOT_DIR, JARCACHE_TOUCH, ...).
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("jarcache", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a cache from cfg. Additional options are
// applied after the ones derived from cfg and may override them.
func NewFromConfig(cfg Config, opts ...Option) (*Cache, error) {
	base := []Option{
		WithTouch(cfg.Touch),
		WithHashConcurrency(cfg.HashConcurrency),
		WithSingleFlight(cfg.SingleFlight),
	}
	return New(cfg.RootDir, append(base, opts...)...)
}
