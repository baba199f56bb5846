package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PackagePath string // root of the analysed package
	PackageName string // namespace prefix for the package's files
	CachePath   string // extra serialised declarations loaded before analysis
	Output      string // knowledge-base output path; empty writes to stdout

	Find      string // spoken phrase to search commands for
	FullMatch bool   // require the phrase to match whole rules
	Strict    bool   // abort on the first recoverable problem

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PackagePath == "" {
		return nil, errors.New("PackagePath is a required configuration field and cannot be empty")
	}
	if cfg.PackageName == "" {
		cfg.PackageName = "user"
	}
	return &cfg, nil
}
