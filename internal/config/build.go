package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

// Output formats.
const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Validate checks values that can be checked without building anything.
func (c *Config) Validate() error {
	var errs []error
	switch c.Output {
	case "", OutputAuto, OutputText, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("output: unknown format %q (want auto, text, json or yaml)", c.Output))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency: must not be negative"))
	}
	if _, err := c.PlatformInfo(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LintConfig(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PlatformInfo resolves Platform and Version.
func (c *Config) PlatformInfo() (platform.Platform, error) {
	name := c.Platform
	if name == "" {
		name = DefaultPlatform
	}
	p, err := platform.Parse(name)
	if err != nil {
		return platform.Platform{}, fmt.Errorf("platform: %w", err)
	}
	if c.Version != "" {
		v, err := platform.ParseVersion(c.Version)
		if err != nil {
			return platform.Platform{}, fmt.Errorf("version: %w", err)
		}
		p.Version = v
	}
	return p, nil
}

// SessionOptions returns the options for a new session on p.
func (c *Config) SessionOptions(p platform.Platform) ([]session.Option, error) {
	var opts []session.Option
	if strings.TrimSpace(c.SQLMode) != "" {
		m, err := p.ParseMode(c.SQLMode)
		if err != nil {
			return nil, fmt.Errorf("sql_mode: %w", err)
		}
		opts = append(opts, session.WithMode(m))
	}
	if c.Delimiter != "" {
		opts = append(opts, session.WithDelimiter(c.Delimiter))
	}
	if c.Charset != "" {
		opts = append(opts, session.WithCharset(c.Charset))
	}
	if c.Schema != "" {
		opts = append(opts, session.WithSchema(c.Schema))
	}
	return opts, nil
}

// NewSession creates a session from the configuration.
func (c *Config) NewSession() (*session.Session, error) {
	p, err := c.PlatformInfo()
	if err != nil {
		return nil, err
	}
	opts, err := c.SessionOptions(p)
	if err != nil {
		return nil, err
	}
	return session.New(p, opts...)
}

// NormalizeOptions returns the normalizer switches.
func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		QuoteAllNames:    c.QuoteAllNames,
		EscapeWhitespace: c.EscapeWhitespace,
	}
}

// LintConfig converts the lint section to a lint.Config.
func (c *Config) LintConfig() (*lint.Config, error) {
	cfg := lint.NewConfig()
	for _, id := range c.Lint.Disabled {
		cfg.Disable(strings.TrimSpace(id))
	}
	for id, s := range c.Lint.Severity {
		sev, ok := core.ParseSeverity(s)
		if !ok {
			return nil, fmt.Errorf("lint.severity.%s: unknown severity %q", id, s)
		}
		cfg.SetSeverity(id, sev)
	}
	for id, opts := range c.Lint.Rules {
		cfg.SetRuleOptions(id, opts)
	}
	return cfg, nil
}

// Workers returns the number of files to analyze at once.
func (c *Config) Workers() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.NumCPU()
}
