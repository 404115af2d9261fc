package config

import (
	"io/fs"
	"strconv"
	"time"

	"github.com/arthur-debert/leakrules/pkg/decoder"
	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/rules"
	"github.com/arthur-debert/leakrules/pkg/source"
)

// Config is the complete leakrules configuration
type Config struct {
	Source SourceConfig `koanf:"source"`
	Output OutputConfig `koanf:"output"`
	Filter FilterConfig `koanf:"filter"`
}

// SourceConfig describes where the upstream document comes from
type SourceConfig struct {
	URL       string        `koanf:"url"`
	Format    string        `koanf:"format"`
	RulesKey  string        `koanf:"rules_key"`
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// OutputConfig describes the rule set artifact
type OutputConfig struct {
	Path string `koanf:"path"`
	// Mode is an octal permission string such as "0644"
	Mode string `koanf:"mode"`
}

// FilterConfig holds the selection settings
type FilterConfig struct {
	ExcludeIDs    []string `koanf:"exclude_ids"`
	MissingFields string   `koanf:"missing_fields"`
}

// Validate checks the configuration for values the pipeline cannot use
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return errors.New(errors.ErrConfigValid, "source.url must not be empty")
	}
	if c.Output.Path == "" {
		return errors.New(errors.ErrConfigValid, "output.path must not be empty")
	}
	if c.Source.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigValid, "source.timeout must be positive, got %s", c.Source.Timeout)
	}
	if _, err := decoder.ParseFormat(c.Source.Format); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid source.format")
	}
	if _, err := rules.ParseMissingFieldPolicy(c.Filter.MissingFields); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid filter.missing_fields")
	}
	if _, err := c.FileMode(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid output.mode")
	}
	return nil
}

// FileMode parses Output.Mode, defaulting to 0644
func (c *Config) FileMode() (fs.FileMode, error) {
	if c.Output.Mode == "" {
		return 0644, nil
	}
	mode, err := strconv.ParseUint(c.Output.Mode, 8, 32)
	if err != nil {
		return 0, err
	}
	return fs.FileMode(mode).Perm(), nil
}

// DocumentFormat returns the parsed source format
func (c *Config) DocumentFormat() decoder.Format {
	f, err := decoder.ParseFormat(c.Source.Format)
	if err != nil {
		return decoder.FormatAuto
	}
	return f
}

// SelectorOptions builds the rule selector options
func (c *Config) SelectorOptions() rules.Options {
	policy, err := rules.ParseMissingFieldPolicy(c.Filter.MissingFields)
	if err != nil {
		policy = rules.PolicyFail
	}

	excluded := c.Filter.ExcludeIDs
	if excluded == nil {
		excluded = []string{}
	}

	return rules.Options{
		ExcludeIDs:    excluded,
		MissingFields: policy,
	}
}

// HTTPOptions builds the fetcher options
func (c *Config) HTTPOptions() source.HTTPOptions {
	return source.HTTPOptions{
		Timeout:   c.Source.Timeout,
		UserAgent: c.Source.UserAgent,
	}
}
