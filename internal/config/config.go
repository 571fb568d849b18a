// Package config loads .autolinkrc.yaml / .autolinkrc.toml files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/leonardomso/autolink/internal/filter"
	"github.com/leonardomso/autolink/internal/linker"
	"github.com/leonardomso/autolink/internal/output"
	"github.com/leonardomso/autolink/internal/transform"
)

// DefaultConfigFileName is the preferred configuration file name.
const DefaultConfigFileName = ".autolinkrc.yaml"

// ConfigFileNames lists the names FindAndLoad looks for in each directory, in order.
var ConfigFileNames = []string{
	DefaultConfigFileName,
	".autolinkrc.yml",
	".autolinkrc.toml",
}

// Config represents the complete configuration structure.
type Config struct {
	Link   LinkConfig   `yaml:"link" toml:"link"`
	Output OutputConfig `yaml:"output" toml:"output"`
	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	Ignore IgnoreConfig `yaml:"ignore" toml:"ignore"`
}

// LinkConfig controls how anchors are produced.
type LinkConfig struct {
	// Mode is "all", "url" or "email". Empty means all.
	Mode string `yaml:"mode" toml:"mode"`

	// Transform names the display text transform, e.g. "strip-scheme|truncate:40".
	Transform string `yaml:"transform" toml:"transform"`

	// Attributes are extra anchor attributes, rendered in file order after href.
	Attributes Attributes `yaml:"attributes" toml:"attributes"`
}

// ScanConfig selects the files to process.
type ScanConfig struct {
	// Types are file type names such as "md" or "txt".
	Types []string `yaml:"types" toml:"types"`

	// Include patterns (glob) - if set, only matching files are processed.
	Include []string `yaml:"include" toml:"include"`

	// Exclude patterns (glob) - matching files are skipped.
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// IgnoreConfig holds rules for spans that stay plain text.
type IgnoreConfig struct {
	// Domains to ignore (automatically includes subdomains).
	// Applies to URL hosts and to the domain part of emails.
	Domains []string `yaml:"domains" toml:"domains"`

	// Patterns are glob patterns matched against the span text.
	Patterns []string `yaml:"patterns" toml:"patterns"`

	// Regex are regular expressions matched against the span text.
	Regex []string `yaml:"regex" toml:"regex"`
}

// OutputConfig holds report settings for the find command.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// Attributes is an ordered list of anchor attributes.
//
// In YAML it may be written as a mapping, whose key order is kept:
//
//	attributes:
//	  target: _blank
//	  rel: noopener
//
// or as a list of {name, value} entries. TOML uses [[link.attributes]].
type Attributes []linker.Attribute

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Attributes) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		attrs := make(Attributes, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var name, value string
			if err := node.Content[i].Decode(&name); err != nil {
				return fmt.Errorf("line %d: attribute name: %w", node.Content[i].Line, err)
			}
			if err := node.Content[i+1].Decode(&value); err != nil {
				return fmt.Errorf("line %d: attribute %q: %w", node.Content[i+1].Line, name, err)
			}
			attrs = append(attrs, linker.Attribute{Name: name, Value: value})
		}
		*a = attrs
		return nil

	case yaml.SequenceNode:
		var list []linker.Attribute
		if err := node.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil

	default:
		return fmt.Errorf("line %d: attributes must be a mapping or a list", node.Line)
	}
}

// LoadFrom reads configuration from a specific path. The decoder is chosen
// by extension: .toml is TOML, anything else YAML.
// Returns an empty config if the file doesn't exist (not an error).
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return LoadFrom(configPath)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Validate checks every value that has a fixed vocabulary.
func (c *Config) Validate() error {
	if _, err := linker.ParseMode(c.Link.Mode); err != nil {
		return fmt.Errorf("link.mode: %w", err)
	}
	if err := transform.Validate(c.Link.Transform); err != nil {
		return fmt.Errorf("link.transform: %w", err)
	}
	for _, a := range c.Link.Attributes {
		if err := linker.ValidateAttributeName(a.Name); err != nil {
			return fmt.Errorf("link.attributes: %w", err)
		}
	}
	if c.Output.Format != "" && !output.IsValidFormat(c.Output.Format) {
		return fmt.Errorf("output.format: unknown format %q (supported: %s)",
			c.Output.Format, strings.Join(output.ValidFormats(), ", "))
	}
	return nil
}

// IsEmpty returns true if nothing is configured.
func (c *Config) IsEmpty() bool {
	return c.Link.Mode == "" &&
		c.Link.Transform == "" &&
		len(c.Link.Attributes) == 0 &&
		len(c.Scan.Types) == 0 &&
		len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		!c.HasIgnoreRules() &&
		c.Output.Format == ""
}

// HasIgnoreRules returns true if any ignore rule is defined.
func (c *Config) HasIgnoreRules() bool {
	return len(c.Ignore.Domains) > 0 ||
		len(c.Ignore.Patterns) > 0 ||
		len(c.Ignore.Regex) > 0
}

// HasTypes returns true if scan types are configured.
func (c *Config) HasTypes() bool {
	return len(c.Scan.Types) > 0
}

// Merge folds other into c. List fields are appended; scalar fields are
// replaced when other sets them.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Link.Mode != "" {
		c.Link.Mode = other.Link.Mode
	}
	if other.Link.Transform != "" {
		c.Link.Transform = other.Link.Transform
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	c.Link.Attributes = append(c.Link.Attributes, other.Link.Attributes...)
	c.Scan.Types = append(c.Scan.Types, other.Scan.Types...)
	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)
	c.Ignore.Domains = append(c.Ignore.Domains, other.Ignore.Domains...)
	c.Ignore.Patterns = append(c.Ignore.Patterns, other.Ignore.Patterns...)
	c.Ignore.Regex = append(c.Ignore.Regex, other.Ignore.Regex...)
}

// LinkerOptions builds linker options from the link section.
func (c *Config) LinkerOptions() (linker.Options, error) {
	mode, err := linker.ParseMode(c.Link.Mode)
	if err != nil {
		return linker.Options{}, err
	}
	replacer, err := transform.Parse(c.Link.Transform)
	if err != nil {
		return linker.Options{}, err
	}

	opts := linker.DefaultOptions().WithMode(mode)
	if replacer != nil {
		opts = opts.WithTextReplacer(replacer)
	}
	for _, a := range c.Link.Attributes {
		opts = opts.WithAttribute(a.Name, a.Value)
	}
	return opts, opts.Validate()
}

// FilterConfig returns the ignore section as filter configuration.
func (c *Config) FilterConfig() filter.Config {
	return filter.Config{
		Domains:       c.Ignore.Domains,
		GlobPatterns:  c.Ignore.Patterns,
		RegexPatterns: c.Ignore.Regex,
	}
}
