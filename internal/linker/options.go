package linker

import (
	"strings"
)

// Attribute is an extra name="value" pair rendered on every anchor after href.
type Attribute struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Value string `yaml:"value" toml:"value" json:"value"`
}

// Options configures a single AutoLink call. The zero value links URLs and
// emails with no extra attributes and the matched text as the display text.
type Options struct {
	// TextReplacer maps the matched text to the visible link text.
	// It never affects href. Nil means identity.
	TextReplacer func(string) string

	// Skip reports spans that must stay plain text. Nil links every span.
	Skip func(Span) bool

	// Attributes are rendered in order after href.
	// Values are written as given; callers are trusted.
	Attributes []Attribute

	// Mode selects the active pattern families.
	Mode LinkMode
}

// DefaultOptions returns the zero configuration.
func DefaultOptions() Options {
	return Options{Mode: ModeAll}
}

// WithAttribute appends an anchor attribute.
func (o Options) WithAttribute(name, value string) Options {
	attrs := make([]Attribute, len(o.Attributes), len(o.Attributes)+1)
	copy(attrs, o.Attributes)
	o.Attributes = append(attrs, Attribute{Name: name, Value: value})
	return o
}

// WithTextReplacer sets the display text transform.
func (o Options) WithTextReplacer(fn func(string) string) Options {
	o.TextReplacer = fn
	return o
}

// WithMode sets the link mode.
func (o Options) WithMode(m LinkMode) Options {
	o.Mode = m
	return o
}

// WithSkip sets the skip predicate.
func (o Options) WithSkip(fn func(Span) bool) Options {
	o.Skip = fn
	return o
}

// Validate checks the mode and every attribute name.
func (o Options) Validate() error {
	if !o.Mode.Valid() {
		return &ConfigError{Field: "mode", Value: o.Mode.String(), Err: ErrInvalidMode}
	}
	for _, a := range o.Attributes {
		if err := ValidateAttributeName(a.Name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAttributeName rejects names that would break the anchor markup.
// href is reserved because it is always rendered first.
func ValidateAttributeName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n\"'<>=/") {
		return &ConfigError{Field: "attribute", Value: name, Err: ErrInvalidAttribute}
	}
	if strings.EqualFold(name, "href") {
		return &ConfigError{Field: "attribute", Value: name, Err: ErrInvalidAttribute}
	}
	return nil
}
