package config

import (
	"fmt"
	"strings"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

// DomainConfig holds the knobs of the outline grammar and binder rules
type DomainConfig struct {
	// Outline grammar
	IndentWidth   int    // spaces per nesting level
	LinkExtension string // suffix of link targets, e.g. ".md"

	// AllowPlaceholderLinks accepts "- [Title]()" as a placeholder list line.
	// When false such lines land in the ledger.
	AllowPlaceholderLinks bool

	// Binder item constraints
	MaxTitleLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		IndentWidth:           2,
		LinkExtension:         ".md",
		AllowPlaceholderLinks: true,
		MaxTitleLength:        500,
	}
}

// StrictDomainConfig only recognises linked items and keeps titles short
func StrictDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.AllowPlaceholderLinks = false
	config.MaxTitleLength = 200
	return config
}

// LoadDomainConfig picks a preset by name
func LoadDomainConfig(preset string) *DomainConfig {
	switch preset {
	case "strict":
		return StrictDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	errs := pkgerrors.NewValidationErrors()

	if c.IndentWidth < 1 {
		errs.Add("IndentWidth", fmt.Sprintf("indent width must be at least 1, got %d", c.IndentWidth))
	}
	if !strings.HasPrefix(c.LinkExtension, ".") || len(c.LinkExtension) < 2 {
		errs.Add("LinkExtension", fmt.Sprintf("link extension must look like \".md\", got %q", c.LinkExtension))
	}
	if strings.ContainsAny(c.LinkExtension, "()[] \t") {
		errs.Add("LinkExtension", "link extension cannot contain brackets or whitespace")
	}
	if c.MaxTitleLength < 1 {
		errs.Add("MaxTitleLength", "max title length must be positive")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
