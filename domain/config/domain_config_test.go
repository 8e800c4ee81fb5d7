package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

func TestPresets(t *testing.T) {
	def := LoadDomainConfig("")
	assert.Equal(t, 2, def.IndentWidth)
	assert.Equal(t, ".md", def.LinkExtension)
	assert.True(t, def.AllowPlaceholderLinks)
	assert.NoError(t, def.Validate())

	strict := LoadDomainConfig("strict")
	assert.False(t, strict.AllowPlaceholderLinks)
	assert.NoError(t, strict.Validate())
}

func TestDomainConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *DomainConfig)
		fields []string
	}{
		{"zero indent", func(c *DomainConfig) { c.IndentWidth = 0 }, []string{"IndentWidth"}},
		{"extension without dot", func(c *DomainConfig) { c.LinkExtension = "md" }, []string{"LinkExtension"}},
		{"bare dot", func(c *DomainConfig) { c.LinkExtension = "." }, []string{"LinkExtension"}},
		{"extension with paren", func(c *DomainConfig) { c.LinkExtension = ".m)" }, []string{"LinkExtension"}},
		{
			"several",
			func(c *DomainConfig) {
				c.IndentWidth = -1
				c.MaxTitleLength = 0
			},
			[]string{"IndentWidth", "MaxTitleLength"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultDomainConfig()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)

			verrs, ok := err.(*pkgerrors.ValidationErrors)
			require.True(t, ok)
			for _, field := range tt.fields {
				assert.Contains(t, verrs.ToMap(), field)
			}
		})
	}
}
