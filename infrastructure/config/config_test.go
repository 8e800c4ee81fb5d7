package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

var envKeys = []string{
	"ENVIRONMENT", "LOG_LEVEL", "ENABLE_METRICS",
	"PROSEMARK_CONFIG", "PROSEMARK_PROJECT_DIR", "PROSEMARK_BINDER_FILE", "PROSEMARK_PROFILE",
	"PROSEMARK_INDENT_WIDTH", "PROSEMARK_LINK_EXTENSION", "PROSEMARK_WATCH", "PROSEMARK_REWRITE",
}

// isolate clears every variable LoadConfig reads and points it at a fresh
// project directory
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Setenv("PROSEMARK_PROJECT_DIR", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "_binder.md"), cfg.BinderPath())
	assert.Equal(t, 100*time.Millisecond, cfg.WatchDebounce)
	assert.False(t, cfg.Watch)
	assert.Equal(t, []string{"defaults", "environment"}, cfg.LoadedFrom)

	domain := cfg.Domain()
	assert.Equal(t, 2, domain.IndentWidth)
	assert.Equal(t, ".md", domain.LinkExtension)
	assert.True(t, domain.AllowPlaceholderLinks)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultConfigFile), `
log_level: debug
binder_file: outline.md
watch: true
watch_debounce: 250ms
outline:
  indent_width: 4
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "outline.md"), cfg.BinderPath())
	assert.True(t, cfg.Watch)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, 4, cfg.Domain().IndentWidth)
	assert.Equal(t, ".md", cfg.Domain().LinkExtension)
	assert.Contains(t, cfg.LoadedFrom, filepath.Join(dir, DefaultConfigFile))
}

func TestLoadConfig_ProfileThenOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultConfigFile), `
outline:
  profile: strict
  max_title_length: 80
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Domain().AllowPlaceholderLinks)
	assert.Equal(t, 80, cfg.Domain().MaxTitleLength)
}

func TestLoadConfig_EnvironmentWins(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultConfigFile), "log_level: debug\n")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PROSEMARK_INDENT_WIDTH", "3")
	t.Setenv("PROSEMARK_LINK_EXTENSION", ".txt")
	t.Setenv("PROSEMARK_BINDER_FILE", "book.txt")
	t.Setenv("PROSEMARK_WATCH", "yes")
	t.Setenv("PROSEMARK_REWRITE", "1")
	t.Setenv("ENABLE_METRICS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3, cfg.Domain().IndentWidth)
	assert.Equal(t, ".txt", cfg.Domain().LinkExtension)
	assert.Equal(t, filepath.Join(dir, "book.txt"), cfg.BinderPath())
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.Rewrite)
	assert.True(t, cfg.EnableMetrics)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yml")
	writeFile(t, path, "environment: test\n")
	t.Setenv("PROSEMARK_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)

	t.Setenv("PROSEMARK_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		env   map[string]string
		field string
	}{
		{name: "unknown key", file: "colour: blue\n"},
		{name: "bad yaml", file: "outline: [\n"},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}, field: "loglevel"},
		{name: "bad environment", env: map[string]string{"ENVIRONMENT": "moon"}, field: "environment"},
		{name: "zero indent", env: map[string]string{"PROSEMARK_INDENT_WIDTH": "0"}, field: "indentwidth"},
		{name: "extension without dot", env: map[string]string{"PROSEMARK_LINK_EXTENSION": "md"}, field: "LinkExtension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, DefaultConfigFile), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			require.Error(t, err)
			if tt.field != "" {
				var verrs *pkgerrors.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Contains(t, verrs.ToMap(), tt.field)
			}
		})
	}
}

func TestLoadConfig_MissingProjectDir(t *testing.T) {
	isolate(t)
	t.Setenv("PROSEMARK_PROJECT_DIR", filepath.Join(t.TempDir(), "nope"))

	_, err := LoadConfig()
	var verrs *pkgerrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "projectdir")
}
