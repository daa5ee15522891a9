package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
)

func TestValidator_Defaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
}

func TestValidator_SmartDefaults(t *testing.T) {
	cfg := Default()
	cfg.Scan.Workers = 0
	cfg.Scan.Include = nil
	cfg.Suggest.MaxResults = 0

	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers)
	assert.Equal(t, []string{"**/*.php"}, cfg.Scan.Include)
	assert.Equal(t, DefaultSuggestMaxResults, cfg.Suggest.MaxResults)
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero file size", func(c *Config) { c.Parser.MaxFileSize = 0 }, "parser"},
		{"huge file size", func(c *Config) { c.Parser.MaxFileSize = 200 * 1024 * 1024 }, "parser"},
		{"empty define name", func(c *Config) { c.Index.DefineFunctions = []string{" "} }, "index"},
		{"define name with parens", func(c *Config) { c.Index.DefineFunctions = []string{"define()"} }, "index"},
		{"negative distance", func(c *Config) { c.Suggest.MaxDistance = -2 }, "suggest"},
		{"negative results", func(c *Config) { c.Suggest.MaxResults = -1 }, "suggest"},
		{"negative workers", func(c *Config) { c.Scan.Workers = -1 }, "scan.workers"},
		{"bad pattern", func(c *Config) { c.Scan.Exclude = []string{"src/[a-"} }, "scan.pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := NewValidator().ValidateAndSetDefaults(cfg)
			require.Error(t, err)

			var multi *lcierrors.MultiError
			require.ErrorAs(t, err, &multi)
			require.Len(t, multi.Errors, 1)

			var cfgErr *lcierrors.ConfigError
			require.ErrorAs(t, multi.Errors[0], &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidator_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Parser.MaxFileSize = -1
	cfg.Suggest.MaxDistance = -1
	cfg.Scan.Workers = -1

	err := NewValidator().ValidateAndSetDefaults(cfg)
	var multi *lcierrors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 3)
}
