package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Parser.Strict)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Parser.MaxFileSize)
	assert.Equal(t, []string{"define"}, cfg.Index.DefineFunctions)
	assert.True(t, cfg.Suggest.Enabled)
	assert.Equal(t, DefaultSuggestMaxDistance, cfg.Suggest.MaxDistance)
	assert.Equal(t, DefaultSuggestMaxResults, cfg.Suggest.MaxResults)
	assert.Equal(t, []string{"**/*.php"}, cfg.Scan.Include)
	assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers)
}

func TestParseKDL_AllSections(t *testing.T) {
	kdlContent := `
version 2
parser {
    strict false
    max_file_size "512KB"
}
index {
    define_functions "define" "wp_define"
}
suggest {
    enabled false
    max_distance 1
    max_results 2
}
scan {
    workers 3
    follow_symlinks true
    include "src/**/*.php" "lib/**/*.php"
    exclude "vendor/**"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Version)
	assert.False(t, cfg.Parser.Strict)
	assert.Equal(t, int64(512*1024), cfg.Parser.MaxFileSize)
	assert.Equal(t, []string{"define", "wp_define"}, cfg.Index.DefineFunctions)
	assert.False(t, cfg.Suggest.Enabled)
	assert.Equal(t, 1, cfg.Suggest.MaxDistance)
	assert.Equal(t, 2, cfg.Suggest.MaxResults)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.FollowSymlinks)
	assert.Equal(t, []string{"src/**/*.php", "lib/**/*.php"}, cfg.Scan.Include)
	assert.Equal(t, []string{"vendor/**"}, cfg.Scan.Exclude)
}

func TestParseKDL_BlockFormatLists(t *testing.T) {
	kdlContent := `
scan {
    exclude {
        "vendor/**"
        "tests/fixtures/**"
    }
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/**", "tests/fixtures/**"}, cfg.Scan.Exclude)
	// untouched sections keep their defaults
	assert.True(t, cfg.Parser.Strict)
}

func TestParseKDL_NumericFileSize(t *testing.T) {
	cfg, err := parseKDL(`parser { max_file_size 2048; }`)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.Parser.MaxFileSize)
}

func TestParseKDL_Invalid(t *testing.T) {
	_, err := parseKDL(`parser { strict true`)
	assert.Error(t, err)

	_, err = parseKDL(`parser { max_file_size "lots"; }`)
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"10":    10,
		"10B":   10,
		"2KB":   2048,
		"4MB":   4 * 1024 * 1024,
		"1gb":   1024 * 1024 * 1024,
		" 3 MB": 3 * 1024 * 1024,
	}
	for in, want := range tests {
		got, err := parseSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseSize("MB")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), DefaultConfigFile))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Parser.Strict)
	})

	t.Run("file is parsed and validated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte(`scan { workers 0; }`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers, "zero workers means auto-detect")
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		require.NoError(t, os.WriteFile(path, []byte(`suggest { max_distance -1; }`), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		var cfgErr *lcierrors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}
