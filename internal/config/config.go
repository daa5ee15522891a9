package config

import (
	"os"
	"runtime"
)

// DefaultConfigFile is the config file name looked up by the CLI
const DefaultConfigFile = ".phpsym.kdl"

// Default values shared by code and configuration parsing
const (
	DefaultMaxFileSize        = 4 * 1024 * 1024
	DefaultSuggestMaxDistance = 3
	DefaultSuggestMaxResults  = 5
)

type Config struct {
	Version int
	Parser  Parser
	Index   Index
	Suggest Suggest
	Scan    Scan
}

type Parser struct {
	// Strict rejects files whose syntax tree contains errors with a
	// SourceUnreadable error. When false the error-tolerant tree is indexed.
	Strict      bool
	MaxFileSize int64
}

type Index struct {
	// DefineFunctions are the call names (case-insensitive) that may define
	// a global constant at runtime
	DefineFunctions []string
}

type Suggest struct {
	Enabled     bool
	MaxDistance int // Levenshtein distance bound for "did you mean" hints
	MaxResults  int
}

type Scan struct {
	Workers        int // 0 = auto-detect (NumCPU)
	FollowSymlinks bool
	Include        []string // doublestar patterns, relative to the scan root
	Exclude        []string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Version: 1,
		Parser: Parser{
			Strict:      true,
			MaxFileSize: DefaultMaxFileSize,
		},
		Index: Index{
			DefineFunctions: []string{"define"},
		},
		Suggest: Suggest{
			Enabled:     true,
			MaxDistance: DefaultSuggestMaxDistance,
			MaxResults:  DefaultSuggestMaxResults,
		},
		Scan: Scan{
			Workers: runtime.NumCPU(),
			Include: []string{"**/*.php"},
			Exclude: []string{"**/.*/**", "**/node_modules/**"},
		},
	}
}

// Load reads the KDL configuration at path. A missing file yields the
// defaults; a malformed or invalid file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
