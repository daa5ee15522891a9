package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
)

// maxParserFileSize bounds parser.max_file_size
const maxParserFileSize = 100 * 1024 * 1024

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// All problems are reported together as a MultiError of ConfigErrors.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	var errs []error

	if err := v.validateParserConfig(&cfg.Parser); err != nil {
		errs = append(errs, lcierrors.NewConfigError("parser", "", err))
	}

	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		errs = append(errs, lcierrors.NewConfigError("index", strings.Join(cfg.Index.DefineFunctions, ","), err))
	}

	if err := v.validateSuggestConfig(&cfg.Suggest); err != nil {
		errs = append(errs, lcierrors.NewConfigError("suggest", "", err))
	}

	errs = append(errs, v.validateScanConfig(&cfg.Scan)...)

	if err := lcierrors.NewMultiError(errs).ErrorOrNil(); err != nil {
		return err
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateParserConfig(p *Parser) error {
	if p.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", p.MaxFileSize)
	}
	if p.MaxFileSize > maxParserFileSize {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", p.MaxFileSize)
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	for _, name := range index.DefineFunctions {
		if strings.TrimSpace(name) == "" {
			return errors.New("define function names cannot be empty")
		}
		if strings.ContainsAny(name, " \t()$") {
			return fmt.Errorf("invalid define function name %q", name)
		}
	}
	return nil
}

func (v *Validator) validateSuggestConfig(s *Suggest) error {
	if s.MaxDistance < 0 {
		return fmt.Errorf("MaxDistance cannot be negative, got %d", s.MaxDistance)
	}
	if s.MaxResults < 0 {
		return fmt.Errorf("MaxResults cannot be negative, got %d", s.MaxResults)
	}
	return nil
}

func (v *Validator) validateScanConfig(s *Scan) []error {
	var errs []error
	if s.Workers < 0 {
		errs = append(errs, lcierrors.NewConfigError("scan.workers", fmt.Sprint(s.Workers),
			errors.New("workers cannot be negative")))
	}
	for _, pattern := range append(append([]string{}, s.Include...), s.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, lcierrors.NewConfigError("scan.pattern", pattern,
				errors.New("invalid glob pattern")))
		}
	}
	return errs
}

// setSmartDefaults fills values left at zero
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = runtime.NumCPU()
	}
	if len(cfg.Scan.Include) == 0 {
		cfg.Scan.Include = []string{"**/*.php"}
	}
	if cfg.Suggest.MaxResults == 0 {
		cfg.Suggest.MaxResults = DefaultSuggestMaxResults
	}
}
