package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LdDl/lightanchor-go/lightanchor"
	"github.com/pkg/errors"
)

const (
	// MatcherExact selects bit-exact W-bit matching
	MatcherExact = "exact"
	// MatcherEvenOdd selects doubled 16-bit encoding with even/odd subset matching
	MatcherEvenOdd = "even_odd"

	// AssociationGreedy selects nearest-claim association
	AssociationGreedy = "greedy"
	// AssociationHungarian selects optimal assignment
	AssociationHungarian = "hungarian"
)

// TuningConfig is JSON representation of tracker tunables.
// Every field is optional: omitted fields keep defaults of lightanchor.DefaultOptions.
type TuningConfig struct {
	BufferCapacity      *int     `json:"buffer_capacity,omitempty"`
	RangeThreshold      *float64 `json:"range_threshold,omitempty"`
	TTLFrames           *int     `json:"ttl_frames,omitempty"`
	CenterDistThreshold *float64 `json:"center_dist_threshold,omitempty"`
	ShapeDistThreshold  *float64 `json:"shape_dist_threshold,omitempty"`
	ShapeTTLThreshold   *float64 `json:"shape_ttl_threshold,omitempty"`
	MinAreaRatio        *float64 `json:"min_area_ratio,omitempty"`
	MaxAreaRatio        *float64 `json:"max_area_ratio,omitempty"`
	UsePrediction       *bool    `json:"use_prediction,omitempty"`

	// "exact" or "even_odd"
	Matcher *string `json:"matcher,omitempty"`
	// Logical code width for exact matcher
	CodeWidth *uint `json:"code_width,omitempty"`
	// "greedy" or "hungarian"
	Association *string `json:"association,omitempty"`

	// Codes in Go integer literal syntax: "0b10110100", "0xb4", "180"
	Codes []string `json:"codes,omitempty"`
}

func ptrString(v string) *string { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// Fields omitted from the JSON file retain their default values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks values which can be checked without building tracker options
func (c *TuningConfig) Validate() error {
	if c.Matcher != nil {
		switch *c.Matcher {
		case MatcherExact, MatcherEvenOdd:
		default:
			return errors.Errorf("matcher must be %q or %q, got %q", MatcherExact, MatcherEvenOdd, *c.Matcher)
		}
	}
	if c.Association != nil {
		switch *c.Association {
		case AssociationGreedy, AssociationHungarian:
		default:
			return errors.Errorf("association must be %q or %q, got %q", AssociationGreedy, AssociationHungarian, *c.Association)
		}
	}
	if c.CodeWidth != nil && (*c.CodeWidth == 0 || *c.CodeWidth > 32) {
		return errors.Errorf("code_width must be in [1, 32], got %d", *c.CodeWidth)
	}
	if _, err := c.ParsedCodes(); err != nil {
		return err
	}
	return nil
}

// GetMatcher returns matcher name or the default
func (c *TuningConfig) GetMatcher() string {
	if c.Matcher == nil {
		return MatcherExact
	}
	return *c.Matcher
}

// GetCodeWidth returns code width or the default
func (c *TuningConfig) GetCodeWidth() uint {
	if c.CodeWidth == nil {
		return 8
	}
	return *c.CodeWidth
}

// SetMatcher overrides matcher name
func (c *TuningConfig) SetMatcher(name string) {
	c.Matcher = ptrString(name)
}

// ParsedCodes converts textual codes into values
func (c *TuningConfig) ParsedCodes() ([]uint32, error) {
	codes := make([]uint32, 0, len(c.Codes))
	for _, text := range c.Codes {
		code, err := ParseCode(text)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// ParseCode parses code in Go integer literal syntax (binary, octal, hex or decimal)
func ParseCode(text string) (uint32, error) {
	value, err := strconv.ParseUint(strings.ReplaceAll(strings.TrimSpace(text), "_", ""), 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid code %q", text)
	}
	return uint32(value), nil
}

// ApplyTo overrides options with every field set in config
func (c *TuningConfig) ApplyTo(opts *lightanchor.Options) {
	if c.BufferCapacity != nil {
		opts.BufferCapacity = *c.BufferCapacity
	}
	if c.RangeThreshold != nil {
		opts.RangeThreshold = *c.RangeThreshold
	}
	if c.TTLFrames != nil {
		opts.TTLFrames = *c.TTLFrames
	}
	if c.CenterDistThreshold != nil {
		opts.CenterDistThreshold = *c.CenterDistThreshold
	}
	if c.ShapeDistThreshold != nil {
		opts.ShapeDistThreshold = *c.ShapeDistThreshold
	}
	if c.ShapeTTLThreshold != nil {
		opts.ShapeTTLThreshold = *c.ShapeTTLThreshold
	}
	if c.MinAreaRatio != nil {
		opts.MinAreaRatio = *c.MinAreaRatio
	}
	if c.MaxAreaRatio != nil {
		opts.MaxAreaRatio = *c.MaxAreaRatio
	}
	if c.UsePrediction != nil {
		opts.UsePrediction = *c.UsePrediction
	}
	switch c.GetMatcher() {
	case MatcherEvenOdd:
		opts.Matcher = lightanchor.NewEvenOddMatcher()
	default:
		opts.Matcher = lightanchor.NewExactMatcher(c.GetCodeWidth())
	}
	if c.Association != nil && *c.Association == AssociationHungarian {
		opts.Association = lightanchor.AssociationHungarian
	} else if c.Association != nil {
		opts.Association = lightanchor.AssociationGreedy
	}
}

// Options returns default tracker options overridden by config
func (c *TuningConfig) Options() lightanchor.Options {
	opts := lightanchor.DefaultOptions()
	c.ApplyTo(&opts)
	return opts
}
