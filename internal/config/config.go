// Package config loads the ideal-shot reference data the detectors compare
// against. The file is advisory: every field has a documented built-in
// default, and a missing or partial file falls back rather than failing,
// since a missing tuning file must never abort an analysis.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hooplab/shotform/internal/monitoring"
)

// DefaultConfigPath is the path to the canonical ideal-shot data file,
// relative to the repository root.
const DefaultConfigPath = "config/ideal_shot.defaults.json"

// Built-in ideal-shot defaults, used for any field the JSON omits. These are
// heuristic coaching values, not derived from any biomechanical model.
const (
	DefaultElbowAngleMin = 160.0 // degrees at release
	DefaultElbowAngleMax = 185.0
	DefaultKneeAngleMin  = 105.0 // degrees at deepest load
	DefaultKneeAngleMax  = 130.0
	DefaultWristAngleMin = 70.0 // degrees at follow-through
	DefaultWristAngleMax = 110.0
)

// IdealShot is the reference form data. Pointer fields distinguish "omitted
// from the file" from "explicitly zero"; use the Get* accessors, which apply
// the built-in defaults.
type IdealShot struct {
	ElbowAngleMin *float64 `json:"elbow_angle_min,omitempty"`
	ElbowAngleMax *float64 `json:"elbow_angle_max,omitempty"`
	KneeAngleMin  *float64 `json:"knee_angle_min,omitempty"`
	KneeAngleMax  *float64 `json:"knee_angle_max,omitempty"`
	WristAngleMin *float64 `json:"wrist_angle_min,omitempty"`
	WristAngleMax *float64 `json:"wrist_angle_max,omitempty"`

	// Remedies maps remedy keys (flaw ids) to coaching text overriding the
	// built-in tips.
	Remedies map[string]string `json:"remedies,omitempty"`
}

func (c *IdealShot) GetElbowAngleMin() float64 { return orDefault(c.ElbowAngleMin, DefaultElbowAngleMin) }
func (c *IdealShot) GetElbowAngleMax() float64 { return orDefault(c.ElbowAngleMax, DefaultElbowAngleMax) }
func (c *IdealShot) GetKneeAngleMin() float64  { return orDefault(c.KneeAngleMin, DefaultKneeAngleMin) }
func (c *IdealShot) GetKneeAngleMax() float64  { return orDefault(c.KneeAngleMax, DefaultKneeAngleMax) }
func (c *IdealShot) GetWristAngleMin() float64 { return orDefault(c.WristAngleMin, DefaultWristAngleMin) }
func (c *IdealShot) GetWristAngleMax() float64 { return orDefault(c.WristAngleMax, DefaultWristAngleMax) }

// GetRemedy returns the configured remedy text for a flaw id, or "" when the
// built-in coaching text should be used.
func (c *IdealShot) GetRemedy(flawID string) string {
	if c == nil {
		return ""
	}
	return c.Remedies[flawID]
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Validate checks that configured ranges are ordered and physiological.
func (c *IdealShot) Validate() error {
	type rng struct {
		name     string
		min, max float64
	}
	ranges := []rng{
		{"elbow_angle", c.GetElbowAngleMin(), c.GetElbowAngleMax()},
		{"knee_angle", c.GetKneeAngleMin(), c.GetKneeAngleMax()},
		{"wrist_angle", c.GetWristAngleMin(), c.GetWristAngleMax()},
	}
	for _, r := range ranges {
		if r.min <= 0 || r.max <= 0 {
			return fmt.Errorf("%s bounds must be positive, got [%g, %g]", r.name, r.min, r.max)
		}
		if r.min >= r.max {
			return fmt.Errorf("%s min %g must be below max %g", r.name, r.min, r.max)
		}
	}
	return nil
}

// Load reads ideal-shot data from a JSON file. Fields omitted from the file
// keep their built-in defaults, so partial configs are safe.
func Load(path string) (*IdealShot, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read ideal-shot config: %w", err)
	}

	cfg := &IdealShot{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse ideal-shot config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ideal-shot config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads the file at path, falling back to built-in defaults
// with a logged warning when the file is missing or unreadable. This is the
// entry production callers use: configuration absence is never fatal.
func LoadOrDefault(path string) *IdealShot {
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := Load(path)
	if err != nil {
		monitoring.Logf("ideal-shot config %q unavailable, using built-in defaults: %v", path, err)
		return &IdealShot{}
	}
	return cfg
}

// MustLoadDefault loads the canonical defaults file, searching upward from
// the working directory. Panics when not found; intended for test setup.
func MustLoadDefault() *IdealShot {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, p := range candidates {
		if cfg, err := Load(p); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// DetectorFlags toggles individual detectors. An explicit struct passed into
// the engine at construction time, not process-wide mutable state.
type DetectorFlags struct {
	// ShoulderAlignment enables the experimental shoulder-squaring
	// detector, off by default.
	ShoulderAlignment bool
	// AdvancedFluidity enables the whole-sequence fluidity analysis that
	// can inject a fluidity flaw on its own.
	AdvancedFluidity bool
}

// DefaultDetectorFlags returns the production flag set.
func DefaultDetectorFlags() DetectorFlags {
	return DetectorFlags{
		ShoulderAlignment: false,
		AdvancedFluidity:  true,
	}
}
