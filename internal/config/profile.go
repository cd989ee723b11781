package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// AnalysisProfile tunes the simulated analysis. Zero fields keep the defaults.
type AnalysisProfile struct {
	Steps           []domain.AnalysisStep `yaml:"steps"`
	TickInterval    time.Duration         `yaml:"tick_interval"`
	TickStep        int                   `yaml:"tick_step"`
	CompletionDelay time.Duration         `yaml:"completion_delay"`
}

func DefaultAnalysisProfile() AnalysisProfile {
	return AnalysisProfile{
		Steps:           domain.DefaultAnalysisSteps(),
		TickInterval:    100 * time.Millisecond,
		TickStep:        2,
		CompletionDelay: 1500 * time.Millisecond,
	}
}

// LoadAnalysisProfile reads the YAML profile at path over the defaults.
// An empty path returns the defaults.
func LoadAnalysisProfile(path string) (AnalysisProfile, error) {
	return loadAnalysisProfile(path, DefaultAnalysisProfile())
}

// ResolveAnalysisProfile applies COMPLETION_DELAY_MS to the defaults, then the
// profile file named by ANALYSIS_PROFILE_PATH.
func ResolveAnalysisProfile(cfg Config) (AnalysisProfile, error) {
	base := DefaultAnalysisProfile()
	if cfg.CompletionDelayMS > 0 {
		base.CompletionDelay = time.Duration(cfg.CompletionDelayMS) * time.Millisecond
	}
	return loadAnalysisProfile(cfg.AnalysisProfilePath, base)
}

func loadAnalysisProfile(path string, profile AnalysisProfile) (AnalysisProfile, error) {
	if path == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read analysis profile: %w", err)
	}
	var override AnalysisProfile
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return profile, fmt.Errorf("parse analysis profile: %w", err)
	}

	if len(override.Steps) > 0 {
		for i, step := range override.Steps {
			if step.Label == "" || step.Duration <= 0 {
				return profile, fmt.Errorf("analysis profile step %d needs a label and a positive duration", i+1)
			}
		}
		profile.Steps = override.Steps
	}
	if override.TickInterval > 0 {
		profile.TickInterval = override.TickInterval
	}
	if override.TickStep > 0 {
		profile.TickStep = override.TickStep
	}
	if override.CompletionDelay > 0 {
		profile.CompletionDelay = override.CompletionDelay
	}
	return profile, nil
}
