package filtering

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ranking"
)

type minimumScoreFilter struct {
	threshold float64
}

// NewMinimumScore creates a filter that drops resumes scoring below the configured threshold.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(string) {}

func (f *minimumScoreFilter) IsEnabled() bool { return true }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinimumScore < 0 || cfg.MinimumScore > 1 {
		return fmt.Errorf("minimum score must be within [0, 1], got %v", cfg.MinimumScore)
	}
	f.threshold = cfg.MinimumScore
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, t *ranking.Table) (*ranking.Table, Step, error) {
	initial := t.Len()
	if f.threshold == 0 {
		return t, Step{Initial: initial, Left: initial}, nil
	}

	dropped := t.Retain(func(e *ranking.Entry) bool { return e.Score >= f.threshold })
	if len(dropped) > 0 {
		deps.Logger.Info("excluding resumes below minimum score",
			zap.Float64("minimum_score", f.threshold),
			zap.Strings("excluded_resumes", dropped),
			zap.Int("resumes_left", t.Len()),
		)
	}

	return t, Step{Initial: initial, Dropped: len(dropped), Left: t.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"minimum_score": strconv.FormatFloat(f.threshold, 'f', -1, 64),
	}}
}

type requiredSkillsFilter struct {
	skills []string
}

// NewRequiredSkills creates a filter that keeps only resumes matching every required skill.
func NewRequiredSkills() Filter {
	return &requiredSkillsFilter{}
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) Disable(string) {}

func (f *requiredSkillsFilter) IsEnabled() bool { return true }

func (f *requiredSkillsFilter) Validate(cfg *Config) error {
	f.skills = nil
	if cfg == nil {
		return nil
	}
	for _, s := range cfg.RequiredSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			f.skills = append(f.skills, s)
		}
	}
	return nil
}

func (f *requiredSkillsFilter) Apply(_ context.Context, deps Deps, t *ranking.Table) (*ranking.Table, Step, error) {
	initial := t.Len()
	if len(f.skills) == 0 {
		return t, Step{Initial: initial, Left: initial}, nil
	}

	dropped := t.Retain(func(e *ranking.Entry) bool {
		for _, s := range f.skills {
			if !slices.Contains(e.MatchedSkills, s) {
				return false
			}
		}
		return true
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding resumes missing required skills",
			zap.Strings("required_skills", f.skills),
			zap.Strings("excluded_resumes", dropped),
			zap.Int("resumes_left", t.Len()),
		)
	}

	return t, Step{Initial: initial, Dropped: len(dropped), Left: t.Len()}, nil
}

func (f *requiredSkillsFilter) Status() Status {
	details := map[string]string{}
	if len(f.skills) > 0 {
		details["required_skills"] = strings.Join(f.skills, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type minimumYearsFilter struct {
	years float64
}

// NewMinimumYears creates a filter that drops resumes with fewer (or unknown) years of experience.
func NewMinimumYears() Filter {
	return &minimumYearsFilter{}
}

func (f *minimumYearsFilter) Name() string { return "minimum_years" }

func (f *minimumYearsFilter) Disable(string) {}

func (f *minimumYearsFilter) IsEnabled() bool { return true }

func (f *minimumYearsFilter) Validate(cfg *Config) error {
	f.years = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinimumYears < 0 {
		return fmt.Errorf("minimum years must not be negative, got %v", cfg.MinimumYears)
	}
	f.years = cfg.MinimumYears
	return nil
}

func (f *minimumYearsFilter) Apply(_ context.Context, deps Deps, t *ranking.Table) (*ranking.Table, Step, error) {
	initial := t.Len()
	if f.years == 0 {
		return t, Step{Initial: initial, Left: initial}, nil
	}

	dropped := t.Retain(func(e *ranking.Entry) bool {
		return e.YearsExperience != nil && *e.YearsExperience >= f.years
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding resumes below minimum years of experience",
			zap.Float64("minimum_years", f.years),
			zap.Strings("excluded_resumes", dropped),
			zap.Int("resumes_left", t.Len()),
		)
	}

	return t, Step{Initial: initial, Dropped: len(dropped), Left: t.Len()}, nil
}

func (f *minimumYearsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"minimum_years": strconv.FormatFloat(f.years, 'f', -1, 64),
	}}
}

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes resumes listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, t *ranking.Table) (*ranking.Table, Step, error) {
	initial := t.Len()
	if f.path == "" {
		return t, Step{Initial: initial, Left: initial}, nil
	}

	excluded, err := ranking.GetExcludedResumesFromFile(f.path)
	if err != nil {
		return t, Step{}, fmt.Errorf("getting excluded resumes from file: %w", err)
	}

	removed := t.Exclude(excluded.Filenames())
	if len(removed) > 0 {
		deps.Logger.Info("excluding resumes based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", t.Len()),
		)
	}

	return t, Step{Initial: initial, Dropped: len(removed), Left: t.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
