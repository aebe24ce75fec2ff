package filtering

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-ranker/internal/ranking"
)

func years(v float64) *float64 { return &v }

func table() *ranking.Table {
	return &ranking.Table{Items: []*ranking.Entry{
		{Filename: "a.txt", Score: 0.9, MatchedSkills: []string{"python", "aws"}, YearsExperience: years(6)},
		{Filename: "b.txt", Score: 0.6, MatchedSkills: []string{"python"}, YearsExperience: years(2)},
		{Filename: "c.txt", Score: 0.4, MatchedSkills: []string{"python", "aws"}},
		{Filename: "d.txt", Score: 0.1, MatchedSkills: []string{}},
	}}
}

func TestRunDefaultsKeepTable(t *testing.T) {
	t.Parallel()

	out, steps, err := Run(context.Background(), &Config{}, Deps{}, Default(), table())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(out.Filenames(), table().Filenames()) {
		t.Fatalf("expected unchanged table, got %v", out.Filenames())
	}
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	for _, s := range steps {
		if s.Dropped != 0 || s.Initial != 4 || s.Left != 4 {
			t.Fatalf("unexpected step: %+v", s)
		}
	}
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    *Config
		expect []string
	}{
		{name: "minimum score", cfg: &Config{MinimumScore: 0.5}, expect: []string{"a.txt", "b.txt"}},
		{name: "required skills", cfg: &Config{RequiredSkills: []string{" AWS ", "python"}}, expect: []string{"a.txt", "c.txt"}},
		{name: "minimum years drops unknown", cfg: &Config{MinimumYears: 2}, expect: []string{"a.txt", "b.txt"}},
		{name: "combined", cfg: &Config{MinimumScore: 0.3, RequiredSkills: []string{"aws"}, MinimumYears: 5}, expect: []string{"a.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _, err := Run(context.Background(), tt.cfg, Deps{Logger: zap.NewNop()}, Default(), table())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(out.Filenames(), tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, out.Filenames())
			}
		})
	}
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	if _, _, err := Run(context.Background(), &Config{MinimumScore: 2}, Deps{}, Default(), table()); err == nil {
		t.Fatalf("expected error for out of range score")
	}
	if _, _, err := Run(context.Background(), &Config{MinimumYears: -1}, Deps{}, Default(), table()); err == nil {
		t.Fatalf("expected error for negative years")
	}
}

func TestExcludeFileFilter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &ranking.ExcludedResumes{Items: []*ranking.ExcludedResume{{Filename: "b.txt"}, {Filename: "d.txt"}}}
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	core, observed := observer.New(zapcore.InfoLevel)
	out, steps, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{Logger: zap.New(core)}, Default(), table())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(out.Filenames(), []string{"a.txt", "c.txt"}) {
		t.Fatalf("unexpected table: %v", out.Filenames())
	}
	if steps[0].Name != "exclude_file" || steps[0].Dropped != 2 {
		t.Fatalf("unexpected step: %+v", steps[0])
	}
	if observed.FilterMessage("excluding resumes based on exclude file").Len() != 1 {
		t.Fatalf("expected exclude log entry")
	}
}

func TestDisableAndDescribe(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "exclude_file", "no exclude file configured")

	out, infos, err := Run(context.Background(), &Config{ExcludeFile: "/does/not/matter"}, Deps{}, steps, table())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 4 || len(infos) != 3 {
		t.Fatalf("expected disabled step to be skipped, got %d steps", len(infos))
	}

	statuses := Describe(steps)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses[0].Enabled || statuses[0].Reason != "no exclude file configured" {
		t.Fatalf("unexpected exclude_file status: %+v", statuses[0])
	}
}
