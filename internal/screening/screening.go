// Package screening runs one ranking pass: validate the request, extract the
// documents, rank them and apply the configured filters.
package screening

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/ranking"
)

// Result is the outcome of a successful run.
type Result struct {
	RunID    string
	Table    *ranking.Table
	Warnings []string
	Steps    []filtering.Step
}

// Screener holds the read-only state shared by runs.
type Screener struct {
	extractor *document.Extractor
	skills    []string
	filters   *filtering.Config
	logger    *zap.Logger

	// NewFilters builds a fresh filter set per run. Defaults to filtering.Default.
	NewFilters func() []filtering.Filter
}

func New(extractor *document.Extractor, skills []string, filters *filtering.Config, log *zap.Logger) *Screener {
	if log == nil {
		log = zap.NewNop()
	}
	if filters == nil {
		filters = &filtering.Config{}
	}
	return &Screener{
		extractor:  extractor,
		skills:     skills,
		filters:    filters,
		logger:     log,
		NewFilters: filtering.Default,
	}
}

// Run processes the request sequentially. Parse failures of single documents
// become warnings; validation and vectorization failures abort the run.
func (s *Screener) Run(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)
	log.Info("starting screening", zap.Int("resumes", len(req.Resumes)), zap.Int("skills", len(s.skills)))

	result := &Result{RunID: runID}

	resumes := make([]ranking.Resume, 0, len(req.Resumes))
	for _, doc := range req.Resumes {
		text, err := s.extractor.Extract(doc.Filename, doc.Data)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
		resumes = append(resumes, ranking.Resume{Filename: doc.Filename, Text: text})
	}

	table, err := ranking.Rank(req.JobDescription, resumes, s.skills)
	if err != nil {
		return nil, fmt.Errorf("ranking resumes: %w", err)
	}

	table, steps, err := filtering.Run(ctx, s.filters, filtering.Deps{Logger: log}, s.NewFilters(), table)
	if err != nil {
		return nil, fmt.Errorf("filtering: %w", err)
	}

	result.Table = table
	result.Steps = steps

	log.Info("screening finished",
		zap.Int("ranked", table.Len()),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}
