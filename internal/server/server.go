// Package server exposes screening runs over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/screening"
	"github.com/spigell/resume-ranker/internal/tfidf"
)

const (
	defaultMaxUploadBytes = 32 << 20
	csvFilename           = "ranked_resumes.csv"
)

// Config controls the HTTP listener.
type Config struct {
	Address     string `mapstructure:"address"`
	MaxUploadMB int64  `mapstructure:"max-upload-mb"`
}

type Server struct {
	screener *screening.Screener
	logger   *zap.Logger
	maxBytes int64
}

func New(screener *screening.Screener, cfg *Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBytes := int64(defaultMaxUploadBytes)
	if cfg != nil && cfg.MaxUploadMB > 0 {
		maxBytes = cfg.MaxUploadMB << 20
	}
	return &Server{screener: screener, logger: logger, maxBytes: maxBytes}
}

// Handler returns the routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /rank", s.handleRank)
	return s.logRequests(mux)
}

type response struct {
	RunID    string           `json:"run_id"`
	Warnings []string         `json:"warnings"`
	Steps    []filtering.Step `json:"steps"`
	Results  []row            `json:"results"`
}

// row mirrors a CSV row: matched skills are one comma-separated string.
type row struct {
	Filename        string   `json:"filename"`
	Score           float64  `json:"score"`
	MatchedSkills   string   `json:"matched_skills"`
	YearsExperience *float64 `json:"years_experience"`
}

func rowsOf(table *ranking.Table) []row {
	rows := make([]row, 0, table.Len())
	for _, e := range table.Items {
		rows = append(rows, row{
			Filename:        e.Filename,
			Score:           e.Score,
			MatchedSkills:   e.Skills(),
			YearsExperience: e.YearsExperience,
		})
	}
	return rows
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "upload is too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid multipart form: %v", err)})
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := requestFromForm(r.MultipartForm)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.screener.Run(r.Context(), req)
	if err != nil {
		var vErr *screening.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error()})
		case errors.Is(err, tfidf.ErrEmptyVocabulary):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		default:
			s.logger.Error("screening failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvFilename))
		if err := result.Table.WriteCSV(w); err != nil {
			s.logger.Error("writing csv response", zap.Error(err))
		}
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, response{
		RunID:    result.RunID,
		Warnings: warnings,
		Steps:    result.Steps,
		Results:  rowsOf(result.Table),
	})
}

// requestFromForm reads the job description from the "job" field, or from
// the "job_file" upload when present, and resumes from "resumes" uploads.
func requestFromForm(form *multipart.Form) (*screening.Request, error) {
	req := &screening.Request{}

	if values := form.Value["job"]; len(values) > 0 {
		req.JobDescription = values[0]
	}

	if files := form.File["job_file"]; len(files) > 0 {
		data, err := readPart(files[0])
		if err != nil {
			return nil, fmt.Errorf("reading job file: %w", err)
		}
		req.JobDescription = document.DecodeText(data)
	}

	for _, fh := range form.File["resumes"] {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", fh.Filename, err)
		}
		req.Resumes = append(req.Resumes, screening.Document{Filename: fh.Filename, Data: data})
	}

	return req, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
