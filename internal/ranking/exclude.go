package ranking

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedResumes is the content of an exclude file: resumes already screened
// that should be left out of future runs.
type ExcludedResumes struct {
	Items []*ExcludedResume
}

type ExcludedResume struct {
	Filename   string
	Score      float64
	ExcludedAt time.Time
}

func (t *Table) ToExcluded() *ExcludedResumes {
	excluded := &ExcludedResumes{}
	now := time.Now().UTC()
	for _, e := range t.Items {
		excluded.Items = append(excluded.Items, &ExcludedResume{
			Filename:   e.Filename,
			Score:      e.Score,
			ExcludedAt: now,
		})
	}
	return excluded
}

// GetExcludedResumesFromFile reads an exclude file. A missing or empty file
// is an empty list.
func GetExcludedResumesFromFile(path string) (*ExcludedResumes, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedResumes{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedResumes{}, nil
	}

	var excluded ExcludedResumes
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (x *ExcludedResumes) Append(s *ExcludedResumes) {
	x.Items = append(x.Items, s.Items...)
}

func (x *ExcludedResumes) Filenames() []string {
	names := make([]string, 0, len(x.Items))
	for _, r := range x.Items {
		names = append(names, r.Filename)
	}
	return names
}

func (x *ExcludedResumes) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(x)
}
