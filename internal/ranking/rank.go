// Package ranking scores resumes against a job description and holds the
// resulting table.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/resume-ranker/internal/experience"
	"github.com/spigell/resume-ranker/internal/skills"
	"github.com/spigell/resume-ranker/internal/tfidf"
)

// SkillsSeparator joins matched skills in the display string.
const SkillsSeparator = ", "

// Resume is an extracted document ready for scoring.
type Resume struct {
	Filename string
	Text     string
}

// Entry is one row of the ranked table.
type Entry struct {
	Filename        string
	Score           float64
	MatchedSkills   []string
	YearsExperience *float64
}

// Skills returns the matched skills as a single display string.
func (e *Entry) Skills() string {
	return strings.Join(e.MatchedSkills, SkillsSeparator)
}

// Rank vectorizes the job description together with all resumes and scores
// each resume by cosine similarity to the job. The result is sorted by score,
// keeping input order among equal scores. A vectorization failure is returned
// as is.
func Rank(job string, resumes []Resume, skillList []string) (*Table, error) {
	corpus := make([]string, 0, len(resumes)+1)
	corpus = append(corpus, job)
	for _, r := range resumes {
		corpus = append(corpus, r.Text)
	}

	matrix, err := tfidf.New().FitTransform(corpus)
	if err != nil {
		return nil, fmt.Errorf("vectorizing corpus: %w", err)
	}

	jobVec := matrix.Rows[0]
	entries := make([]*Entry, 0, len(resumes))
	for i, r := range resumes {
		entry := &Entry{
			Filename:      r.Filename,
			Score:         tfidf.Cosine(jobVec, matrix.Rows[i+1]),
			MatchedSkills: skills.Extract(r.Text, skillList),
		}
		if years, ok := experience.Years(r.Text); ok {
			entry.YearsExperience = &years
		}
		entries = append(entries, entry)
	}

	table := &Table{Items: entries}
	table.Sort()
	return table, nil
}

// Sort orders entries by score descending. Equal scores keep their order.
func (t *Table) Sort() {
	sort.SliceStable(t.Items, func(i, j int) bool {
		return t.Items[i].Score > t.Items[j].Score
	})
}
