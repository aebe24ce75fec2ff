package ranking

import (
	"os"
	"sort"
)

// Table is a ranked list of entries.
type Table struct {
	Items []*Entry
}

func (t *Table) Len() int {
	return len(t.Items)
}

func (t *Table) Filenames() []string {
	names := make([]string, 0, len(t.Items))
	for _, e := range t.Items {
		names = append(names, e.Filename)
	}
	return names
}

// FindByFilename returns the first entry with the given filename.
func (t *Table) FindByFilename(name string) *Entry {
	for _, e := range t.Items {
		if e.Filename == name {
			return e
		}
	}
	return nil
}

// Retain keeps the entries accepted by keep and returns the filenames of the
// dropped ones. Order is preserved.
func (t *Table) Retain(keep func(*Entry) bool) []string {
	var dropped []string
	kept := t.Items[:0]
	for _, e := range t.Items {
		if keep(e) {
			kept = append(kept, e)
			continue
		}
		dropped = append(dropped, e.Filename)
	}
	t.Items = kept
	return dropped
}

// Exclude removes every entry whose filename is listed.
func (t *Table) Exclude(filenames []string) []string {
	set := make(map[string]struct{}, len(filenames))
	for _, f := range filenames {
		set[f] = struct{}{}
	}
	return t.Retain(func(e *Entry) bool {
		_, found := set[e.Filename]
		return !found
	})
}

// ReportBySkill groups filenames by matched skill, in table order.
func (t *Table) ReportBySkill() map[string][]string {
	report := make(map[string][]string)
	for _, e := range t.Items {
		for _, s := range e.MatchedSkills {
			report[s] = append(report[s], e.Filename)
		}
	}
	return report
}

// SkillsByCoverage returns the report keys sorted by how many resumes match,
// then alphabetically.
func SkillsByCoverage(report map[string][]string) []string {
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(report[keys[i]]) != len(report[keys[j]]) {
			return len(report[keys[i]]) > len(report[keys[j]])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// DumpToTmpFile writes the table as CSV into a new temporary file and returns
// its path.
func (t *Table) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranked_resumes_*.csv")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := t.WriteCSV(file); err != nil {
		return "", err
	}
	return file.Name(), nil
}
