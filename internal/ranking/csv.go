package ranking

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// CSVHeader is the column order of exported tables.
var CSVHeader = []string{"filename", "score", "matched_skills", "years_experience"}

type csvRow struct {
	Filename        string  `mapstructure:"filename"`
	Score           float64 `mapstructure:"score"`
	MatchedSkills   string  `mapstructure:"matched_skills"`
	YearsExperience string  `mapstructure:"years_experience"`
}

// WriteCSV writes the table with a header row and no index column. Absent
// years are written as an empty cell.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, e := range t.Items {
		years := ""
		if e.YearsExperience != nil {
			years = FormatFloat(*e.YearsExperience)
		}
		record := []string{e.Filename, FormatFloat(e.Score), e.Skills(), years}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %q: %w", e.Filename, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	table := &Table{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		raw := make(map[string]any, len(header))
		for i, column := range header {
			raw[strings.TrimSpace(column)] = record[i]
		}

		var row csvRow
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &row,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("decoding csv row %v: %w", record, err)
		}

		entry := &Entry{Filename: row.Filename, Score: row.Score, MatchedSkills: []string{}}
		if row.MatchedSkills != "" {
			entry.MatchedSkills = strings.Split(row.MatchedSkills, SkillsSeparator)
		}
		if row.YearsExperience != "" {
			years, err := strconv.ParseFloat(row.YearsExperience, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing years for %q: %w", row.Filename, err)
			}
			entry.YearsExperience = &years
		}
		table.Items = append(table.Items, entry)
	}

	return table, nil
}

// FormatFloat renders v in its shortest round-trip form, keeping a ".0" on
// integral values so numeric columns read as floats.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
