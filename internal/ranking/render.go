package ranking

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Render prints the table for a terminal.
func (t *Table) Render(w io.Writer) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(append([]string{"#"}, CSVHeader...))
	tw.SetAutoWrapText(false)

	for i, e := range t.Items {
		years := ""
		if e.YearsExperience != nil {
			years = FormatFloat(*e.YearsExperience)
		}
		tw.Append([]string{
			strconv.Itoa(i + 1),
			e.Filename,
			strconv.FormatFloat(e.Score, 'f', 4, 64),
			e.Skills(),
			years,
		})
	}

	tw.Render()
}
