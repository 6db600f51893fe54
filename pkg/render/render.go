package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	// NothingFound is printed when a search session showed no rows.
	NothingFound = "Nothing found."
	// NoStatistics is printed when a report has nothing to rank.
	NoStatistics = "No statistics yet."
)

// Row is a record that can be shown as one table row. All rows passed to a
// single Table call share the same headers.
type Row interface {
	Headers() []string
	Values() []string
}

// Ranked is one line of a top-N report.
type Ranked struct {
	Label string
	Count int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// Table writes rows as a markdown-style table, or NothingFound when rows is
// empty.
func Table[R Row](w io.Writer, rows []R) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, NothingFound)
		return err
	}
	values := make([][]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Values())
	}
	_, err := fmt.Fprintln(w, newTable(rows[0].Headers(), values).String())
	return err
}

// Ranking writes a numbered top-N report under title, or NoStatistics when
// items is empty.
func Ranking(w io.Writer, title string, items []Ranked) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, NoStatistics)
		return err
	}
	values := make([][]string, 0, len(items))
	for i, it := range items {
		values = append(values, []string{strconv.Itoa(i + 1), it.Label, strconv.Itoa(it.Count)})
	}
	if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, newTable([]string{"#", "query", "count"}, values).String())
	return err
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
