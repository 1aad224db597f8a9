package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// failedStatuses are STATUS values rendered in the error color
var failedStatuses = map[string]bool{
	"disconnected": true,
	"Failed":       true,
	"NotReady":     true,
	"Unknown":      true,
	"error":        true,
}

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{options: opts}
}

// Format renders Tabular values as a table and key/value maps as two
// columns. Anything else is printed with %v.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Tabular:
		return f.formatTabular(w, v)
	case map[string]string:
		return f.formatMap(w, v)
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	}
}

func (f *TableFormatter) formatTabular(w io.Writer, data Tabular) error {
	rows := data.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No resources found")
		return err
	}

	colors := NewColorScheme(w, f.options.NoColor)
	headers := data.Headers()

	statusCol := -1
	for i, h := range headers {
		if h == "STATUS" {
			statusCol = i
		}
	}

	table := f.createTable(w)
	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			colored := make([]string, len(headers))
			for i, h := range headers {
				colored[i] = colors.Header("%s", h)
			}
			table.SetHeader(colored)
		}
	}

	for _, row := range rows {
		if !colors.Disabled {
			row = append([]string(nil), row...)
			row[0] = colors.Context("%s", row[0])
			if statusCol >= 0 && statusCol < len(row) {
				row[statusCol] = colors.StatusColor(failedStatuses[row[statusCol]])("%s", row[statusCol])
			}
		}
		table.Append(row)
	}
	table.Render()

	if s, ok := data.(Summarizer); ok {
		if _, err := fmt.Fprintf(w, "\n%s\n", s.Summary()); err != nil {
			return err
		}
	}
	return nil
}

// formatMap formats a map as a two-column table sorted by key
func (f *TableFormatter) formatMap(w io.Writer, data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := f.createTable(w)
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}
	for _, k := range keys {
		table.Append([]string{k, data[k]})
	}
	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}
