package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jhzhe/neutrino-alerts/internal/alert"
	"github.com/klauspost/compress/gzip"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// OutputResult contains data to be output
type OutputResult struct {
	RunID     string       `json:"run_id"`
	FetchedAt time.Time    `json:"fetched_at"`
	SourceURL string       `json:"source_url"`
	RowCount  int          `json:"row_count"`
	Table     *alert.Table `json:"table"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result.Table)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the result as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeCSV outputs the table as CSV, header row first
func writeCSV(w io.Writer, table *alert.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeText outputs the table as an aligned human-readable listing
func writeText(w io.Writer, result *OutputResult) error {
	if result.RowCount == 0 {
		fmt.Fprintln(w, "No alerts found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(result.Table.Columns, "\t"))
	for _, row := range result.Table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d alerts\n", result.RowCount)
	return nil
}

// openOutput returns the destination writer for the rendered table. An empty
// path means stdout; a .gz suffix wraps the file in a gzip writer. The
// returned close function flushes and closes whatever was opened.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}

	gz := gzip.NewWriter(f)
	closeFn := func() error {
		if err := gz.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return gz, closeFn, nil
}
