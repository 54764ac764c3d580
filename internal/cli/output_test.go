package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jhzhe/neutrino-alerts/internal/alert"
	"github.com/klauspost/compress/gzip"
)

func sampleResult(t *testing.T) *OutputResult {
	t.Helper()
	table := alert.NewTable([]string{
		alert.ColRunEvent, alert.ColDate, alert.ColNoticeType,
		alert.ColRA, alert.ColDec, alert.ColError90, alert.ColError50, alert.ColEnergy,
	})
	rows := [][]string{
		{"139977_2910365", "24/10/16", "GOLD", "240.9999", "-0.8001", "76.20", "29.10", "1.2665e+02"},
		{"139899_41089437", "24/09/27", "BRONZE", "121.1350", "6.6199", "124.19", "48.80", "8.4010e+01"},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return &OutputResult{
		RunID:     "test-run",
		FetchedAt: time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC),
		SourceURL: "https://example.com/notices.html",
		Table:     table,
		RowCount:  table.Len(),
	}
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(t), FormatText); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "RunNum_EventNum") {
		t.Error("text output should include the header row")
	}
	if !strings.Contains(out, "139977_2910365") || !strings.Contains(out, "BRONZE") {
		t.Error("text output should include data rows")
	}
	if !strings.Contains(out, "Total: 2 alerts") {
		t.Errorf("text output should include the total, got:\n%s", out)
	}
}

func TestWriteOutput_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	result := &OutputResult{Table: alert.NewTable([]string{alert.ColRunEvent})}
	if err := WriteOutput(&buf, result, FormatText); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No alerts found.") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(t), FormatJSON); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	var decoded OutputResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != "test-run" {
		t.Errorf("run_id = %q, want test-run", decoded.RunID)
	}
	if decoded.RowCount != 2 {
		t.Errorf("row_count = %d, want 2", decoded.RowCount)
	}
	if len(decoded.Table.Rows) != 2 {
		t.Errorf("table rows = %d, want 2", len(decoded.Table.Rows))
	}
}

func TestWriteOutput_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(t), FormatCSV); err != nil {
		t.Fatalf("WriteOutput failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "RunNum_EventNum,Date,NoticeType") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "139977_2910365,") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(t), OutputFormat("xml")); err == nil {
		t.Error("WriteOutput should reject unknown formats")
	}
}

func TestOpenOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.csv")

	w, closeFn, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput failed: %v", err)
	}
	if _, err := io.WriteString(w, "hello\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestOpenOutput_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.csv.gz")

	w, closeFn, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput failed: %v", err)
	}
	if _, err := io.WriteString(w, "compressed content\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not valid gzip: %v", err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("decompressing: %v", err)
	}
	if string(data) != "compressed content\n" {
		t.Errorf("decompressed content = %q", data)
	}
}
