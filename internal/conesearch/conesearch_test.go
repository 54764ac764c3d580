package conesearch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jhzhe/neutrino-alerts/internal/alert"
)

func TestQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.Form.Get("REQUEST"); got != "doQuery" {
			t.Errorf("REQUEST = %q, want doQuery", got)
		}
		if got := r.Form.Get("LANG"); got != "ADQL" {
			t.Errorf("LANG = %q, want ADQL", got)
		}
		if got := r.Form.Get("FORMAT"); got != "csv" {
			t.Errorf("FORMAT = %q, want csv", got)
		}

		query := r.Form.Get("QUERY")
		if !strings.Contains(query, "SELECT TOP 5 RA,Dec FROM objdir") {
			t.Errorf("unexpected query: %q", query)
		}
		// 120 arcmin converted to 2 degrees.
		if !strings.Contains(query, "CIRCLE('J2000', 240.9999, -0.8001, 2)") {
			t.Errorf("query circle should use degrees: %q", query)
		}

		fmt.Fprintln(w, "ra,dec")
		fmt.Fprintln(w, "240.8912,-0.7123")
		fmt.Fprintln(w, "241.0034,-0.8550")
	}))
	defer server.Close()

	c := NewClient(WithURL(server.URL))
	matches, err := c.Query(240.9999, -0.8001, 120)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].RA != "240.8912" || matches[0].Dec != "-0.7123" {
		t.Errorf("matches[0] = %+v, want RA=240.8912 Dec=-0.7123", matches[0])
	}
}

func TestQuery_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(WithURL(server.URL))
	if _, err := c.Query(10, 20, 30); err == nil {
		t.Error("Query expected error on non-200 status")
	}
}

func TestQuery_MissingColumns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "name,redshift")
		fmt.Fprintln(w, "NGC 1068,0.0038")
	}))
	defer server.Close()

	c := NewClient(WithURL(server.URL))
	if _, err := c.Query(10, 20, 30); err == nil {
		t.Error("Query expected error when RA/Dec columns are absent")
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ra,dec")
		fmt.Fprintln(w, "121.1000,6.6000")
	}))
	defer server.Close()

	alerts := []*alert.Alert{
		{RunEvent: "139899_41089437", RA: "121.1350", Dec: "6.6199", Error90: "124.19"},
		{RunEvent: "139763_17393088", RA: "not-a-number", Dec: "41.9000", Error90: "152.39"},
	}

	dir := t.TempDir()
	c := NewClient(WithURL(server.URL))
	found, err := c.Search(alerts, dir)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if found != 1 {
		t.Errorf("found = %d, want 1 (bad-coordinate alert skipped)", found)
	}

	data, err := os.ReadFile(filepath.Join(dir, "NED_SEARCH_0.csv"))
	if err != nil {
		t.Fatalf("reading result CSV: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "RA,Dec\n") {
		t.Errorf("CSV should start with header, got %q", content)
	}
	if !strings.Contains(content, "121.1000,6.6000") {
		t.Errorf("CSV missing match row: %q", content)
	}

	// The skipped alert produced no file.
	if _, err := os.Stat(filepath.Join(dir, "NED_SEARCH_1.csv")); !os.IsNotExist(err) {
		t.Error("skipped alert should not produce a result file")
	}
}

func TestSearch_QueryFailureTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	alerts := []*alert.Alert{
		{RunEvent: "139899_41089437", RA: "121.1350", Dec: "6.6199", Error90: "124.19"},
	}

	c := NewClient(WithURL(server.URL))
	found, err := c.Search(alerts, t.TempDir())
	if err != nil {
		t.Fatalf("per-query failures should not abort the search: %v", err)
	}
	if found != 0 {
		t.Errorf("found = %d, want 0", found)
	}
}

func TestParseMatches_Empty(t *testing.T) {
	matches, err := parseMatches(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parseMatches failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}
