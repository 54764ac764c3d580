package conesearch

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhzhe/neutrino-alerts/internal/alert"
	"github.com/jhzhe/neutrino-alerts/internal/logger"
)

const (
	// NEDSyncURL is the NED TAP synchronous query endpoint.
	NEDSyncURL = "https://ned.ipac.caltech.edu/tap/sync"

	tableName = "objdir"
	columns   = "RA,Dec"
	coordSys  = "J2000"
)

// Client issues cone queries against a TAP sync endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	maxRows    int
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the TAP endpoint.
func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

// WithTimeout bounds each query.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRows caps the number of matches returned per query.
func WithMaxRows(n int) Option {
	return func(c *Client) { c.maxRows = n }
}

// NewClient creates a TAP cone-search client for the NED catalog.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		url:     NEDSyncURL,
		maxRows: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Match is one catalog object inside an alert's error circle.
type Match struct {
	RA  string `json:"ra"`
	Dec string `json:"dec"`
}

// Query runs one cone query. Coordinates are decimal degrees; radius is the
// localization uncertainty in arcminutes, converted to degrees for the ADQL
// circle.
func (c *Client) Query(ra, dec, radiusArcmin float64) ([]Match, error) {
	radiusDeg := radiusArcmin / 60

	cone := fmt.Sprintf("CONTAINS(POINT('%s', RA, Dec), CIRCLE('%s', %g, %g, %g))=1",
		coordSys, coordSys, ra, dec, radiusDeg)
	query := fmt.Sprintf("SELECT TOP %d %s FROM %s WHERE %s", c.maxRows, columns, tableName, cone)

	form := url.Values{}
	form.Set("REQUEST", "doQuery")
	form.Set("LANG", "ADQL")
	form.Set("FORMAT", "csv")
	form.Set("QUERY", query)

	resp, err := c.httpClient.PostForm(c.url, form)
	if err != nil {
		return nil, fmt.Errorf("querying TAP service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseMatches(resp.Body)
}

// parseMatches reads a CSV TAP response (header row then matches).
func parseMatches(r io.Reader) ([]Match, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV response: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	raIdx, decIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "ra":
			raIdx = i
		case "dec":
			decIdx = i
		}
	}
	if raIdx < 0 || decIdx < 0 {
		return nil, fmt.Errorf("response missing RA/Dec columns: %v", header)
	}

	matches := make([]Match, 0, len(records)-1)
	for _, rec := range records[1:] {
		if raIdx >= len(rec) || decIdx >= len(rec) {
			continue
		}
		matches = append(matches, Match{RA: rec[raIdx], Dec: rec[decIdx]})
	}
	return matches, nil
}

// Search runs one cone query per alert and writes the matches for alert i to
// NED_SEARCH_<i>.csv under outputDir. Alerts with unparseable coordinates
// and failed queries are logged and skipped. Returns the number of alerts
// that produced at least one match.
func (c *Client) Search(alerts []*alert.Alert, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	found := 0
	for i, a := range alerts {
		ra, dec, err := a.Coordinates()
		if err != nil {
			logger.Warn("skipping alert with unparseable coordinates", logger.Fields{
				"alert": a.RunEvent,
			})
			continue
		}
		radius, err := a.Error90Arcmin()
		if err != nil {
			logger.Warn("skipping alert with unparseable error radius", logger.Fields{
				"alert": a.RunEvent,
			})
			continue
		}

		matches, err := c.Query(ra, dec, radius)
		if err != nil {
			logger.Error("cone query failed", logger.Fields{
				"alert": a.RunEvent,
				"ra":    ra,
				"dec":   dec,
			}, err)
			continue
		}
		if len(matches) == 0 {
			logger.Info("no catalog matches", logger.Fields{"alert": a.RunEvent})
			continue
		}

		path := filepath.Join(outputDir, fmt.Sprintf("NED_SEARCH_%d.csv", i))
		if err := writeMatches(path, matches); err != nil {
			return found, err
		}
		logger.Info("saved catalog matches", logger.Fields{
			"alert":   a.RunEvent,
			"matches": len(matches),
			"path":    path,
		})
		found++
	}
	return found, nil
}

// writeMatches writes matches as a two-column CSV file.
func writeMatches(path string, matches []Match) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"RA", "Dec"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, m := range matches {
		if err := w.Write([]string{m.RA, m.Dec}); err != nil {
			return fmt.Errorf("writing match: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
