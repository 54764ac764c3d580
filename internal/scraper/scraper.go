package scraper

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhzhe/neutrino-alerts/internal/alert"
)

const (
	// NoticesURL is the public GCN page listing AMON IceCube GOLD/BRONZE
	// event notices.
	NoticesURL = "https://gcn.gsfc.nasa.gov/amon_icecube_gold_bronze_events.html"
	UserAgent  = "neutrino-alerts-cli/1.0 (github.com/jhzhe/neutrino-alerts)"
	Timeout    = 30 * time.Second

	// tableSelector matches the notices table by its border attribute. The
	// page carries no reliable id, so the attribute is the most specific
	// predicate available.
	tableSelector = `table[border="2"]`
)

var (
	// ErrTableNotFound is returned when the page contains no table matching
	// the locator predicate.
	ErrTableNotFound = errors.New("notices table not found")
	// ErrTableAmbiguous is returned when more than one table matches.
	ErrTableAmbiguous = errors.New("multiple tables match notices selector")
	// ErrShortRow is returned under RowPolicyFail when a data row has fewer
	// cells than the schema has columns.
	ErrShortRow = errors.New("row has fewer cells than schema columns")
)

// Scraper fetches and parses the GCN notices page.
type Scraper struct {
	client    *http.Client
	url       string
	schema    Schema
	rowPolicy RowPolicy
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the notices page URL (used for tests and mirrors).
func WithURL(url string) Option {
	return func(s *Scraper) { s.url = url }
}

// WithTimeout bounds the single network call.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithRowPolicy selects short-row handling during extraction.
func WithRowPolicy(p RowPolicy) Option {
	return func(s *Scraper) { s.rowPolicy = p }
}

// New creates a Scraper for the GCN notices page.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:       NoticesURL,
		schema:    NoticesSchema(),
		rowPolicy: RowPolicyFail,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the page URL the scraper targets.
func (s *Scraper) URL() string {
	return s.url
}

// FetchTable fetches the notices page and extracts the raw notices table.
// No filtering is applied; rows keep their page order and every cell stays
// verbatim text. Any failure aborts before later stages run.
func (s *Scraper) FetchTable() (*alert.Table, error) {
	req, err := http.NewRequest("GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return s.parseTable(resp.Body)
}

// parseTable locates the notices table in HTML and extracts it. Split out
// from FetchTable so tests can inject fixture documents.
func (s *Scraper) parseTable(r io.Reader) (*alert.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table, err := locateTable(doc)
	if err != nil {
		return nil, err
	}

	return s.extractTable(table)
}

// locateTable finds the one table matching the border-attribute predicate.
func locateTable(doc *goquery.Document) (*goquery.Selection, error) {
	sel := doc.Find(tableSelector)
	switch sel.Length() {
	case 0:
		return nil, ErrTableNotFound
	case 1:
		return sel, nil
	default:
		return nil, fmt.Errorf("%w: %d candidates", ErrTableAmbiguous, sel.Length())
	}
}

// extractTable reads headers and data rows out of the located table.
func (s *Scraper) extractTable(table *goquery.Selection) (*alert.Table, error) {
	headers := make([]string, 0, s.schema.SkipHeaderCells+len(s.schema.Columns))
	table.Find("th").EachWithBreak(func(i int, cell *goquery.Selection) bool {
		headers = append(headers, strings.TrimSpace(cell.Text()))
		return len(headers) < s.schema.SkipHeaderCells+len(s.schema.Columns)
	})

	if len(headers) < s.schema.SkipHeaderCells {
		return nil, &SchemaError{
			Reason: fmt.Sprintf("expected at least %d header cells, page has %d", s.schema.SkipHeaderCells, len(headers)),
		}
	}
	columnHeaders := headers[s.schema.SkipHeaderCells:]
	if err := s.schema.Validate(columnHeaders); err != nil {
		return nil, err
	}

	out := alert.NewTable(columnHeaders)

	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if i < s.schema.SkipHeaderRows {
			return true
		}

		cells := make([]string, 0, len(s.schema.Columns))
		tr.Find("td").EachWithBreak(func(j int, td *goquery.Selection) bool {
			cells = append(cells, strings.TrimSpace(td.Text()))
			return len(cells) < len(s.schema.Columns)
		})

		if len(cells) == 0 {
			// Separator or spacer row, nothing to extract.
			return true
		}

		if len(cells) < len(s.schema.Columns) {
			switch s.rowPolicy {
			case RowPolicySkip:
				return true
			case RowPolicyPad:
				for len(cells) < len(s.schema.Columns) {
					cells = append(cells, "")
				}
			default:
				rowErr = fmt.Errorf("row %d: %w (%d < %d)", i, ErrShortRow, len(cells), len(s.schema.Columns))
				return false
			}
		}

		if err := out.Append(cells); err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return out, nil
}
