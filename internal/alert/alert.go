package alert

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column names as published in the GCN notices table header.
const (
	ColRunEvent   = "RunNum_EventNum"
	ColRev        = "Rev"
	ColDate       = "Date"
	ColTimeUT     = "Time UT"
	ColNoticeType = "NoticeType"
	ColRA         = "RA [deg]"
	ColDec        = "Dec [deg]"
	ColError90    = "Error90 [arcmin]"
	ColError50    = "Error50 [arcmin]"
	ColEnergy     = "Energy"
)

// Notice classifications published by AMON.
const (
	NoticeGold   = "GOLD"
	NoticeBronze = "BRONZE"
)

// FirstRevision is the revision string of an original (uncorrected) notice.
const FirstRevision = "1"

// Alert represents one IceCube event notice row. All fields hold the page
// text verbatim (trimmed); use the accessor methods for typed values.
type Alert struct {
	RunEvent   string `json:"run_event"`
	Rev        string `json:"rev,omitempty"`
	Date       string `json:"date"`
	TimeUT     string `json:"time_ut,omitempty"`
	NoticeType string `json:"notice_type"`
	RA         string `json:"ra_deg"`
	Dec        string `json:"dec_deg"`
	Error90    string `json:"error90_arcmin"`
	Error50    string `json:"error50_arcmin"`
	Energy     string `json:"energy"`
}

// FromRow builds an Alert from a table row, mapping cells by column name.
// Columns beyond the known set are ignored; missing known columns leave the
// corresponding field empty.
func FromRow(columns []string, row []string) *Alert {
	a := &Alert{}
	for i, col := range columns {
		if i >= len(row) {
			break
		}
		switch col {
		case ColRunEvent:
			a.RunEvent = row[i]
		case ColRev:
			a.Rev = row[i]
		case ColDate:
			a.Date = row[i]
		case ColTimeUT:
			a.TimeUT = row[i]
		case ColNoticeType:
			a.NoticeType = row[i]
		case ColRA:
			a.RA = row[i]
		case ColDec:
			a.Dec = row[i]
		case ColError90:
			a.Error90 = row[i]
		case ColError50:
			a.Error50 = row[i]
		case ColEnergy:
			a.Energy = row[i]
		}
	}
	return a
}

// RunNum returns the run-number half of the composite RunNum_EventNum key.
func (a *Alert) RunNum() string {
	run, _, _ := strings.Cut(a.RunEvent, "_")
	return run
}

// EventNum returns the event-number half of the composite key.
func (a *Alert) EventNum() string {
	_, evt, _ := strings.Cut(a.RunEvent, "_")
	return evt
}

// IsGold reports whether the notice carries the high-confidence GOLD label.
func (a *Alert) IsGold() bool {
	return strings.EqualFold(a.NoticeType, NoticeGold)
}

// IsFirstRevision reports whether this row is the original notice rather
// than a later correction or retraction.
func (a *Alert) IsFirstRevision() bool {
	return a.Rev == FirstRevision
}

// Coordinates parses RA and Dec into decimal degrees.
func (a *Alert) Coordinates() (ra, dec float64, err error) {
	ra, err = strconv.ParseFloat(a.RA, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing RA %q: %w", a.RA, err)
	}
	dec, err = strconv.ParseFloat(a.Dec, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing Dec %q: %w", a.Dec, err)
	}
	return ra, dec, nil
}

// Error90Arcmin parses the 90% localization-uncertainty radius.
func (a *Alert) Error90Arcmin() (float64, error) {
	v, err := strconv.ParseFloat(a.Error90, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing Error90 %q: %w", a.Error90, err)
	}
	return v, nil
}

// EnergyTeV parses the energy estimate, published in scientific notation.
func (a *Alert) EnergyTeV() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(a.Energy), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing energy %q: %w", a.Energy, err)
	}
	return v, nil
}

// ObservationDate parses the Date field ("YY/MM/DD") into a time.Time.
// Returns the zero value if parsing fails.
func (a *Alert) ObservationDate() time.Time {
	t, err := time.Parse("06/01/02", a.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
