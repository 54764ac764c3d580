package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhzhe/neutrino-alerts/internal/alert"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortByDate   SortOrder = "date"
	SortByEnergy SortOrder = "energy"
	SortByID     SortOrder = "id"
)

// parseSortOrder validates a sort name from flags or config
func parseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortNone:
		return SortNone, nil
	case SortByDate:
		return SortByDate, nil
	case SortByEnergy:
		return SortByEnergy, nil
	case SortByID:
		return SortByID, nil
	}
	return SortNone, fmt.Errorf("invalid sort order: %q (must be date, energy or id)", s)
}

// sortTable sorts table rows in place by the specified order. The sort is
// stable so rows that compare equal keep their page order.
func sortTable(t *alert.Table, order SortOrder) {
	switch order {
	case SortByDate:
		di := t.ColumnIndex(alert.ColDate)
		if di < 0 {
			return
		}
		sort.SliceStable(t.Rows, func(i, j int) bool {
			return compareByDate(t.Rows[i][di], t.Rows[j][di])
		})
	case SortByEnergy:
		ei := t.ColumnIndex(alert.ColEnergy)
		if ei < 0 {
			return
		}
		sort.SliceStable(t.Rows, func(i, j int) bool {
			// Highest energy first
			return parseEnergy(t.Rows[i][ei]) > parseEnergy(t.Rows[j][ei])
		})
	case SortByID:
		ri := t.ColumnIndex(alert.ColRunEvent)
		if ri < 0 {
			return
		}
		sort.SliceStable(t.Rows, func(i, j int) bool {
			return t.Rows[i][ri] < t.Rows[j][ri]
		})
	}
}

// compareByDate compares two Date cells ("YY/MM/DD"), earliest first.
// Unparseable dates sort last.
func compareByDate(a, b string) bool {
	ta, errA := time.Parse("06/01/02", a)
	tb, errB := time.Parse("06/01/02", b)

	if errA == nil && errB == nil {
		return ta.Before(tb)
	}
	if errA == nil {
		return true
	}
	if errB == nil {
		return false
	}
	return a < b
}

// parseEnergy parses an energy cell; unparseable values sort last.
func parseEnergy(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return -1
	}
	return v
}
