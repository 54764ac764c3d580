package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jhzhe/neutrino-alerts/internal/alert"
	"github.com/jhzhe/neutrino-alerts/internal/conesearch"
	"github.com/jhzhe/neutrino-alerts/internal/config"
	"github.com/jhzhe/neutrino-alerts/internal/logger"
	"github.com/jhzhe/neutrino-alerts/internal/scraper"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagURL          string
	flagTimeout      time.Duration
	flagFormat       string
	flagOutput       string
	flagSort         string
	flagMalformed    string
	flagAllRevisions bool
	flagConeSearch   bool
	flagConeDir      string
	flagVerbose      bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "neutrino-alerts",
		Short: "Fetch and filter AMON IceCube GOLD/BRONZE event notices",
		Long: `A CLI tool that fetches the GCN AMON IceCube GOLD/BRONZE event notices
page, extracts the notices table, and filters it to the first revision of
each event. The filtered table is rendered as text, JSON or CSV.`,
		SilenceUsage: true,
		RunE:         runFetch,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&flagURL, "url", "", "Override the notices page URL")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "HTTP timeout for the page fetch")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format: text, json or csv")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Write output to file instead of stdout (.gz compresses)")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort rows by: date, energy or id (default page order)")
	cmd.Flags().StringVar(&flagMalformed, "malformed", "", "Short-row policy: skip, pad or fail")
	cmd.Flags().BoolVar(&flagAllRevisions, "all-revisions", false, "Keep every revision instead of only the first")
	cmd.Flags().BoolVar(&flagConeSearch, "cone-search", false, "Run a NED cone search for each filtered alert")
	cmd.Flags().StringVar(&flagConeDir, "cone-dir", "", "Directory for cone-search result CSVs")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// loadConfig merges the optional config file with flag overrides. Flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("url") {
		cfg.Source.URL = flagURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Source.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("malformed") {
		cfg.Source.Malformed = flagMalformed
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flagFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = flagOutput
	}
	if cmd.Flags().Changed("sort") {
		cfg.Output.Sort = flagSort
	}
	if cmd.Flags().Changed("cone-search") {
		cfg.ConeSearch.Enabled = flagConeSearch
	}
	if cmd.Flags().Changed("cone-dir") {
		cfg.ConeSearch.Dir = flagConeDir
	}
	return cfg, nil
}

// runFetch is the main command logic
func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	level := logger.LevelInfo
	if !flagVerbose {
		level = logger.LevelWarn
	}
	logger.SetDefault(logger.New(level, os.Stderr, logger.Fields{"run_id": runID}))

	format := OutputFormat(cfg.Output.Format)
	if format != FormatText && format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("invalid format: %s (must be text, json or csv)", cfg.Output.Format)
	}

	rowPolicy, err := scraper.ParseRowPolicy(cfg.Source.Malformed)
	if err != nil {
		return err
	}

	sortOrder, err := parseSortOrder(cfg.Output.Sort)
	if err != nil {
		return err
	}

	sc := scraper.New(
		scraper.WithURL(cfg.Source.URL),
		scraper.WithTimeout(cfg.Source.Timeout),
		scraper.WithRowPolicy(rowPolicy),
	)

	logger.Info("fetching notices page", logger.Fields{"url": sc.URL()})

	start := time.Now()
	raw, err := sc.FetchTable()
	if err != nil {
		return fmt.Errorf("fetching notices: %w", err)
	}
	logger.RecordTiming("fetch", time.Since(start))
	logger.AddCounter("rows.raw", int64(raw.Len()))
	logger.Info("extracted notices table", logger.Fields{"rows": raw.Len()})

	table := raw
	if !flagAllRevisions {
		filtered, err := raw.FirstRevisions()
		if err != nil {
			return fmt.Errorf("filtering revisions: %w", err)
		}
		table = filtered.Drop(alert.ColRev, alert.ColTimeUT)
		logger.AddCounter("rows.filtered", int64(table.Len()))
		logger.Info("filtered to first revisions", logger.Fields{"rows": table.Len()})
	}

	if sortOrder != SortNone {
		sortTable(table, sortOrder)
	}

	result := &OutputResult{
		RunID:     runID,
		FetchedAt: time.Now().UTC(),
		SourceURL: sc.URL(),
		Table:     table,
		RowCount:  table.Len(),
	}

	out, closeOut, err := openOutput(cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := WriteOutput(out, result, format); err != nil {
		closeOut()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	if cfg.ConeSearch.Enabled {
		client := conesearch.NewClient(
			conesearch.WithURL(cfg.ConeSearch.URL),
			conesearch.WithTimeout(cfg.ConeSearch.Timeout),
			conesearch.WithMaxRows(cfg.ConeSearch.MaxRows),
		)
		start := time.Now()
		found, err := client.Search(table.Alerts(), cfg.ConeSearch.Dir)
		if err != nil {
			return fmt.Errorf("cone search: %w", err)
		}
		logger.RecordTiming("cone_search", time.Since(start))
		logger.Info("cone search complete", logger.Fields{
			"alerts_with_matches": found,
			"dir":                 cfg.ConeSearch.Dir,
		})
	}

	logger.Info("run complete", logger.Fields{"metrics": logger.GetMetricsSnapshot()})

	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
