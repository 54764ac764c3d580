// Package cli implements the command-line interface for neutrino-alerts.
//
// The cli package provides the Cobra-based CLI that runs the one-shot
// pipeline: fetch the GCN notices page, extract the notices table, filter it
// to first revisions, and render the result as text, JSON or CSV, optionally
// followed by a NED cone search over the filtered alerts. It coordinates the
// scraper, alert, conesearch and config packages.
package cli
