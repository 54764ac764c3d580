// Package conesearch cross-matches neutrino alerts against the NED object
// catalog over a TAP (Table Access Protocol) sync endpoint.
//
// For each alert it issues one ADQL cone query centered on the alert's
// RA/Dec with the 90% localization-uncertainty radius, requests CSV results,
// and writes the matches for alert i to NED_SEARCH_<i>.csv in the output
// directory. Individual query failures are logged and skipped; the search
// never aborts the surrounding run.
package conesearch
