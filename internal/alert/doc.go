// Package alert provides types and functions for AMON IceCube GOLD/BRONZE
// neutrino event notices.
//
// The alert package models one notice row (Alert) and the ordered table of
// notices scraped from the GCN page (Table). Fields are kept as the verbatim
// strings published on the page; typed accessors parse coordinates, dates and
// energies on demand. Filtering to first revisions and dropping columns are
// pure operations that return new tables.
package alert
