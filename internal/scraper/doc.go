// Package scraper provides HTTP fetching and HTML parsing for the GCN AMON
// IceCube GOLD/BRONZE event notices page.
//
// The scraper fetches the public notices page, locates the notices table by
// its border attribute, and extracts headers and data rows into an
// alert.Table. Extraction is validated against a named column schema so that
// page-layout drift surfaces as a descriptive schema-mismatch error instead
// of an index fault. Handling of rows shorter than the schema is governed by
// a RowPolicy (skip, pad or fail).
package scraper
