// Package registry maintains the local queryable snapshot of the Simples
// Nacional enrollment dataset.
//
// # Components
//
//   - Store: the indexed SQLite (or MySQL) table of records keyed by the
//     8-character CNPJ base, plus the append-only release metadata log
//   - Loader: the batched bulk importer streaming the raw ;-delimited
//     Latin-1 CSV into the store with bounded memory
//   - Service: identifier normalization, point lookups and the dataset
//     summary
//   - Handler/Feature: the HTTP surface mounted by the serve command
//
// Subpackages implement the refresh pipeline: discovery (remote file index
// scraping), transfer (download and extraction) and reconcile (the version
// decision and pipeline driver).
//
// # Data model
//
// One record per CNPJ base with Simples and MEI option flags and their
// option/exclusion dates. Re-importing a prefix replaces the prior record;
// the store never rejects duplicates. The metadata log is append-only and
// read only through its most recent row.
package registry
