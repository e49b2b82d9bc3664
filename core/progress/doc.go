// Package progress defines the reporting seam between long-running
// operations and their presentation.
//
// The bulk importer and the downloader emit (completed, total) byte events
// through the Reporter interface instead of writing to the console directly.
// The CLI renders these as progress bars; the HTTP surface and tests plug in
// Discard or capture implementations.
//
// Throttle bounds event frequency for hot loops (the importer reports at
// 1 MiB granularity); Flush guarantees the final totals are delivered.
package progress
