// Package transfer moves dataset archives from the remote source to the
// local working directory.
//
// Download streams to disk with byte progress through progress.Reporter;
// Unzip unpacks the archive into the working directory. Neither step touches
// the store: a failed transfer aborts the reconciliation before any local
// state changes.
package transfer
