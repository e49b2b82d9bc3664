// Package reconcile decides whether the local registry snapshot is current
// and, when it is not, drives the full refresh pipeline.
//
// # State machine
//
// A run moves through:
//
//	CHECKING -> UP_TO_DATE                                     (terminal)
//	CHECKING -> DOWNLOADING -> EXTRACTING -> REBUILDING
//	         -> LOADING -> DONE                                (terminal)
//	any      -> FAILED                                         (terminal)
//
// The decision rule compares the discovered remote release date against the
// locally persisted one: a reload triggers iff the local date is absent or
// the remote date is strictly greater. The metadata row appended at the end
// of a load acts as the commit marker, so an aborted load reads as "absent"
// and self-heals on the next run.
//
// Cleanup of the staged archive and data file is best-effort: failures are
// logged as warnings, never propagated. Nothing retries automatically; a
// failed run is simply re-invoked by the user.
package reconcile
