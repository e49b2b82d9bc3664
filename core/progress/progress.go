package progress

// Reporter receives (completed, total) progress events from long-running
// operations. Total is -1 when the operation cannot determine it upfront.
type Reporter interface {
	Report(completed, total int64)
}

// Func adapts a plain function to the Reporter interface.
type Func func(completed, total int64)

// Report calls f(completed, total).
func (f Func) Report(completed, total int64) {
	f(completed, total)
}

// Discard is a Reporter that drops all events.
var Discard Reporter = Func(func(int64, int64) {})

// Throttled wraps a Reporter and forwards an event only after at least step
// additional units have completed since the last forwarded event. Flush must
// be called at end of operation so the final totals are always delivered.
type Throttled struct {
	inner Reporter
	step  int64

	lastReported int64
	completed    int64
	total        int64
}

// Throttle returns a Throttled reporter around inner. A non-positive step
// forwards every event.
func Throttle(inner Reporter, step int64) *Throttled {
	return &Throttled{inner: inner, step: step, lastReported: -1}
}

// Report records the event and forwards it when the step threshold is crossed.
func (t *Throttled) Report(completed, total int64) {
	t.completed = completed
	t.total = total
	if t.lastReported >= 0 && completed-t.lastReported < t.step {
		return
	}
	t.lastReported = completed
	t.inner.Report(completed, total)
}

// Flush forwards the most recent event unconditionally.
func (t *Throttled) Flush() {
	t.lastReported = t.completed
	t.inner.Report(t.completed, t.total)
}
