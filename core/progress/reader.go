package progress

import "io"

// Reader wraps an io.Reader and reports cumulative bytes read to a Reporter.
// Wrap the Reporter with Throttle to bound event frequency.
type Reader struct {
	r        io.Reader
	total    int64
	reporter Reporter
	n        int64
}

// NewReader returns a Reader that reports progress against total bytes.
// Pass -1 when the total size is unknown.
func NewReader(r io.Reader, total int64, reporter Reporter) *Reader {
	if reporter == nil {
		reporter = Discard
	}
	return &Reader{r: r, total: total, reporter: reporter}
}

// Read reads from the underlying reader and emits a progress event.
func (pr *Reader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.n += int64(n)
		pr.reporter.Report(pr.n, pr.total)
	}
	return n, err
}

// N returns the cumulative number of bytes read so far.
func (pr *Reader) N() int64 {
	return pr.n
}
