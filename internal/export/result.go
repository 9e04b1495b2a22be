package export

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Outcome classifies how a pipeline ended.
type Outcome int

const (
	// Success: every included record was written.
	Success Outcome = iota
	// Partial: a file was produced but some content types were skipped or the row cap was hit.
	Partial
	// Fatal: no file is available.
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Partial:
		return "partial"
	default:
		return "fatal"
	}
}

// Result is what a pipeline hands back to its caller.
type Result struct {
	Kind      Kind
	Outcome   Outcome
	Rows      int
	Skipped   []string // content types whose ID fetch failed
	Truncated bool     // the row cap stopped the scan
	Err       error    // set when Outcome is Fatal
	Started   time.Time
	Duration  time.Duration

	path string
	size int64
}

// Completed builds a Result for a closed job.
func Completed(kind Kind, job *Job, size int64, started time.Time) *Result {
	return &Result{Kind: kind, Outcome: Success, Rows: job.Rows(), Started: started, path: job.Path(), size: size}
}

// Failed builds a fatal Result.
func Failed(kind Kind, err error, started time.Time) *Result {
	return &Result{Kind: kind, Outcome: Fatal, Err: err, Started: started}
}

// Size is the byte length of the produced CSV.
func (r *Result) Size() int64 { return r.size }

// Filename is the download name, stamped with the export start time to the minute.
func (r *Result) Filename() string {
	return Filename(r.Kind, r.Started)
}

// Filename formats e.g. "content-urls-2024-05-01-09-30.csv".
func Filename(kind Kind, t time.Time) string {
	return fmt.Sprintf("%s-%s.csv", kind.FilePrefix(), t.Format("2006-01-02-15-04"))
}

// Open returns the produced file for streaming. Closing the Download deletes the file.
func (r *Result) Open(onClose func()) (*Download, error) {
	if r.Outcome == Fatal || r.path == "" {
		return nil, fmt.Errorf("no export file available")
	}
	f, err := os.Open(r.path)
	if err != nil {
		_ = os.Remove(r.path)
		return nil, fmt.Errorf("open export file: %w", err)
	}
	return &Download{f: f, size: r.size, onClose: onClose}, nil
}

// Discard removes the produced file without sending it.
func (r *Result) Discard() {
	if r.path != "" {
		_ = os.Remove(r.path)
	}
}

// Download streams a finished export once and deletes it on Close.
type Download struct {
	f       *os.File
	size    int64
	onClose func()
	once    sync.Once
	err     error
}

var _ io.ReadCloser = (*Download)(nil)

// Size is the exact Content-Length of the body.
func (d *Download) Size() int64 { return d.size }

func (d *Download) Read(p []byte) (int, error) { return d.f.Read(p) }

// Close closes and removes the scratch file. It is safe to call more than once.
func (d *Download) Close() error {
	d.once.Do(func() {
		cerr := d.f.Close()
		rerr := os.Remove(d.f.Name())
		if cerr != nil {
			d.err = cerr
		} else if rerr != nil {
			d.err = rerr
		}
		if d.onClose != nil {
			d.onClose()
		}
	})
	return d.err
}
