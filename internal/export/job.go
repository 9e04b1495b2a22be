// Package export writes CSV exports to request-scoped scratch files and hands them
// off for download.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"time"

	"urlexport/internal/config"
)

// Kind names the two export variants.
type Kind string

const (
	KindContent Kind = "content"
	KindMedia   Kind = "media"
)

// FilePrefix is the download filename prefix.
func (k Kind) FilePrefix() string {
	if k == KindMedia {
		return "media-urls"
	}
	return "content-urls"
}

func (k Kind) scratchPattern() string {
	if k == KindMedia {
		return "export-media-*.csv"
	}
	return "export-urls-*.csv"
}

var (
	// ErrScratchCreate means the scratch file could not be opened; nothing was exported.
	ErrScratchCreate = errors.New("failed to create temporary file for export")
	// ErrSoftTimeout means the scan ran past ExportConfig.SoftTimeout.
	ErrSoftTimeout = errors.New("export exceeded its time limit")
)

// Job streams CSV rows into a scratch file and counts them.
// A Job is used by a single goroutine.
type Job struct {
	kind     Kind
	maxRows  int
	deadline time.Time
	now      func() time.Time

	f    *os.File
	w    *csv.Writer
	rows int
}

// NewJob opens a scratch file under cfg.ScratchDir and writes the header row.
// Errors wrap ErrScratchCreate.
func NewJob(kind Kind, cfg config.ExportConfig, header []string) (*Job, error) {
	return newJob(kind, cfg, header, time.Now)
}

func newJob(kind Kind, cfg config.ExportConfig, header []string, now func() time.Time) (*Job, error) {
	f, err := os.CreateTemp(cfg.ScratchDir, kind.scratchPattern())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScratchCreate, err)
	}
	j := &Job{
		kind:    kind,
		maxRows: cfg.MaxRows,
		now:     now,
		f:       f,
		w:       csv.NewWriter(f),
	}
	if cfg.SoftTimeout > 0 {
		j.deadline = now().Add(cfg.SoftTimeout)
	}
	if err := j.w.Write(header); err != nil {
		j.Discard()
		return nil, fmt.Errorf("%w: write header: %v", ErrScratchCreate, err)
	}
	return j, nil
}

// Path is the scratch file location.
func (j *Job) Path() string { return j.f.Name() }

// Rows is the number of data rows written so far.
func (j *Job) Rows() int { return j.rows }

// Full reports whether the configured row cap has been reached.
func (j *Job) Full() bool { return j.maxRows > 0 && j.rows >= j.maxRows }

// Check returns an error once the request context is done or the soft deadline has passed.
// Pipelines call it between records.
func (j *Job) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !j.deadline.IsZero() && j.now().After(j.deadline) {
		return ErrSoftTimeout
	}
	return nil
}

// Write appends one data row.
func (j *Job) Write(record []string) error {
	if err := j.w.Write(record); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	j.rows++
	return nil
}

// Close flushes and closes the scratch file and returns its final size.
// The file stays on disk until the Result's download is closed or discarded.
func (j *Job) Close() (int64, error) {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.Discard()
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	fi, err := j.f.Stat()
	if err != nil {
		j.Discard()
		return 0, fmt.Errorf("stat scratch file: %w", err)
	}
	if err := j.f.Close(); err != nil {
		_ = os.Remove(j.f.Name())
		return 0, fmt.Errorf("close scratch file: %w", err)
	}
	return fi.Size(), nil
}

// Discard closes and removes the scratch file, ignoring errors.
func (j *Job) Discard() {
	_ = j.f.Close()
	_ = os.Remove(j.f.Name())
}
