// Package diagnostics records the human-readable trail of an export run.
//
// Each request gets its own Buffer. Every line is appended, timestamped, to a
// shared append-only log file and kept in memory so the handler can hand it to
// the admin page for one-time display.
package diagnostics

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"urlexport/internal/config"
)

const timestampLayout = "2006-01-02 15:04:05"

// Buffer collects diagnostic lines for one export run. It is safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	sink  io.Writer
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewBuffer returns a buffer writing to sink. Either sink or log may be nil.
func NewBuffer(sink io.Writer, log logrus.FieldLogger) *Buffer {
	return &Buffer{sink: sink, log: log, now: time.Now}
}

// Logf records one line.
func (b *Buffer) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, msg)
	if b.sink != nil {
		// A failing log file must never fail the export.
		_, _ = fmt.Fprintf(b.sink, "[%s] %s\n", b.now().Format(timestampLayout), msg)
	}
	if b.log != nil {
		b.log.Debug(msg)
	}
}

// Lines returns a copy of the recorded lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// OpenLog returns the append-only diagnostics file writer, rotated by lumberjack.
func OpenLog(cfg config.LogConfig) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   cfg.DebugFile,
		MaxSize:    cfg.DebugMaxSizeMB,
		MaxBackups: cfg.DebugMaxBackups,
		MaxAge:     cfg.DebugMaxAgeDays,
	}
}
