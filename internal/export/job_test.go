package export

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlexport/internal/config"
	"urlexport/internal/model"
)

func readCSV(t *testing.T, r io.Reader) [][]string {
	t.Helper()
	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	return records
}

func TestJob_WriteAndDeliver(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2024, 5, 1, 9, 30, 59, 0, time.UTC)

	job, err := NewJob(KindContent, config.ExportConfig{ScratchDir: dir}, model.ContentHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(job.Path()), "export-urls-"))

	require.NoError(t, job.Write(model.ContentRow{ID: 1, Title: "Fish, Chips & \"Peas\"", Type: "post", Status: "publish", URL: "https://example.com/?p=1"}.Record()))
	require.NoError(t, job.Write(model.ContentRow{ID: 2, Title: "Café", Type: "page", Status: "draft", URL: "https://example.com/?page_id=2"}.Record()))
	assert.Equal(t, 2, job.Rows())

	size, err := job.Close()
	require.NoError(t, err)

	res := Completed(KindContent, job, size, started)
	assert.Equal(t, "content-urls-2024-05-01-09-30.csv", res.Filename())
	assert.Equal(t, 2, res.Rows)

	closed := false
	dl, err := res.Open(func() { closed = true })
	require.NoError(t, err)
	assert.Equal(t, size, dl.Size())

	body, err := io.ReadAll(dl)
	require.NoError(t, err)
	assert.Equal(t, size, int64(len(body)))

	records := readCSV(t, strings.NewReader(string(body)))
	require.Len(t, records, 3)
	assert.Equal(t, model.ContentHeader, records[0])
	assert.Equal(t, `Fish, Chips & "Peas"`, records[1][1])
	assert.Equal(t, "Café", records[2][1])

	require.NoError(t, dl.Close())
	assert.True(t, closed)
	assert.NoError(t, dl.Close())
	_, err = os.Stat(job.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestJob_HeaderOnly(t *testing.T) {
	job, err := NewJob(KindMedia, config.ExportConfig{ScratchDir: t.TempDir()}, model.MediaHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(job.Path()), "export-media-"))

	size, err := job.Close()
	require.NoError(t, err)

	f, err := os.Open(job.Path())
	require.NoError(t, err)
	defer f.Close()
	records := readCSV(t, f)
	assert.Equal(t, [][]string{model.MediaHeader}, records)
	assert.Equal(t, int64(len("ID,Title,Post Type,Status,URL,File URL,File Type,File Size\n")), size)
}

func TestNewJob_ScratchDirMissing(t *testing.T) {
	_, err := NewJob(KindContent, config.ExportConfig{ScratchDir: filepath.Join(t.TempDir(), "missing")}, model.ContentHeader)
	assert.ErrorIs(t, err, ErrScratchCreate)
}

func TestJob_Full(t *testing.T) {
	job, err := NewJob(KindContent, config.ExportConfig{ScratchDir: t.TempDir(), MaxRows: 2}, model.ContentHeader)
	require.NoError(t, err)
	defer job.Discard()

	assert.False(t, job.Full())
	require.NoError(t, job.Write([]string{"1", "a", "post", "publish", "u"}))
	assert.False(t, job.Full())
	require.NoError(t, job.Write([]string{"2", "b", "post", "publish", "u"}))
	assert.True(t, job.Full())
}

func TestJob_Check(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	job, err := newJob(KindContent, config.ExportConfig{ScratchDir: t.TempDir(), SoftTimeout: time.Minute}, model.ContentHeader, clock)
	require.NoError(t, err)
	defer job.Discard()

	assert.NoError(t, job.Check(context.Background()))

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, job.Check(context.Background()), ErrSoftTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, job.Check(ctx), context.Canceled)
}

func TestJob_NoTimeout(t *testing.T) {
	job, err := NewJob(KindContent, config.ExportConfig{ScratchDir: t.TempDir()}, model.ContentHeader)
	require.NoError(t, err)
	defer job.Discard()

	assert.True(t, job.deadline.IsZero())
	assert.NoError(t, job.Check(context.Background()))
}

func TestJob_Discard(t *testing.T) {
	job, err := NewJob(KindContent, config.ExportConfig{ScratchDir: t.TempDir()}, model.ContentHeader)
	require.NoError(t, err)

	job.Discard()

	_, err = os.Stat(job.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestResult_OpenFatal(t *testing.T) {
	res := Failed(KindMedia, assert.AnError, time.Now())

	dl, err := res.Open(nil)
	assert.Error(t, err)
	assert.Nil(t, dl)
	assert.Equal(t, "fatal", res.Outcome.String())
}

func TestResult_Discard(t *testing.T) {
	job, err := NewJob(KindContent, config.ExportConfig{ScratchDir: t.TempDir()}, model.ContentHeader)
	require.NoError(t, err)
	size, err := job.Close()
	require.NoError(t, err)

	res := Completed(KindContent, job, size, time.Now())
	res.Discard()

	_, err = os.Stat(job.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 12, 31, 23, 59, 30, 0, time.UTC)
	assert.Equal(t, "content-urls-2025-12-31-23-59.csv", Filename(KindContent, ts))
	assert.Equal(t, "media-urls-2025-12-31-23-59.csv", Filename(KindMedia, ts))
}
