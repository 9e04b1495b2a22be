package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"urlexport/internal/config"
	"urlexport/internal/diagnostics"
	"urlexport/internal/export"
	"urlexport/internal/model"
	"urlexport/internal/repository"
	"urlexport/internal/storage"
)

// ErrMediaEnumeration means the attachment ID list could not be fetched; the media export is aborted.
var ErrMediaEnumeration = errors.New("error retrieving media attachments")

var tracer = otel.Tracer("urlexport/internal/service")

// TypeLister supplies the names of publicly registered content types.
type TypeLister interface {
	PublicNames() []string
}

// Permalinker resolves a record's public URL.
type Permalinker interface {
	Permalink(p *model.Post) string
}

// ExportService runs the two export pipelines.
// Both always return a non-nil Result; the error is non-nil exactly when the Result is Fatal.
// On success the caller owns the produced file and must Open or Discard it.
type ExportService interface {
	// ExportContent writes every non-attachment record of every public type.
	// A type whose IDs cannot be fetched is skipped and the Result is Partial.
	ExportContent(ctx context.Context, diag *diagnostics.Buffer) (*export.Result, error)

	// ExportMedia writes every attachment with its file URL, MIME type and size.
	// Failing to fetch the attachment IDs is fatal.
	ExportMedia(ctx context.Context, diag *diagnostics.Buffer) (*export.Result, error)
}

// Deps are the collaborators of the export service.
type Deps struct {
	Repo       repository.ContentRepository
	Store      storage.Storage
	Types      TypeLister
	Links      Permalinker
	Export     config.ExportConfig
	UploadsURL string
	Metrics    *export.Metrics
	Log        logrus.FieldLogger
}

type exportService struct {
	Deps
	now func() time.Time
}

// NewExportService constructs a new ExportService.
func NewExportService(d Deps) ExportService {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	d.UploadsURL = strings.TrimRight(d.UploadsURL, "/")
	return &exportService{Deps: d, now: time.Now}
}

func (s *exportService) ExportContent(ctx context.Context, diag *diagnostics.Buffer) (*export.Result, error) {
	ctx, span := tracer.Start(ctx, "export.content")
	defer span.End()
	started := s.now()

	diag.Logf("Starting content export function")
	job, err := s.openJob(export.KindContent, model.ContentHeader, diag)
	if err != nil {
		return s.fail(span, export.KindContent, err, started, diag)
	}

	types := contentTypes(s.Types.PublicNames())
	diag.Logf("Found %d content post types: %s", len(types), strings.Join(types, ", "))

	var skipped []string
	truncated := false
scan:
	for _, postType := range types {
		ids, err := s.Repo.PostIDs(ctx, postType)
		if err != nil {
			diag.Logf("Error getting posts for %s: %v", postType, err)
			skipped = append(skipped, postType)
			continue
		}
		diag.Logf("Found %d posts for post type: %s", len(ids), postType)

		for _, id := range ids {
			if err := job.Check(ctx); err != nil {
				job.Discard()
				return s.fail(span, export.KindContent, err, started, diag)
			}
			if job.Full() {
				truncated = true
				break scan
			}
			row := s.contentRow(ctx, id, postType, diag)
			if err := job.Write(row.Record()); err != nil {
				job.Discard()
				return s.fail(span, export.KindContent, err, started, diag)
			}
		}
	}

	res, err := s.complete(span, export.KindContent, job, started, diag)
	if err != nil {
		return res, err
	}
	diag.Logf("Total content posts exported: %d", res.Rows)
	diag.Logf("Content CSV file created successfully")
	res.Skipped = skipped
	res.Truncated = truncated
	if len(skipped) > 0 || truncated {
		res.Outcome = export.Partial
	}
	s.finish(span, res)
	return res, nil
}

func (s *exportService) ExportMedia(ctx context.Context, diag *diagnostics.Buffer) (*export.Result, error) {
	ctx, span := tracer.Start(ctx, "export.media")
	defer span.End()
	started := s.now()

	diag.Logf("Starting media export function")
	job, err := s.openJob(export.KindMedia, model.MediaHeader, diag)
	if err != nil {
		return s.fail(span, export.KindMedia, err, started, diag)
	}

	ids, err := s.Repo.PostIDs(ctx, model.TypeAttachment)
	if err != nil {
		diag.Logf("Error getting media: %v", err)
		job.Discard()
		return s.fail(span, export.KindMedia, fmt.Errorf("%w: %v", ErrMediaEnumeration, err), started, diag)
	}
	diag.Logf("Found %d media attachments", len(ids))

	truncated := false
	for _, id := range ids {
		if err := job.Check(ctx); err != nil {
			job.Discard()
			return s.fail(span, export.KindMedia, err, started, diag)
		}
		if job.Full() {
			truncated = true
			break
		}
		row := s.mediaRow(ctx, id, diag)
		if err := job.Write(row.Record()); err != nil {
			job.Discard()
			return s.fail(span, export.KindMedia, err, started, diag)
		}
	}

	res, err := s.complete(span, export.KindMedia, job, started, diag)
	if err != nil {
		return res, err
	}
	diag.Logf("Total media items exported: %d", res.Rows)
	diag.Logf("Media CSV file created successfully")
	res.Truncated = truncated
	if truncated {
		res.Outcome = export.Partial
	}
	s.finish(span, res)
	return res, nil
}

// contentTypes drops the attachment type even when it is registered as public.
func contentTypes(public []string) []string {
	out := make([]string, 0, len(public))
	for _, t := range public {
		if t != model.TypeAttachment {
			out = append(out, t)
		}
	}
	return out
}

// contentRow resolves one record. A record that cannot be loaded still yields a row
// carrying its ID and type, so the row count always matches the enumerated IDs.
func (s *exportService) contentRow(ctx context.Context, id int64, postType string, diag *diagnostics.Buffer) model.ContentRow {
	p, err := s.Repo.FindPost(ctx, id)
	if err != nil {
		diag.Logf("Error loading post %d: %v", id, err)
		return model.ContentRow{ID: id, Type: postType}
	}
	return model.ContentRow{
		ID:     id,
		Title:  html.UnescapeString(p.Title),
		Type:   postType,
		Status: p.Status,
		URL:    s.Links.Permalink(p),
	}
}

func (s *exportService) mediaRow(ctx context.Context, id int64, diag *diagnostics.Buffer) model.MediaRow {
	a, err := s.Repo.FindAttachment(ctx, id)
	if err != nil {
		diag.Logf("Error loading attachment %d: %v", id, err)
		return model.MediaRow{
			ContentRow: model.ContentRow{ID: id, Type: model.TypeAttachment},
			FileSize:   export.Unknown,
		}
	}

	row := model.MediaRow{
		ContentRow: model.ContentRow{
			ID:     id,
			Title:  html.UnescapeString(a.Title),
			Type:   model.TypeAttachment,
			Status: a.Status,
			URL:    s.Links.Permalink(&a.Post),
		},
		FileType: a.MimeType,
		FileSize: export.Unknown,
	}
	if a.AttachedFile == "" {
		return row
	}
	row.FileURL = s.fileURL(a.AttachedFile)

	info, err := s.Store.Stat(ctx, a.AttachedFile)
	switch {
	case err == nil:
		row.FileSize = export.FormatSize(info.Size, 2)
	case errors.Is(err, storage.ErrObjectNotFound):
	default:
		diag.Logf("Could not read file size for attachment %d: %v", id, err)
	}
	return row
}

// fileURL joins the uploads base URL and the attached file key. Keys that are
// already absolute URLs (offloaded media) are returned as-is.
func (s *exportService) fileURL(key string) string {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return s.UploadsURL + "/" + strings.TrimLeft(key, "/")
}

func (s *exportService) openJob(kind export.Kind, header []string, diag *diagnostics.Buffer) (*export.Job, error) {
	job, err := export.NewJob(kind, s.Export, header)
	if err != nil {
		diag.Logf("Failed to open temp file")
		return nil, err
	}
	diag.Logf("Created temp file: %s", job.Path())
	diag.Logf("CSV header written")
	return job, nil
}

func (s *exportService) complete(span trace.Span, kind export.Kind, job *export.Job, started time.Time, diag *diagnostics.Buffer) (*export.Result, error) {
	size, err := job.Close()
	if err != nil {
		return s.fail(span, kind, err, started, diag)
	}
	return export.Completed(kind, job, size, started), nil
}

func (s *exportService) fail(span trace.Span, kind export.Kind, err error, started time.Time, diag *diagnostics.Buffer) (*export.Result, error) {
	diag.Logf("Exception: %v", err)
	res := export.Failed(kind, err, started)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.finish(span, res)
	return res, err
}

func (s *exportService) finish(span trace.Span, res *export.Result) {
	res.Duration = s.now().Sub(res.Started)
	span.SetAttributes(
		attribute.String("export.kind", string(res.Kind)),
		attribute.String("export.outcome", res.Outcome.String()),
		attribute.Int("export.rows", res.Rows),
	)
	s.Metrics.Observe(res)

	entry := s.Log.WithFields(logrus.Fields{
		"component":   "export",
		"kind":        res.Kind,
		"outcome":     res.Outcome.String(),
		"rows":        res.Rows,
		"duration_ms": res.Duration.Milliseconds(),
	})
	switch res.Outcome {
	case export.Fatal:
		entry.WithError(res.Err).Error("export failed")
	case export.Partial:
		entry.WithField("skipped_types", res.Skipped).WithField("truncated", res.Truncated).Warn("export incomplete")
	default:
		entry.Info("export built")
	}
}
