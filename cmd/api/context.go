package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"urlexport/internal/config"
	"urlexport/internal/database"
	"urlexport/internal/database/migration"
	"urlexport/internal/diagnostics"
	"urlexport/internal/export"
	"urlexport/internal/logging"
	"urlexport/internal/permalink"
	"urlexport/internal/posttype"
	"urlexport/internal/repository/sqlstore"
	"urlexport/internal/service"
	"urlexport/internal/storage"
)

// commandContext lazily builds the shared pieces every subcommand needs.
type commandContext struct {
	loadConfig func() *config.AppConfig
	logOut     io.Writer // nil means stdout

	configOnce sync.Once
	config     *config.AppConfig
	log        *logrus.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{loadConfig: config.Load}
}

func (c *commandContext) ensureConfig() *config.AppConfig {
	c.configOnce.Do(func() {
		c.config = c.loadConfig()
		if c.logOut != nil {
			c.log = logging.NewWithWriter(c.config.Log, c.logOut)
		} else {
			c.log = logging.New(c.config.Log)
		}
	})
	return c.config
}

func (c *commandContext) logger() *logrus.Logger {
	c.ensureConfig()
	return c.log
}

// runtime is the wired export stack.
type runtime struct {
	db       *sql.DB
	repo     *sqlstore.ContentSQL
	exports  service.ExportService
	diagSink io.WriteCloser
}

func (r *runtime) Close() {
	if r.diagSink != nil {
		_ = r.diagSink.Close()
	}
	if r.db != nil {
		_ = r.db.Close()
	}
}

func (c *commandContext) openDB(ctx context.Context) (*sql.DB, error) {
	cfg := c.ensureConfig()
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, migration.Options{
		Driver:      cfg.Database.Driver,
		TablePrefix: cfg.Database.TablePrefix,
		DBHost:      cfg.Database.Host,
	}, c.logger()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// buildRuntime opens the database and storage and wires the export service.
// reg may be nil when export metrics are not served.
func (c *commandContext) buildRuntime(ctx context.Context, reg prometheus.Registerer) (*runtime, error) {
	cfg := c.ensureConfig()
	log := c.logger()

	types, err := posttype.LoadFile(cfg.PostTypesFile)
	if err != nil {
		return nil, err
	}
	links, err := permalink.NewResolver(cfg.SiteURL, cfg.Permalinks, types)
	if err != nil {
		return nil, err
	}

	var store storage.Storage
	switch cfg.Media.Backend {
	case "minio":
		store, err = storage.NewMinIO(cfg.MinIO)
	case "local", "":
		store, err = storage.NewLocal(cfg.Media.UploadsDir)
	default:
		err = fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	var metrics *export.Metrics
	if reg != nil {
		if metrics, err = export.NewMetrics(reg); err != nil {
			return nil, fmt.Errorf("register export metrics: %w", err)
		}
	}

	db, err := c.openDB(ctx)
	if err != nil {
		return nil, err
	}
	repo := sqlstore.NewContentSQL(db, sqlstore.Options{
		Driver:      cfg.Database.Driver,
		TablePrefix: cfg.Database.TablePrefix,
	})

	return &runtime{
		db:   db,
		repo: repo,
		exports: service.NewExportService(service.Deps{
			Repo:       repo,
			Store:      store,
			Types:      types,
			Links:      links,
			Export:     cfg.Export,
			UploadsURL: cfg.Media.UploadsURL,
			Metrics:    metrics,
			Log:        log,
		}),
		diagSink: diagnostics.OpenLog(cfg.Log),
	}, nil
}
