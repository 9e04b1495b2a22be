package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Options selects the SQL dialect and table names the migration works against.
type Options struct {
	Driver      string // "pgx" or "sqlite"
	TablePrefix string
	DBHost      string
}

type migrationStep struct {
	Name string
	SQL  string
}

func steps(o Options) []migrationStep {
	idCol := "id BIGSERIAL PRIMARY KEY"
	metaIDCol := "meta_id BIGSERIAL PRIMARY KEY"
	tsType := "TIMESTAMPTZ"
	if o.Driver == "sqlite" {
		idCol = "id INTEGER PRIMARY KEY AUTOINCREMENT"
		metaIDCol = "meta_id INTEGER PRIMARY KEY AUTOINCREMENT"
		tsType = "TIMESTAMP"
	}
	posts := o.TablePrefix + "posts"
	meta := o.TablePrefix + "postmeta"

	return []migrationStep{
		{
			Name: "create_table_posts",
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  %s,
  post_title     TEXT         NOT NULL DEFAULT '',
  post_type      VARCHAR(20)  NOT NULL DEFAULT 'post',
  post_status    VARCHAR(20)  NOT NULL DEFAULT 'publish',
  post_name      VARCHAR(200) NOT NULL DEFAULT '',
  post_mime_type VARCHAR(100) NOT NULL DEFAULT '',
  post_date      %s           NOT NULL DEFAULT CURRENT_TIMESTAMP
);`, posts, idCol, tsType),
		},
		{
			Name: "create_index_posts_type_status_date",
			SQL:  fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_type_status_date ON %s (post_type, post_status, post_date, id);`, posts, posts),
		},
		{
			Name: "create_table_postmeta",
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  %s,
  post_id    BIGINT       NOT NULL,
  meta_key   VARCHAR(255) NOT NULL,
  meta_value TEXT
);`, meta, metaIDCol),
		},
		{
			Name: "create_index_postmeta_post_id_key",
			SQL:  fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_post_id_key ON %s (post_id, meta_key);`, meta, meta),
		},
	}
}

func sentinelQuery(o Options) (string, []any) {
	if o.Driver == "sqlite" {
		return "SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = ?", []any{o.TablePrefix + "posts"}
	}
	return "SELECT to_regclass($1) IS NOT NULL", []any{"public." + o.TablePrefix + "posts"}
}

// EnsureMigrated checks if the posts table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, o Options, log logrus.FieldLogger) error {
	start := time.Now()
	log = log.WithFields(logrus.Fields{
		"component": "database",
		"db_host":   o.DBHost,
	})

	log.WithField("event", "db_migration_check").Info("checking schema")

	var exists bool
	query, args := sentinelQuery(o)
	if err := db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	log.WithField("event", "db_migration_start").Info("applying schema")

	for _, step := range steps(o) {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("migration step applied")
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")

	return nil
}
