package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS reviews (
  id          UUID        PRIMARY KEY,
  company_id  TEXT        NOT NULL CHECK (company_id <> ''),
  author_id   TEXT        NOT NULL,
  author_name TEXT        NOT NULL DEFAULT '',
  comment     TEXT        NOT NULL CHECK (comment <> ''),
  rating      SMALLINT    NOT NULL CHECK (rating BETWEEN 1 AND 5),
  image_refs  JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_reviews_company_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_reviews_company_id ON reviews (company_id);`,
	},
	{
		Name: "create_index_reviews_author_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_reviews_author_id ON reviews (author_id);`,
	},
	{
		Name: "create_table_images",
		SQL: `CREATE TABLE IF NOT EXISTS images (
  id          UUID        PRIMARY KEY,
  company_id  TEXT        NOT NULL CHECK (company_id <> ''),
  uploader_id TEXT        NOT NULL,
  media_ref   TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_images_company_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_images_company_id ON images (company_id);`,
	},
}

// EnsureMigrated checks if the 'reviews' table exists and runs migrations if it doesn't.
// Every step is idempotent, so a partially applied schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Msg("checking schema")

	var exists bool
	const query = "SELECT to_regclass('public.reviews') IS NOT NULL AND to_regclass('public.images') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel tables")
		return fmt.Errorf("failed to check sentinel tables: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema migrated")

	return nil
}
