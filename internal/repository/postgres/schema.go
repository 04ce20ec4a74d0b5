package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"educreate/internal/domain/models"
)

// SchemaStatements returns the DDL for the folder table, in execution order.
func SchemaStatements(tables *TableNames) []string {
	t := tables.Folders
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			parent_id   UUID REFERENCES %s(id),
			name        TEXT NOT NULL CHECK (char_length(name) BETWEEN 1 AND 255),
			type        TEXT NOT NULL,
			depth       INT  NOT NULL CHECK (depth BETWEEN 0 AND %d),
			path        TEXT NOT NULL,
			color       TEXT NOT NULL DEFAULT '',
			icon        TEXT NOT NULL DEFAULT '',
			description TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at  TIMESTAMPTZ
		)`, t, t, models.MaxDepth),
		// Sibling names are unique among live folders only; COALESCE folds
		// all root-level folders into one group.
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_live_sibling_name_idx
			ON %s (user_id, type, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid), name)
			WHERE deleted_at IS NULL`, t, t),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_user_type_idx ON %s (user_id, type) WHERE deleted_at IS NULL`, t, t),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent_id)`, t, t),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_path_idx ON %s (user_id, path text_pattern_ops)`, t, t),
	}
}

// EnsureSchema creates the folder table and its indexes if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, stmt := range SchemaStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops the folder table and everything depending on it.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables.Folders)); err != nil {
		return fmt.Errorf("drop %s: %w", tables.Folders, err)
	}
	return nil
}
