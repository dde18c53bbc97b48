package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Skilltree store.
var Migrations = migrate.NewGroup("skilltree")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_skilltree_assets",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS skilltree_assets (
    id                 BIGINT PRIMARY KEY,
    title              TEXT NOT NULL DEFAULT '',
    description        TEXT NOT NULL DEFAULT '',
    creator            TEXT NOT NULL DEFAULT '',
    price              BIGINT NOT NULL DEFAULT 0,
    unlock_duration_ns BIGINT,
    metadata           JSONB NOT NULL DEFAULT '{}',
    owner              TEXT NOT NULL DEFAULT '',
    resale_price       BIGINT,
    is_active          BOOLEAN NOT NULL DEFAULT TRUE,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_skilltree_assets_owner ON skilltree_assets (owner);
CREATE INDEX IF NOT EXISTS idx_skilltree_assets_creator ON skilltree_assets (creator);
CREATE INDEX IF NOT EXISTS idx_skilltree_assets_active ON skilltree_assets (is_active);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS skilltree_assets`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_skilltree_accounts",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS skilltree_accounts (
    principal  TEXT PRIMARY KEY,
    balance    BIGINT NOT NULL DEFAULT 0,
    royalty    BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS skilltree_accounts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_skilltree_counter",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS skilltree_counter (
    id      BIGINT PRIMARY KEY CHECK (id = 0),
    next_id BIGINT NOT NULL DEFAULT 0
);

INSERT INTO skilltree_counter (id, next_id) VALUES (0, 0) ON CONFLICT (id) DO NOTHING;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS skilltree_counter`)
				return err
			},
		},
	)
}
