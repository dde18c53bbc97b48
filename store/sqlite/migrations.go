package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Skilltree store (SQLite).
var Migrations = migrate.NewGroup("skilltree")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_skilltree_assets",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS skilltree_assets (
    id                 INTEGER PRIMARY KEY,
    title              TEXT NOT NULL DEFAULT '',
    description        TEXT NOT NULL DEFAULT '',
    creator            TEXT NOT NULL DEFAULT '',
    price              INTEGER NOT NULL DEFAULT 0,
    unlock_duration_ns INTEGER,
    metadata           TEXT NOT NULL DEFAULT '{}',
    owner              TEXT NOT NULL DEFAULT '',
    resale_price       INTEGER,
    is_active          INTEGER NOT NULL DEFAULT 1,
    created_at         TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at         TEXT NOT NULL DEFAULT (datetime('now'))
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
    balance    INTEGER NOT NULL DEFAULT 0,
    royalty    INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
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
    id      INTEGER PRIMARY KEY CHECK (id = 0),
    next_id INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO skilltree_counter (id, next_id) VALUES (0, 0);
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
