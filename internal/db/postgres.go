package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, url)
}

// Migrate creates the tables the service needs. Safe to run on every start.
func Migrate(dbConn *sql.DB) error {
	_, err := dbConn.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	asin             VARCHAR(10) PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	images           TEXT[] NOT NULL DEFAULT '{}',
	brand            TEXT NOT NULL DEFAULT 'Unbranded',
	price            TEXT NOT NULL DEFAULT 'Price not available',
	rating           DOUBLE PRECISION,
	review_count     INTEGER NOT NULL DEFAULT 0,
	source           TEXT NOT NULL DEFAULT 'amazon-helper',
	ebay_title       TEXT NOT NULL DEFAULT '',
	ebay_description TEXT NOT NULL DEFAULT '',
	ebay_image       TEXT NOT NULL DEFAULT '',
	ebay_image_links TEXT NOT NULL DEFAULT '',
	ebay_price       TEXT NOT NULL DEFAULT '',
	ebay_item_id     TEXT NOT NULL DEFAULT '',
	account_id       UUID,
	category_id      UUID,
	template_values  JSONB NOT NULL DEFAULT '{}',
	spreadsheet      JSONB,
	last_updated     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_last_updated ON products (last_updated DESC);
CREATE INDEX IF NOT EXISTS idx_products_account ON products (account_id);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id);

CREATE TABLE IF NOT EXISTS accounts (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	email       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'active',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS categories (
	id               UUID PRIMARY KEY,
	name             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	account_id       UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	status           TEXT NOT NULL DEFAULT 'active',
	template_columns JSONB NOT NULL DEFAULT '[]',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (name, account_id)
);
`
