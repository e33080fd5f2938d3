package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"ge-tracker/src/logger"
	"ge-tracker/src/models"
)

// -----------------------------------------------------------------------------

// PostgresItemCache is the Postgres backend of the item-metadata cache, for
// deployments that already run a shared database.
type PostgresItemCache struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresItemCache(cfg *models.MConfig, log *logger.Logger) (*PostgresItemCache, error) {
	if cfg.Storage.DBConnectionString == "" {
		return nil, fmt.Errorf("postgres item cache requires a connection string")
	}
	return &PostgresItemCache{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresItemCache) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	query := `
		CREATE TABLE IF NOT EXISTS ge_items (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			members BOOLEAN NOT NULL DEFAULT FALSE,
			buy_limit INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create ge_items: %w", err)
	}

	d.Logger.Info("Postgres item cache initialized")
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresItemCache) SaveItems(items []models.MItemMeta) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ge_items (id, name, members, buy_limit, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			members = EXCLUDED.members,
			buy_limit = EXCLUDED.buy_limit,
			updated_at = EXCLUDED.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, item := range items {
		if _, err := stmt.Exec(item.ID, item.Name, item.Members, item.BuyLimit, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresItemCache) LoadItems() (map[int]models.MItemMeta, error) {
	rows, err := d.DB.Query("SELECT id, name, members, buy_limit FROM ge_items")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int]models.MItemMeta)
	for rows.Next() {
		var item models.MItemMeta
		if err := rows.Scan(&item.ID, &item.Name, &item.Members, &item.BuyLimit); err != nil {
			return nil, err
		}
		items[item.ID] = item
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresItemCache) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
