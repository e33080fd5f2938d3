package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ge-tracker/src/logger"
	"ge-tracker/src/models"
)

// -----------------------------------------------------------------------------

// SQLiteItemCache persists the current item mapping so a restarted process
// can resolve names before its first successful fetch. Rows are upserted on
// every refresh; this is a cache of current metadata, not a price history.
type SQLiteItemCache struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteItemCache(cfg *models.MConfig, log *logger.Logger) (*SQLiteItemCache, error) {
	return &SQLiteItemCache{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteItemCache) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteItemCache) createTables() error {
	// The cache survives restarts, so tables are created in place rather
	// than recreated.
	query := `
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			members INTEGER NOT NULL DEFAULT 0,
			buy_limit INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create items: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteItemCache) SaveItems(items []models.MItemMeta) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (id, name, members, buy_limit, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			members = excluded.members,
			buy_limit = excluded.buy_limit,
			updated_at = excluded.updated_at
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

func (d *SQLiteItemCache) LoadItems() (map[int]models.MItemMeta, error) {
	rows, err := d.DB.Query("SELECT id, name, members, buy_limit FROM items")
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

func (d *SQLiteItemCache) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
