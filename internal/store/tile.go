package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/shopfaster/internal/model"
)

type TileStore struct {
	db *sql.DB
}

func NewTileStore(db *sql.DB) *TileStore {
	return &TileStore{db: db}
}

func scanTile(sc scanner) (*model.Tile, error) {
	var t model.Tile
	var obstacle int
	err := sc.Scan(&t.ID, &t.StoreID, &t.Column, &t.Row, &obstacle)
	if err != nil {
		return nil, err
	}
	t.Obstacle = obstacle != 0
	return &t, nil
}

const tileCols = `id, store_id, column_index, row_index, obstacle`

// Create inserts one tile. An occupied coordinate yields ErrDuplicate.
func (s *TileStore) Create(ctx context.Context, storeID int64, column, row int, obstacle bool) (*model.Tile, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tiles (store_id, column_index, row_index, obstacle) VALUES (?, ?, ?, ?)`,
		storeID, column, row, boolInt(obstacle),
	)
	if isUniqueConstraintError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert tile: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// CreateBatch inserts tiles in one transaction, skipping coordinates that
// already exist. It returns the number of tiles inserted.
func (s *TileStore) CreateBatch(ctx context.Context, tiles []model.Tile) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tiles (store_id, column_index, row_index, obstacle) VALUES (?, ?, ?, ?)
		 ON CONFLICT (store_id, column_index, row_index) DO NOTHING`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare insert tile: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, t := range tiles {
		result, err := stmt.ExecContext(ctx, t.StoreID, t.Column, t.Row, boolInt(t.Obstacle))
		if err != nil {
			return 0, fmt.Errorf("insert tile (%d,%d): %w", t.Column, t.Row, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tiles: %w", err)
	}
	return inserted, nil
}

func (s *TileStore) GetByID(ctx context.Context, id int64) (*model.Tile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tileCols+` FROM tiles WHERE id = ?`, id)
	t, err := scanTile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tile: %w", err)
	}
	return t, nil
}

func (s *TileStore) GetByCoordinate(ctx context.Context, storeID int64, column, row int) (*model.Tile, error) {
	r := s.db.QueryRowContext(ctx,
		`SELECT `+tileCols+` FROM tiles WHERE store_id = ? AND column_index = ? AND row_index = ?`,
		storeID, column, row,
	)
	t, err := scanTile(r)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tile by coordinate: %w", err)
	}
	return t, nil
}

func (s *TileStore) ListByStore(ctx context.Context, storeID int64) ([]model.Tile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tileCols+` FROM tiles WHERE store_id = ? ORDER BY column_index ASC, row_index ASC`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tiles: %w", err)
	}
	defer rows.Close()

	var tiles []model.Tile
	for rows.Next() {
		t, err := scanTile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		tiles = append(tiles, *t)
	}
	return tiles, rows.Err()
}

// SetObstacles updates the obstacle flag of the given store's tiles by
// coordinate and returns how many tiles changed.
func (s *TileStore) SetObstacles(ctx context.Context, storeID int64, tiles []model.Tile) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var updated int64
	for _, t := range tiles {
		result, err := tx.ExecContext(ctx,
			`UPDATE tiles SET obstacle = ? WHERE store_id = ? AND column_index = ? AND row_index = ?`,
			boolInt(t.Obstacle), storeID, t.Column, t.Row,
		)
		if err != nil {
			return 0, fmt.Errorf("update obstacle (%d,%d): %w", t.Column, t.Row, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit obstacles: %w", err)
	}
	return updated, nil
}
