package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/shopfaster/internal/model"
)

// StoreStore persists grocery stores (the physical kind).
type StoreStore struct {
	db *sql.DB
}

func NewStoreStore(db *sql.DB) *StoreStore {
	return &StoreStore{db: db}
}

func scanStore(sc scanner) (*model.Store, error) {
	var st model.Store
	var entrance, checkout sql.NullInt64
	err := sc.Scan(&st.ID, &st.Name, &st.MapURL, &entrance, &checkout, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	st.EntranceTileID = int64Ptr(entrance)
	st.CheckoutTileID = int64Ptr(checkout)
	return &st, nil
}

const storeCols = `id, name, map_url, entrance_tile_id, checkout_tile_id, created_at`

func (s *StoreStore) Create(ctx context.Context, name, mapURL string) (*model.Store, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO stores (name, map_url) VALUES (?, ?)`,
		name, mapURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert store: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *StoreStore) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+storeCols+` FROM stores WHERE id = ?`, id)
	st, err := scanStore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return st, nil
}

func (s *StoreStore) List(ctx context.Context) ([]model.Store, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+storeCols+` FROM stores ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, *st)
	}
	return stores, rows.Err()
}

// SetLandmarks points the store at its entrance and checkout tiles.
func (s *StoreStore) SetLandmarks(ctx context.Context, id int64, entranceTileID, checkoutTileID *int64) (*model.Store, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE stores SET entrance_tile_id = ?, checkout_tile_id = ? WHERE id = ?`,
		nullInt64(entranceTileID), nullInt64(checkoutTileID), id,
	)
	if err != nil {
		return nil, fmt.Errorf("set landmarks: %w", err)
	}
	return s.GetByID(ctx, id)
}
