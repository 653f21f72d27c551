package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/shopfaster/internal/model"
)

type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func scanInventoryItem(sc scanner) (*model.InventoryItem, error) {
	var ii model.InventoryItem
	err := sc.Scan(&ii.ID, &ii.StoreID, &ii.TileID, &ii.ItemID)
	if err != nil {
		return nil, err
	}
	return &ii, nil
}

const inventoryCols = `id, store_id, tile_id, item_id`

// Create places an item on a tile. An item already stocked by the store
// yields ErrDuplicate.
func (s *InventoryStore) Create(ctx context.Context, storeID, tileID, itemID int64) (*model.InventoryItem, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_items (store_id, tile_id, item_id) VALUES (?, ?, ?)`,
		storeID, tileID, itemID,
	)
	if isUniqueConstraintError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert inventory item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *InventoryStore) GetByID(ctx context.Context, id int64) (*model.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inventoryCols+` FROM inventory_items WHERE id = ?`, id)
	ii, err := scanInventoryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return ii, nil
}

func (s *InventoryStore) GetByStoreAndItem(ctx context.Context, storeID, itemID int64) (*model.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inventoryCols+` FROM inventory_items WHERE store_id = ? AND item_id = ?`,
		storeID, itemID,
	)
	ii, err := scanInventoryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item by store: %w", err)
	}
	return ii, nil
}

// GetDetail returns the inventory item joined with its item name and tile.
func (s *InventoryStore) GetDetail(ctx context.Context, id int64) (*model.InventoryDetail, error) {
	var d model.InventoryDetail
	var obstacle int
	err := s.db.QueryRowContext(ctx,
		`SELECT ii.id, i.name, t.id, t.store_id, t.column_index, t.row_index, t.obstacle
		 FROM inventory_items ii
		 JOIN items i ON i.id = ii.item_id
		 JOIN tiles t ON t.id = ii.tile_id
		 WHERE ii.id = ?`,
		id,
	).Scan(&d.InventoryID, &d.Name, &d.Tile.ID, &d.Tile.StoreID, &d.Tile.Column, &d.Tile.Row, &obstacle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory detail: %w", err)
	}
	d.Tile.Obstacle = obstacle != 0
	return &d, nil
}

func (s *InventoryStore) ListByStore(ctx context.Context, storeID int64) ([]model.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inventoryCols+` FROM inventory_items WHERE store_id = ? ORDER BY id ASC`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		ii, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, *ii)
	}
	return items, rows.Err()
}

// Search returns the store's inventory whose item name or any tag contains
// at least one of the terms, case-insensitively. Each inventory item
// appears at most once.
func (s *InventoryStore) Search(ctx context.Context, storeID int64, terms []string) ([]model.SearchResult, error) {
	var conds []string
	args := []any{storeID}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		conds = append(conds, `lower(i.name) LIKE ? ESCAPE '\'`, `lower(t.name) LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}
	if len(conds) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ii.id, i.name
		 FROM inventory_items ii
		 JOIN items i ON i.id = ii.item_id
		 LEFT JOIN tags t ON t.item_id = i.id
		 WHERE ii.store_id = ? AND (`+strings.Join(conds, " OR ")+`)
		 GROUP BY ii.id, i.name
		 ORDER BY i.name ASC, ii.id ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("search inventory: %w", err)
	}
	defer rows.Close()

	var results []model.SearchResult
	for rows.Next() {
		var r model.SearchResult
		if err := rows.Scan(&r.InventoryID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
