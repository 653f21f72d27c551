package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/shopfaster/internal/model"
)

// ListItemStore persists shopping list entries. Every method is scoped to
// a user; an entry owned by someone else behaves as if it did not exist.
type ListItemStore struct {
	db *sql.DB
}

func NewListItemStore(db *sql.DB) *ListItemStore {
	return &ListItemStore{db: db}
}

func scanListItem(sc scanner) (*model.ListItem, error) {
	var li model.ListItem
	var active, crossedOff int
	err := sc.Scan(&li.ID, &li.UserID, &li.InventoryID, &active, &crossedOff, &li.SortOrder, &li.CreatedAt)
	if err != nil {
		return nil, err
	}
	li.Active = active != 0
	li.CrossedOff = crossedOff != 0
	return &li, nil
}

const listItemCols = `id, user_id, inventory_id, active, crossed_off, sorting_order, created_at`

// ListViews returns the user's entries whose inventory item is stocked by
// storeID, joined with item and tile data, in creation order.
func (s *ListItemStore) ListViews(ctx context.Context, userID, storeID int64) ([]model.ListView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT li.id, li.sorting_order, li.active, li.crossed_off,
		        ii.id, i.id, i.name, t.id, t.column_index, t.row_index, ii.store_id
		 FROM list_items li
		 JOIN inventory_items ii ON ii.id = li.inventory_id
		 JOIN items i ON i.id = ii.item_id
		 JOIN tiles t ON t.id = ii.tile_id
		 WHERE li.user_id = ? AND ii.store_id = ?
		 ORDER BY li.id ASC`,
		userID, storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer rows.Close()

	var views []model.ListView
	for rows.Next() {
		var v model.ListView
		var active, crossedOff int
		err := rows.Scan(
			&v.ListItemID, &v.SortOrder, &active, &crossedOff,
			&v.InventoryID, &v.ItemID, &v.Name, &v.TileID, &v.Column, &v.Row, &v.StoreID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan list view: %w", err)
		}
		v.Active = active != 0
		v.CrossedOff = crossedOff != 0
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *ListItemStore) GetByID(ctx context.Context, userID, id int64) (*model.ListItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listItemCols+` FROM list_items WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	li, err := scanListItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list item: %w", err)
	}
	return li, nil
}

// Insert adds an entry with a single conditional insert, so concurrent
// identical requests cannot both succeed. An existing (user, inventory)
// pair yields ErrDuplicate; an unknown inventory id yields ErrMissingReference.
func (s *ListItemStore) Insert(ctx context.Context, userID, inventoryID int64) (*model.ListItem, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO list_items (user_id, inventory_id) VALUES (?, ?)
		 ON CONFLICT (user_id, inventory_id) DO NOTHING`,
		userID, inventoryID,
	)
	if isForeignKeyError(err) {
		return nil, ErrMissingReference
	}
	if err != nil {
		return nil, fmt.Errorf("insert list item: %w", err)
	}
	added, err := rowsChanged(result)
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if !added {
		return nil, ErrDuplicate
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, userID, id)
}

// InsertMany adds entries in one transaction, skipping pairs that already
// exist, and returns how many were added.
func (s *ListItemStore) InsertMany(ctx context.Context, userID int64, inventoryIDs []int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var added int64
	for _, invID := range inventoryIDs {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO list_items (user_id, inventory_id) VALUES (?, ?)
			 ON CONFLICT (user_id, inventory_id) DO NOTHING`,
			userID, invID,
		)
		if isForeignKeyError(err) {
			return 0, ErrMissingReference
		}
		if err != nil {
			return 0, fmt.Errorf("insert list item %d: %w", invID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		added += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit list items: %w", err)
	}
	return added, nil
}

// SetActive flips the active flag. Deactivating also clears crossed_off.
func (s *ListItemStore) SetActive(ctx context.Context, userID, id int64, active bool) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_items
		 SET active = ?, crossed_off = CASE WHEN ? = 1 THEN crossed_off ELSE 0 END
		 WHERE id = ? AND user_id = ?`,
		boolInt(active), boolInt(active), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("set active: %w", err)
	}
	return rowsChanged(result)
}

func (s *ListItemStore) SetAllActive(ctx context.Context, userID int64, active bool) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_items
		 SET active = ?, crossed_off = CASE WHEN ? = 1 THEN crossed_off ELSE 0 END
		 WHERE user_id = ?`,
		boolInt(active), boolInt(active), userID,
	)
	if err != nil {
		return 0, fmt.Errorf("set all active: %w", err)
	}
	return result.RowsAffected()
}

// SetCrossedOff flips the crossed_off flag. Inactive entries stay not
// crossed off.
func (s *ListItemStore) SetCrossedOff(ctx context.Context, userID, id int64, crossedOff bool) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_items
		 SET crossed_off = CASE WHEN active = 1 THEN ? ELSE 0 END
		 WHERE id = ? AND user_id = ?`,
		boolInt(crossedOff), id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("set crossed off: %w", err)
	}
	return rowsChanged(result)
}

func (s *ListItemStore) SetAllCrossedOff(ctx context.Context, userID int64, crossedOff bool) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_items
		 SET crossed_off = CASE WHEN active = 1 THEN ? ELSE 0 END
		 WHERE user_id = ?`,
		boolInt(crossedOff), userID,
	)
	if err != nil {
		return 0, fmt.Errorf("set all crossed off: %w", err)
	}
	return result.RowsAffected()
}

// ClearCrossedOff moves every crossed-off entry to the inactive tail.
func (s *ListItemStore) ClearCrossedOff(ctx context.Context, userID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_items SET crossed_off = 0, active = 0 WHERE user_id = ? AND crossed_off = 1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear crossed off: %w", err)
	}
	return result.RowsAffected()
}

func (s *ListItemStore) SetSortOrder(ctx context.Context, userID, id int64, sortOrder int) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE list_items SET sorting_order = ? WHERE id = ? AND user_id = ?`,
		sortOrder, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("set sort order: %w", err)
	}
	return rowsChanged(result)
}

// SetSortOrders applies every update in one transaction. Entries the user
// does not own are skipped.
func (s *ListItemStore) SetSortOrders(ctx context.Context, userID int64, updates []model.SortUpdate) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var updated int64
	for _, u := range updates {
		result, err := tx.ExecContext(ctx,
			`UPDATE list_items SET sorting_order = ? WHERE id = ? AND user_id = ?`,
			u.SortOrder, u.ListItemID, userID,
		)
		if err != nil {
			return 0, fmt.Errorf("set sort order %d: %w", u.ListItemID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sort orders: %w", err)
	}
	return updated, nil
}

func (s *ListItemStore) Delete(ctx context.Context, userID, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete list item: %w", err)
	}
	return rowsChanged(result)
}

// CountByUser returns how many entries the user has across all stores.
func (s *ListItemStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM list_items WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count list items: %w", err)
	}
	return count, nil
}
