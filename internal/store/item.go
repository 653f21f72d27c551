package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/shopfaster/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(sc scanner) (*model.Item, error) {
	var i model.Item
	err := sc.Scan(&i.ID, &i.Name, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

const itemCols = `id, name, created_at`

// Create inserts an item and its tags in one transaction. A name that is
// already taken yields ErrDuplicate.
func (s *ItemStore) Create(ctx context.Context, name string, tags []string) (*model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, name)
	if isUniqueConstraintError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (item_id, name) VALUES (?, ?)`, id, tag); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit item: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the item with its tags.
func (s *ItemStore) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	tags, err := s.listTags(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Tags = tags
	return item, nil
}

func (s *ItemStore) GetByName(ctx context.Context, name string) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM items WHERE name = ?`, name)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by name: %w", err)
	}
	return item, nil
}

func (s *ItemStore) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemCols+` FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) listTags(ctx context.Context, itemID int64) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, name FROM tags WHERE item_id = ? ORDER BY id ASC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.ItemID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
