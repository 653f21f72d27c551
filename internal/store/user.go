package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/shopfaster/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(sc scanner) (*model.User, error) {
	var u model.User
	var storeID sql.NullInt64
	err := sc.Scan(&u.ID, &u.Username, &u.PasswordHash, &storeID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.CurrentStoreID = int64Ptr(storeID)
	return &u, nil
}

const userCols = `id, username, password_hash, current_store_id, created_at, updated_at`

// Create inserts a user. A taken username yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if isUniqueConstraintError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// SetCurrentStore records which store the user is shopping in.
func (s *UserStore) SetCurrentStore(ctx context.Context, id, storeID int64) (*model.User, error) {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET current_store_id = ? WHERE id = ?`, storeID, id)
	if err != nil {
		return nil, fmt.Errorf("set current store: %w", err)
	}
	return s.GetByID(ctx, id)
}
