// Package shoplist assembles a user's shopping list for their current store
// and applies list mutations. Every mutation answers with the freshly
// sorted list rather than the mutated row.
package shoplist

import (
	"context"
	"errors"

	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoCurrentStore     = errors.New("no current store selected")
	ErrDuplicate          = errors.New("item already in shopping list")
	ErrMissingInventoryID = errors.New("missing inventoryID")
	ErrMissingItems       = errors.New("missing items")
	ErrInventoryNotFound  = errors.New("inventory item not found")
	ErrListItemNotFound   = errors.New("list item not found")
)

type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Repository is the persistence the list needs. Implementations scope
// every call to userID.
type Repository interface {
	ListViews(ctx context.Context, userID, storeID int64) ([]model.ListView, error)
	Insert(ctx context.Context, userID, inventoryID int64) (*model.ListItem, error)
	InsertMany(ctx context.Context, userID int64, inventoryIDs []int64) (int64, error)
	SetActive(ctx context.Context, userID, id int64, active bool) (bool, error)
	SetAllActive(ctx context.Context, userID int64, active bool) (int64, error)
	SetCrossedOff(ctx context.Context, userID, id int64, crossedOff bool) (bool, error)
	SetAllCrossedOff(ctx context.Context, userID int64, crossedOff bool) (int64, error)
	ClearCrossedOff(ctx context.Context, userID int64) (int64, error)
	SetSortOrder(ctx context.Context, userID, id int64, sortOrder int) (bool, error)
	SetSortOrders(ctx context.Context, userID int64, updates []model.SortUpdate) (int64, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type Service struct {
	users UserFinder
	repo  Repository
}

func NewService(users UserFinder, repo Repository) *Service {
	return &Service{users: users, repo: repo}
}

// Get returns the user's list for their current store, sorted. Entries for
// other stores are hidden, not removed. A user who has not picked a store
// gets ErrNoCurrentStore.
func (s *Service) Get(ctx context.Context, userID int64) ([]model.ListView, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.CurrentStoreID == nil {
		return nil, ErrNoCurrentStore
	}

	views, err := s.repo.ListViews(ctx, userID, *u.CurrentStoreID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []model.ListView{}
	}
	Sort(views)
	return views, nil
}

// Add puts an inventory item on the user's list.
func (s *Service) Add(ctx context.Context, userID, inventoryID int64) ([]model.ListView, error) {
	if inventoryID == 0 {
		return nil, ErrMissingInventoryID
	}
	if _, err := s.repo.Insert(ctx, userID, inventoryID); err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, userID)
}

// AddMany adds several inventory items; ones already listed are skipped.
func (s *Service) AddMany(ctx context.Context, userID int64, inventoryIDs []int64) ([]model.ListView, error) {
	if len(inventoryIDs) == 0 {
		return nil, ErrMissingInventoryID
	}
	for _, id := range inventoryIDs {
		if id == 0 {
			return nil, ErrMissingInventoryID
		}
	}
	if _, err := s.repo.InsertMany(ctx, userID, inventoryIDs); err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, userID)
}

// Remove deletes one entry.
func (s *Service) Remove(ctx context.Context, userID, listItemID int64) ([]model.ListView, error) {
	return s.one(ctx, userID, func() (bool, error) {
		return s.repo.Delete(ctx, userID, listItemID)
	})
}

// SetActive marks an entry active or inactive. An inactive entry is never
// crossed off.
func (s *Service) SetActive(ctx context.Context, userID, listItemID int64, active bool) ([]model.ListView, error) {
	return s.one(ctx, userID, func() (bool, error) {
		return s.repo.SetActive(ctx, userID, listItemID, active)
	})
}

func (s *Service) SetAllActive(ctx context.Context, userID int64, active bool) ([]model.ListView, error) {
	return s.all(ctx, userID, func() (int64, error) {
		return s.repo.SetAllActive(ctx, userID, active)
	})
}

func (s *Service) SetCrossedOff(ctx context.Context, userID, listItemID int64, crossedOff bool) ([]model.ListView, error) {
	return s.one(ctx, userID, func() (bool, error) {
		return s.repo.SetCrossedOff(ctx, userID, listItemID, crossedOff)
	})
}

func (s *Service) SetAllCrossedOff(ctx context.Context, userID int64, crossedOff bool) ([]model.ListView, error) {
	return s.all(ctx, userID, func() (int64, error) {
		return s.repo.SetAllCrossedOff(ctx, userID, crossedOff)
	})
}

// ClearCrossedOff moves every crossed-off entry to the inactive tail.
func (s *Service) ClearCrossedOff(ctx context.Context, userID int64) ([]model.ListView, error) {
	return s.all(ctx, userID, func() (int64, error) {
		return s.repo.ClearCrossedOff(ctx, userID)
	})
}

func (s *Service) SetSortOrder(ctx context.Context, userID, listItemID int64, sortOrder int) ([]model.ListView, error) {
	return s.one(ctx, userID, func() (bool, error) {
		return s.repo.SetSortOrder(ctx, userID, listItemID, sortOrder)
	})
}

// SetSortOrders reorders several entries at once.
func (s *Service) SetSortOrders(ctx context.Context, userID int64, updates []model.SortUpdate) ([]model.ListView, error) {
	if len(updates) == 0 {
		return nil, ErrMissingItems
	}
	return s.all(ctx, userID, func() (int64, error) {
		return s.repo.SetSortOrders(ctx, userID, updates)
	})
}

func (s *Service) one(ctx context.Context, userID int64, mutate func() (bool, error)) ([]model.ListView, error) {
	found, err := mutate()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrListItemNotFound
	}
	return s.Get(ctx, userID)
}

func (s *Service) all(ctx context.Context, userID int64, mutate func() (int64, error)) ([]model.ListView, error) {
	if _, err := mutate(); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return ErrDuplicate
	case errors.Is(err, store.ErrMissingReference):
		return ErrInventoryNotFound
	default:
		return err
	}
}
