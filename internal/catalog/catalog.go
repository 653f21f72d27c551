// Package catalog places items on a store's floor plan. It backs both the
// item endpoints and the layout seeder.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/shopfaster/internal/category"
	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

var (
	ErrMissingName    = errors.New("missing item name")
	ErrTileNotFound   = errors.New("no tile at that location")
	ErrInvalidPlacing = errors.New("column and row must not be negative")
)

type ItemRepository interface {
	Create(ctx context.Context, name string, tags []string) (*model.Item, error)
	GetByName(ctx context.Context, name string) (*model.Item, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, storeID, tileID, itemID int64) (*model.InventoryItem, error)
	GetByStoreAndItem(ctx context.Context, storeID, itemID int64) (*model.InventoryItem, error)
}

type TileFinder interface {
	GetByCoordinate(ctx context.Context, storeID int64, column, row int) (*model.Tile, error)
}

// Placement is an item to stock at a tile coordinate.
type Placement struct {
	Name   string
	Column int
	Row    int
	Tags   []string
}

// StockResult counts what Stock did.
type StockResult struct {
	ItemsCreated     int `json:"itemsCreated"`
	InventoryCreated int `json:"inventoryCreated"`
	Skipped          int `json:"skipped"`
}

type Service struct {
	items     ItemRepository
	inventory InventoryRepository
	tiles     TileFinder
}

func NewService(items ItemRepository, inventory InventoryRepository, tiles TileFinder) *Service {
	return &Service{items: items, inventory: inventory, tiles: tiles}
}

// AddItem creates an item, its tags and its place in the store. New items
// are also tagged with their guessed category. If an item with the same
// name exists its id is returned and nothing changes.
func (s *Service) AddItem(ctx context.Context, storeID int64, p Placement) (itemID int64, created bool, err error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return 0, false, ErrMissingName
	}

	existing, err := s.items.GetByName(ctx, p.Name)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	tile, err := s.tileAt(ctx, storeID, p)
	if err != nil {
		return 0, false, err
	}
	item, err := s.items.Create(ctx, p.Name, category.Tags(p.Name, p.Tags))
	if err != nil {
		return 0, false, err
	}
	if _, err := s.inventory.Create(ctx, storeID, tile.ID, item.ID); err != nil {
		return 0, false, err
	}
	return item.ID, true, nil
}

// Stock places many items. Known items are reused and only get an
// inventory entry if the store does not carry them yet. It stops at the
// first placement that cannot be resolved.
func (s *Service) Stock(ctx context.Context, storeID int64, placements []Placement) (StockResult, error) {
	var res StockResult
	for _, p := range placements {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return res, ErrMissingName
		}

		item, err := s.items.GetByName(ctx, p.Name)
		if err != nil {
			return res, err
		}
		if item != nil {
			stocked, err := s.inventory.GetByStoreAndItem(ctx, storeID, item.ID)
			if err != nil {
				return res, err
			}
			if stocked != nil {
				res.Skipped++
				continue
			}
		}

		tile, err := s.tileAt(ctx, storeID, p)
		if err != nil {
			return res, fmt.Errorf("%s: %w", p.Name, err)
		}
		if item == nil {
			item, err = s.items.Create(ctx, p.Name, category.Tags(p.Name, p.Tags))
			if err != nil {
				return res, err
			}
			res.ItemsCreated++
		}
		_, err = s.inventory.Create(ctx, storeID, tile.ID, item.ID)
		if errors.Is(err, store.ErrDuplicate) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, err
		}
		res.InventoryCreated++
	}
	return res, nil
}

func (s *Service) tileAt(ctx context.Context, storeID int64, p Placement) (*model.Tile, error) {
	if p.Column < 0 || p.Row < 0 {
		return nil, ErrInvalidPlacing
	}
	tile, err := s.tiles.GetByCoordinate(ctx, storeID, p.Column, p.Row)
	if err != nil {
		return nil, err
	}
	if tile == nil {
		return nil, ErrTileNotFound
	}
	return tile, nil
}
