package grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/shopfaster/internal/model"
)

var ErrStoreNotFound = errors.New("store not found")

type StoreFinder interface {
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
}

type TileFinder interface {
	GetByID(ctx context.Context, id int64) (*model.Tile, error)
	ListByStore(ctx context.Context, storeID int64) ([]model.Tile, error)
}

// StoreView is a store with its floor-plan grid, ready for the front-end.
// EntranceTile and CheckoutTile are nil when unset or missing.
type StoreView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MapURL       string `json:"mapURL"`
	EntranceTile *Tile  `json:"entranceTile"`
	CheckoutTile *Tile  `json:"checkoutTile"`
	NumCols      int    `json:"numCols"`
	NumRows      int    `json:"numRows"`
	Grid         *Grid  `json:"grid"`
}

type Service struct {
	stores StoreFinder
	tiles  TileFinder
}

func NewService(stores StoreFinder, tiles TileFinder) *Service {
	return &Service{stores: stores, tiles: tiles}
}

// BuildStore assembles the store's grid. The grid is rebuilt on every call.
func (s *Service) BuildStore(ctx context.Context, storeID int64) (*StoreView, error) {
	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStoreNotFound
	}
	return s.build(ctx, st)
}

// ListStores builds every store.
func (s *Service) ListStores(ctx context.Context) ([]StoreView, error) {
	stores, err := s.stores.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]StoreView, 0, len(stores))
	for i := range stores {
		v, err := s.build(ctx, &stores[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *Service) build(ctx context.Context, st *model.Store) (*StoreView, error) {
	tiles, err := s.tiles.ListByStore(ctx, st.ID)
	if err != nil {
		return nil, fmt.Errorf("tiles for store %d: %w", st.ID, err)
	}
	g := Build(tiles)

	entrance, err := s.landmark(ctx, st.EntranceTileID)
	if err != nil {
		return nil, fmt.Errorf("entrance tile: %w", err)
	}
	checkout, err := s.landmark(ctx, st.CheckoutTileID)
	if err != nil {
		return nil, fmt.Errorf("checkout tile: %w", err)
	}

	numCols, numRows := g.Dims()
	return &StoreView{
		ID:           st.ID,
		Name:         st.Name,
		MapURL:       st.MapURL,
		EntranceTile: g.Decorate(entrance),
		CheckoutTile: g.Decorate(checkout),
		NumCols:      numCols,
		NumRows:      numRows,
		Grid:         g,
	}, nil
}

func (s *Service) landmark(ctx context.Context, tileID *int64) (*model.Tile, error) {
	if tileID == nil {
		return nil, nil
	}
	return s.tiles.GetByID(ctx, *tileID)
}
