package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/shopfaster/internal/catalog"
	"github.com/dukerupert/shopfaster/internal/model"
)

type StoreRepository interface {
	Create(ctx context.Context, name, mapURL string) (*model.Store, error)
	SetLandmarks(ctx context.Context, id int64, entranceTileID, checkoutTileID *int64) (*model.Store, error)
}

type TileRepository interface {
	CreateBatch(ctx context.Context, tiles []model.Tile) (int64, error)
	GetByCoordinate(ctx context.Context, storeID int64, column, row int) (*model.Tile, error)
	SetObstacles(ctx context.Context, storeID int64, tiles []model.Tile) (int64, error)
}

type Stocker interface {
	Stock(ctx context.Context, storeID int64, placements []catalog.Placement) (catalog.StockResult, error)
}

// Report summarizes one applied layout.
type Report struct {
	StoreID   int64
	Name      string
	Tiles     int64
	Obstacles int64
	Stock     catalog.StockResult
}

type Seeder struct {
	stores  StoreRepository
	tiles   TileRepository
	catalog Stocker
	logger  *slog.Logger
}

func New(stores StoreRepository, tiles TileRepository, c Stocker, logger *slog.Logger) *Seeder {
	return &Seeder{stores: stores, tiles: tiles, catalog: c, logger: logger}
}

// Apply creates every store in the file. Each call creates new stores;
// running the same file twice yields two copies of each store. Item names
// are shared, so existing items are reused.
func (s *Seeder) Apply(ctx context.Context, f *File) ([]Report, error) {
	reports := make([]Report, 0, len(f.Stores))
	for i := range f.Stores {
		r, err := s.ApplyLayout(ctx, &f.Stores[i])
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *Seeder) ApplyLayout(ctx context.Context, l *Layout) (Report, error) {
	if err := l.Validate(); err != nil {
		return Report{}, err
	}

	st, err := s.stores.Create(ctx, l.Name, l.MapURL)
	if err != nil {
		return Report{}, fmt.Errorf("create store %s: %w", l.Name, err)
	}
	r := Report{StoreID: st.ID, Name: st.Name}

	tiles := make([]model.Tile, 0, l.Cols*l.Rows)
	for c := 0; c < l.Cols; c++ {
		for row := 0; row < l.Rows; row++ {
			tiles = append(tiles, model.Tile{StoreID: st.ID, Column: c, Row: row})
		}
	}
	if r.Tiles, err = s.tiles.CreateBatch(ctx, tiles); err != nil {
		return r, fmt.Errorf("create tiles for %s: %w", l.Name, err)
	}

	if len(l.Obstacles) > 0 {
		obstacles := make([]model.Tile, len(l.Obstacles))
		for i, c := range l.Obstacles {
			obstacles[i] = model.Tile{Column: c.Col, Row: c.Row, Obstacle: true}
		}
		if r.Obstacles, err = s.tiles.SetObstacles(ctx, st.ID, obstacles); err != nil {
			return r, fmt.Errorf("set obstacles for %s: %w", l.Name, err)
		}
	}

	entrance, err := s.landmark(ctx, st.ID, l.Entrance)
	if err != nil {
		return r, err
	}
	checkout, err := s.landmark(ctx, st.ID, l.Checkout)
	if err != nil {
		return r, err
	}
	if entrance != nil || checkout != nil {
		if _, err := s.stores.SetLandmarks(ctx, st.ID, entrance, checkout); err != nil {
			return r, fmt.Errorf("set landmarks for %s: %w", l.Name, err)
		}
	}

	placements := make([]catalog.Placement, len(l.Items))
	for i, it := range l.Items {
		placements[i] = catalog.Placement{Name: it.Name, Column: *it.Loc.X, Row: *it.Loc.Y, Tags: it.Tags}
	}
	if r.Stock, err = s.catalog.Stock(ctx, st.ID, placements); err != nil {
		return r, fmt.Errorf("stock %s: %w", l.Name, err)
	}

	s.logger.Info("seeded store",
		"store_id", r.StoreID,
		"name", r.Name,
		"tiles", r.Tiles,
		"obstacles", r.Obstacles,
		"items_created", r.Stock.ItemsCreated,
		"inventory_created", r.Stock.InventoryCreated,
	)
	return r, nil
}

func (s *Seeder) landmark(ctx context.Context, storeID int64, c *Coord) (*int64, error) {
	if c == nil {
		return nil, nil
	}
	t, err := s.tiles.GetByCoordinate(ctx, storeID, c.Col, c.Row)
	if err != nil {
		return nil, fmt.Errorf("lookup landmark tile: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("no tile at (%d,%d)", c.Col, c.Row)
	}
	return &t.ID, nil
}
