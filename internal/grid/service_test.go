package grid

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopfaster/internal/model"
)

type fakeStores struct {
	stores []model.Store
	err    error
}

func (f *fakeStores) GetByID(_ context.Context, id int64) (*model.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.stores {
		if f.stores[i].ID == id {
			return &f.stores[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStores) List(_ context.Context) ([]model.Store, error) {
	return f.stores, f.err
}

type fakeTiles struct {
	tiles []model.Tile
}

func (f *fakeTiles) GetByID(_ context.Context, id int64) (*model.Tile, error) {
	for i := range f.tiles {
		if f.tiles[i].ID == id {
			return &f.tiles[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTiles) ListByStore(_ context.Context, storeID int64) ([]model.Tile, error) {
	var out []model.Tile
	for _, t := range f.tiles {
		if t.StoreID == storeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func ptr(v int64) *int64 { return &v }

func TestBuildStoreNotFound(t *testing.T) {
	svc := NewService(&fakeStores{}, &fakeTiles{})

	view, err := svc.BuildStore(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStoreNotFound)
	assert.Nil(t, view)
}

func TestBuildStoreLookupError(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewService(&fakeStores{err: boom}, &fakeTiles{})

	_, err := svc.BuildStore(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrStoreNotFound)
}

func TestBuildStoreWithLandmarks(t *testing.T) {
	tiles := rect(3, 3)
	stores := &fakeStores{stores: []model.Store{{
		ID:             1,
		Name:           "Fresh Mart",
		MapURL:         "grocery-store-layout.png",
		EntranceTileID: ptr(9), // (2,2)
		CheckoutTileID: ptr(5), // (1,1)
	}}}
	svc := NewService(stores, &fakeTiles{tiles: tiles})

	view, err := svc.BuildStore(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Fresh Mart", view.Name)
	assert.Equal(t, 3, view.NumCols)
	assert.Equal(t, 3, view.NumRows)

	require.NotNil(t, view.EntranceTile)
	assert.Equal(t, 2, view.EntranceTile.Column)
	assert.Equal(t, 2, view.EntranceTile.Row)
	assert.Equal(t, 3, countPresent(view.EntranceTile.Neighbors))
	assert.Equal(t, view.Grid.At(2, 2).Neighbors, view.EntranceTile.Neighbors)

	require.NotNil(t, view.CheckoutTile)
	assert.Equal(t, 8, countPresent(view.CheckoutTile.Neighbors))
}

func TestBuildStoreWithoutTiles(t *testing.T) {
	stores := &fakeStores{stores: []model.Store{{ID: 3, Name: "Empty", EntranceTileID: ptr(100)}}}
	svc := NewService(stores, &fakeTiles{})

	view, err := svc.BuildStore(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, view.EntranceTile)
	assert.Nil(t, view.CheckoutTile)

	b, err := json.Marshal(view)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Contains(t, got, "entranceTile")
	assert.Nil(t, got["entranceTile"])
	assert.Nil(t, got["checkoutTile"])
	assert.Equal(t, []any{}, got["grid"])
}

func TestListStores(t *testing.T) {
	tiles := append(rect(2, 2), model.Tile{ID: 50, StoreID: 2, Column: 0, Row: 0})
	stores := &fakeStores{stores: []model.Store{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	svc := NewService(stores, &fakeTiles{tiles: tiles})

	views, err := svc.ListStores(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 2, views[0].NumCols)
	assert.Equal(t, 1, views[1].NumCols)
}
