package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/shopfaster/internal/database"
	"github.com/dukerupert/shopfaster/internal/model"
)

type listFixture struct {
	list    *ListItemStore
	userID  int64
	otherID int64
	storeID int64
	inv     []int64
}

func setupListTestDB(t *testing.T) *listFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	stores := NewStoreStore(db)
	tiles := NewTileStore(db)
	items := NewItemStore(db)
	inventory := NewInventoryStore(db)
	users := NewUserStore(db)

	shop, err := stores.Create(ctx, "Fresh Mart", "")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	tile, err := tiles.Create(ctx, shop.ID, 0, 0, false)
	if err != nil {
		t.Fatalf("create tile: %v", err)
	}

	f := &listFixture{list: NewListItemStore(db), storeID: shop.ID}
	for _, name := range []string{"Milk", "Bread", "Eggs"} {
		item, err := items.Create(ctx, name, nil)
		if err != nil {
			t.Fatalf("create item: %v", err)
		}
		ii, err := inventory.Create(ctx, shop.ID, tile.ID, item.ID)
		if err != nil {
			t.Fatalf("create inventory: %v", err)
		}
		f.inv = append(f.inv, ii.ID)
	}

	u, err := users.Create(ctx, "doug", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	other, err := users.Create(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	f.userID, f.otherID = u.ID, other.ID
	return f
}

func TestListItemInsertDefaults(t *testing.T) {
	f := setupListTestDB(t)

	li, err := f.list.Insert(context.Background(), f.userID, f.inv[0])
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !li.Active || li.CrossedOff || li.SortOrder != 0 {
		t.Errorf("defaults = active %v crossed %v order %d", li.Active, li.CrossedOff, li.SortOrder)
	}
	if li.UserID != f.userID || li.InventoryID != f.inv[0] {
		t.Errorf("li = %+v", li)
	}
}

func TestListItemInsertDuplicate(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	if _, err := f.list.Insert(ctx, f.userID, f.inv[0]); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := f.list.Insert(ctx, f.userID, f.inv[0])
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	n, err := f.list.CountByUser(ctx, f.userID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestListItemInsertUnknownInventory(t *testing.T) {
	f := setupListTestDB(t)

	_, err := f.list.Insert(context.Background(), f.userID, 9999)
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("err = %v, want ErrMissingReference", err)
	}
}

func TestListItemInsertMany(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	if _, err := f.list.Insert(ctx, f.userID, f.inv[0]); err != nil {
		t.Fatalf("insert: %v", err)
	}
	n, err := f.list.InsertMany(ctx, f.userID, f.inv)
	if err != nil {
		t.Fatalf("insert many: %v", err)
	}
	if n != 2 {
		t.Errorf("added = %d, want 2", n)
	}

	// An unknown id rolls back the whole batch.
	_, err = f.list.InsertMany(ctx, f.otherID, []int64{f.inv[0], 9999})
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("err = %v, want ErrMissingReference", err)
	}
	count, _ := f.list.CountByUser(ctx, f.otherID)
	if count != 0 {
		t.Errorf("other user count = %d, want 0", count)
	}
}

func TestListItemStatusRules(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	li, _ := f.list.Insert(ctx, f.userID, f.inv[0])

	if ok, err := f.list.SetCrossedOff(ctx, f.userID, li.ID, true); err != nil || !ok {
		t.Fatalf("cross off: ok=%v err=%v", ok, err)
	}
	if ok, err := f.list.SetActive(ctx, f.userID, li.ID, false); err != nil || !ok {
		t.Fatalf("deactivate: ok=%v err=%v", ok, err)
	}
	got, _ := f.list.GetByID(ctx, f.userID, li.ID)
	if got.Active || got.CrossedOff {
		t.Errorf("after deactivate: active %v crossed %v, want false/false", got.Active, got.CrossedOff)
	}

	if _, err := f.list.SetCrossedOff(ctx, f.userID, li.ID, true); err != nil {
		t.Fatalf("cross off inactive: %v", err)
	}
	got, _ = f.list.GetByID(ctx, f.userID, li.ID)
	if got.CrossedOff {
		t.Error("inactive entry must not become crossed off")
	}
}

func TestListItemScopedToUser(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	li, _ := f.list.Insert(ctx, f.otherID, f.inv[0])

	if ok, err := f.list.SetActive(ctx, f.userID, li.ID, false); err != nil || ok {
		t.Errorf("set active on foreign entry: ok=%v err=%v", ok, err)
	}
	if ok, err := f.list.SetSortOrder(ctx, f.userID, li.ID, 5); err != nil || ok {
		t.Errorf("set order on foreign entry: ok=%v err=%v", ok, err)
	}
	if ok, err := f.list.Delete(ctx, f.userID, li.ID); err != nil || ok {
		t.Errorf("delete foreign entry: ok=%v err=%v", ok, err)
	}
	if got, _ := f.list.GetByID(ctx, f.userID, li.ID); got != nil {
		t.Errorf("foreign entry visible: %+v", got)
	}

	if _, err := f.list.SetAllCrossedOff(ctx, f.userID, true); err != nil {
		t.Fatalf("set all crossed off: %v", err)
	}
	got, _ := f.list.GetByID(ctx, f.otherID, li.ID)
	if got.CrossedOff {
		t.Error("bulk update leaked into another user's list")
	}
}

func TestListItemClearCrossedOff(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	if _, err := f.list.InsertMany(ctx, f.userID, f.inv); err != nil {
		t.Fatalf("insert many: %v", err)
	}
	views, _ := f.list.ListViews(ctx, f.userID, f.storeID)
	f.list.SetCrossedOff(ctx, f.userID, views[0].ListItemID, true)
	f.list.SetCrossedOff(ctx, f.userID, views[2].ListItemID, true)

	n, err := f.list.ClearCrossedOff(ctx, f.userID)
	if err != nil {
		t.Fatalf("clear crossed off: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared = %d, want 2", n)
	}

	views, _ = f.list.ListViews(ctx, f.userID, f.storeID)
	for i, v := range views {
		wantActive := i == 1
		if v.Active != wantActive || v.CrossedOff {
			t.Errorf("views[%d]: active %v crossed %v", i, v.Active, v.CrossedOff)
		}
	}
}

func TestListItemSetSortOrders(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	f.list.InsertMany(ctx, f.userID, f.inv)
	views, _ := f.list.ListViews(ctx, f.userID, f.storeID)

	updates := []model.SortUpdate{
		{ListItemID: views[0].ListItemID, SortOrder: 3},
		{ListItemID: views[1].ListItemID, SortOrder: 1},
		{ListItemID: 9999, SortOrder: 2},
	}
	n, err := f.list.SetSortOrders(ctx, f.userID, updates)
	if err != nil {
		t.Fatalf("set sort orders: %v", err)
	}
	if n != 2 {
		t.Errorf("updated = %d, want 2", n)
	}

	views, _ = f.list.ListViews(ctx, f.userID, f.storeID)
	if views[0].SortOrder != 3 || views[1].SortOrder != 1 || views[2].SortOrder != 0 {
		t.Errorf("orders = %d %d %d", views[0].SortOrder, views[1].SortOrder, views[2].SortOrder)
	}
}

func TestListViewsJoinsItemAndTile(t *testing.T) {
	f := setupListTestDB(t)
	ctx := context.Background()

	f.list.Insert(ctx, f.userID, f.inv[1])
	views, err := f.list.ListViews(ctx, f.userID, f.storeID)
	if err != nil {
		t.Fatalf("list views: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len = %d, want 1", len(views))
	}
	v := views[0]
	if v.Name != "Bread" || v.InventoryID != f.inv[1] || v.StoreID != f.storeID {
		t.Errorf("view = %+v", v)
	}

	empty, err := f.list.ListViews(ctx, f.userID, f.storeID+100)
	if err != nil {
		t.Fatalf("list views other store: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len = %d, want 0", len(empty))
	}
}
