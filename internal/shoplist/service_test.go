package shoplist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shopfaster/internal/database"
	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

type fixture struct {
	svc      *Service
	users    *store.UserStore
	list     *store.ListItemStore
	userID   int64
	storeID  int64
	otherID  int64
	milk     int64
	bread    int64
	eggs     int64
	farMilk  int64
	farStore int64
}

func setupList(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stores := store.NewStoreStore(db)
	tiles := store.NewTileStore(db)
	items := store.NewItemStore(db)
	inventory := store.NewInventoryStore(db)
	users := store.NewUserStore(db)
	list := store.NewListItemStore(db)

	near, err := stores.Create(ctx, "Fresh Mart", "grocery-store-layout.png")
	require.NoError(t, err)
	far, err := stores.Create(ctx, "James St Wegmans", "")
	require.NoError(t, err)

	dairy, err := tiles.Create(ctx, near.ID, 1, 2, false)
	require.NoError(t, err)
	bakery, err := tiles.Create(ctx, near.ID, 3, 0, false)
	require.NoError(t, err)
	farTile, err := tiles.Create(ctx, far.ID, 0, 0, false)
	require.NoError(t, err)

	stock := func(storeID, tileID int64, name string) (int64, int64) {
		item, err := items.GetByName(ctx, name)
		require.NoError(t, err)
		if item == nil {
			item, err = items.Create(ctx, name, nil)
			require.NoError(t, err)
		}
		ii, err := inventory.Create(ctx, storeID, tileID, item.ID)
		require.NoError(t, err)
		return ii.ID, item.ID
	}

	f := &fixture{
		svc:      NewService(users, list),
		users:    users,
		list:     list,
		storeID:  near.ID,
		farStore: far.ID,
	}
	f.milk, _ = stock(near.ID, dairy.ID, "Milk")
	f.bread, _ = stock(near.ID, bakery.ID, "Bread")
	f.eggs, _ = stock(near.ID, dairy.ID, "Eggs")
	f.farMilk, _ = stock(far.ID, farTile.ID, "Milk")

	u, err := users.Create(ctx, "doug", "hash")
	require.NoError(t, err)
	_, err = users.SetCurrentStore(ctx, u.ID, near.ID)
	require.NoError(t, err)
	f.userID = u.ID

	other, err := users.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	_, err = users.SetCurrentStore(ctx, other.ID, near.ID)
	require.NoError(t, err)
	f.otherID = other.ID

	return f
}

func byInventory(t *testing.T, views []model.ListView, inventoryID int64) model.ListView {
	t.Helper()
	for _, v := range views {
		if v.InventoryID == inventoryID {
			return v
		}
	}
	t.Fatalf("inventory %d not in list", inventoryID)
	return model.ListView{}
}

func TestGetUnknownUser(t *testing.T) {
	f := setupList(t)

	_, err := f.svc.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetWithoutCurrentStore(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "newbie", "hash")
	require.NoError(t, err)

	views, err := f.svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNoCurrentStore)
	assert.Empty(t, views)
}

func TestGetEmptyList(t *testing.T) {
	f := setupList(t)

	views, err := f.svc.Get(context.Background(), f.userID)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestAddFlattensEntry(t *testing.T) {
	f := setupList(t)

	views, err := f.svc.Add(context.Background(), f.userID, f.milk)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, f.milk, v.InventoryID)
	assert.Equal(t, "Milk", v.Name)
	assert.Equal(t, 1, v.Column)
	assert.Equal(t, 2, v.Row)
	assert.Equal(t, f.storeID, v.StoreID)
	assert.True(t, v.Active)
	assert.False(t, v.CrossedOff)
	assert.Zero(t, v.SortOrder)
	assert.NotZero(t, v.ListItemID)
	assert.NotZero(t, v.TileID)
	assert.NotZero(t, v.ItemID)
}

func TestAddDuplicate(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.userID, f.eggs)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, f.userID, f.eggs)
	assert.ErrorIs(t, err, ErrDuplicate)

	count, err := f.list.CountByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The same inventory item on someone else's list is fine.
	_, err = f.svc.Add(ctx, f.otherID, f.eggs)
	assert.NoError(t, err)
}

func TestAddValidation(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.userID, 0)
	assert.ErrorIs(t, err, ErrMissingInventoryID)

	_, err = f.svc.Add(ctx, f.userID, 424242)
	assert.ErrorIs(t, err, ErrInventoryNotFound)

	_, err = f.svc.AddMany(ctx, f.userID, nil)
	assert.ErrorIs(t, err, ErrMissingInventoryID)

	count, err := f.list.CountByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddManySkipsDuplicates(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.userID, f.milk)
	require.NoError(t, err)

	views, err := f.svc.AddMany(ctx, f.userID, []int64{f.milk, f.bread, f.eggs})
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestListFiltersByCurrentStore(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	_, err := f.svc.AddMany(ctx, f.userID, []int64{f.milk, f.farMilk})
	require.NoError(t, err)

	views, err := f.svc.Get(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.milk, views[0].InventoryID)

	_, err = f.users.SetCurrentStore(ctx, f.userID, f.farStore)
	require.NoError(t, err)

	views, err = f.svc.Get(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.farMilk, views[0].InventoryID)

	// Switching stores hides entries, it does not delete them.
	count, err := f.list.CountByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSetActiveFalseClearsCrossedOff(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	views, err := f.svc.Add(ctx, f.userID, f.bread)
	require.NoError(t, err)
	id := views[0].ListItemID

	views, err = f.svc.SetCrossedOff(ctx, f.userID, id, true)
	require.NoError(t, err)
	require.True(t, views[0].CrossedOff)

	views, err = f.svc.SetActive(ctx, f.userID, id, false)
	require.NoError(t, err)
	assert.False(t, views[0].Active)
	assert.False(t, views[0].CrossedOff)

	// Crossing off an inactive entry leaves it uncrossed.
	views, err = f.svc.SetCrossedOff(ctx, f.userID, id, true)
	require.NoError(t, err)
	assert.False(t, views[0].CrossedOff)

	// Reactivating does not resurrect the old crossed-off state.
	views, err = f.svc.SetActive(ctx, f.userID, id, true)
	require.NoError(t, err)
	assert.True(t, views[0].Active)
	assert.False(t, views[0].CrossedOff)
}

func TestClearCrossedOff(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	views, err := f.svc.AddMany(ctx, f.userID, []int64{f.milk, f.bread, f.eggs})
	require.NoError(t, err)
	milk := byInventory(t, views, f.milk).ListItemID
	eggs := byInventory(t, views, f.eggs).ListItemID

	_, err = f.svc.SetCrossedOff(ctx, f.userID, milk, true)
	require.NoError(t, err)
	_, err = f.svc.SetCrossedOff(ctx, f.userID, eggs, true)
	require.NoError(t, err)

	views, err = f.svc.ClearCrossedOff(ctx, f.userID)
	require.NoError(t, err)

	for _, inv := range []int64{f.milk, f.eggs} {
		v := byInventory(t, views, inv)
		assert.False(t, v.Active, "inventory %d", inv)
		assert.False(t, v.CrossedOff, "inventory %d", inv)
	}
	bread := byInventory(t, views, f.bread)
	assert.True(t, bread.Active)
	assert.False(t, bread.CrossedOff)
	assert.Equal(t, f.bread, views[0].InventoryID)
}

func TestMutationsReturnSortedList(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	views, err := f.svc.AddMany(ctx, f.userID, []int64{f.milk, f.bread, f.eggs})
	require.NoError(t, err)
	milk := byInventory(t, views, f.milk).ListItemID
	bread := byInventory(t, views, f.bread).ListItemID
	eggs := byInventory(t, views, f.eggs).ListItemID

	views, err = f.svc.SetSortOrders(ctx, f.userID, []model.SortUpdate{
		{ListItemID: milk, SortOrder: 3},
		{ListItemID: bread, SortOrder: 1},
		{ListItemID: eggs, SortOrder: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{bread, eggs, milk}, ids(views))

	views, err = f.svc.SetCrossedOff(ctx, f.userID, bread, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{eggs, milk, bread}, ids(views))

	views, err = f.svc.SetActive(ctx, f.userID, eggs, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{milk, bread, eggs}, ids(views))

	views, err = f.svc.SetSortOrder(ctx, f.userID, milk, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, views[0].SortOrder)
}

func TestBulkFlags(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	_, err := f.svc.AddMany(ctx, f.userID, []int64{f.milk, f.bread})
	require.NoError(t, err)
	_, err = f.svc.AddMany(ctx, f.otherID, []int64{f.milk})
	require.NoError(t, err)

	views, err := f.svc.SetAllCrossedOff(ctx, f.userID, true)
	require.NoError(t, err)
	for _, v := range views {
		assert.True(t, v.CrossedOff)
	}

	views, err = f.svc.SetAllActive(ctx, f.userID, false)
	require.NoError(t, err)
	for _, v := range views {
		assert.False(t, v.Active)
		assert.False(t, v.CrossedOff)
	}

	// Another user's list is untouched by bulk updates.
	others, err := f.svc.Get(ctx, f.otherID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.True(t, others[0].Active)
	assert.False(t, others[0].CrossedOff)
}

func TestMutationsAreScopedToUser(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	views, err := f.svc.Add(ctx, f.otherID, f.milk)
	require.NoError(t, err)
	theirs := views[0].ListItemID

	_, err = f.svc.SetActive(ctx, f.userID, theirs, false)
	assert.ErrorIs(t, err, ErrListItemNotFound)
	_, err = f.svc.Remove(ctx, f.userID, theirs)
	assert.ErrorIs(t, err, ErrListItemNotFound)

	views, err = f.svc.Get(ctx, f.otherID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Active)
}

func TestRemove(t *testing.T) {
	f := setupList(t)
	ctx := context.Background()

	views, err := f.svc.AddMany(ctx, f.userID, []int64{f.milk, f.bread})
	require.NoError(t, err)

	views, err = f.svc.Remove(ctx, f.userID, byInventory(t, views, f.milk).ListItemID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.bread, views[0].InventoryID)

	_, err = f.svc.Remove(ctx, f.userID, 9999)
	assert.ErrorIs(t, err, ErrListItemNotFound)
}

func TestSetSortOrdersRequiresItems(t *testing.T) {
	f := setupList(t)

	_, err := f.svc.SetSortOrders(context.Background(), f.userID, nil)
	assert.ErrorIs(t, err, ErrMissingItems)
}
