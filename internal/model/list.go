package model

import "time"

// ListItem is a user's shopping list entry for one inventory item.
type ListItem struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userID"`
	InventoryID int64     `json:"inventoryID"`
	Active      bool      `json:"active"`
	CrossedOff  bool      `json:"crossedOff"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListView is a list entry flattened with its item and tile data, the
// shape the front-end renders.
type ListView struct {
	ListItemID  int64  `json:"listItemID"`
	SortOrder   int    `json:"sortOrder"`
	Active      bool   `json:"active"`
	CrossedOff  bool   `json:"crossedOff"`
	InventoryID int64  `json:"inventoryID"`
	ItemID      int64  `json:"itemID"`
	Name        string `json:"name"`
	TileID      int64  `json:"tileID"`
	Column      int    `json:"col"`
	Row         int    `json:"row"`
	StoreID     int64  `json:"storeID"`
}

// SortUpdate assigns a new sort order to one list entry.
type SortUpdate struct {
	ListItemID int64 `json:"listItemID"`
	SortOrder  int   `json:"sortOrder"`
}
