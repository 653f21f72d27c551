package model

import "time"

type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tags      []Tag     `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tag is an alternate searchable name for an Item.
type Tag struct {
	ID     int64  `json:"id"`
	ItemID int64  `json:"itemID"`
	Name   string `json:"name"`
}

// InventoryItem places an Item on a Tile within a Store.
type InventoryItem struct {
	ID      int64 `json:"id"`
	StoreID int64 `json:"storeID"`
	TileID  int64 `json:"tileID"`
	ItemID  int64 `json:"itemID"`
}

// InventoryDetail is an inventory item joined with its item name and tile.
type InventoryDetail struct {
	InventoryID int64  `json:"inventoryID"`
	Name        string `json:"name"`
	Tile        Tile   `json:"tile"`
}

// SearchResult is one inventory match for a search query.
type SearchResult struct {
	InventoryID int64  `json:"inventoryID"`
	Name        string `json:"name"`
}
