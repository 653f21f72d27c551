package model

import "time"

type Store struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	MapURL         string    `json:"mapURL"`
	EntranceTileID *int64    `json:"entranceTileID"`
	CheckoutTileID *int64    `json:"checkoutTileID"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Tile is one cell of a store's floor plan.
type Tile struct {
	ID       int64 `json:"id"`
	StoreID  int64 `json:"storeID"`
	Column   int   `json:"col"`
	Row      int   `json:"row"`
	Obstacle bool  `json:"obstacle"`
}

// TileRef points at a tile by coordinate instead of embedding it.
type TileRef struct {
	Column int `json:"col"`
	Row    int `json:"row"`
}
