package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

type TileHandler struct {
	tileStore  *store.TileStore
	storeStore *store.StoreStore
	logger     *slog.Logger
}

func NewTileHandler(ts *store.TileStore, ss *store.StoreStore, logger *slog.Logger) *TileHandler {
	return &TileHandler{tileStore: ts, storeStore: ss, logger: logger}
}

type tileRequest struct {
	StoreID  int64 `json:"storeID"`
	Column   *int  `json:"col"`
	Row      *int  `json:"row"`
	Obstacle bool  `json:"obstacle"`
}

func (t tileRequest) validate() error {
	switch {
	case t.StoreID == 0:
		return errors.New("Missing .storeID property!")
	case t.Column == nil:
		return errors.New("Missing .col property!")
	case t.Row == nil:
		return errors.New("Missing .row property!")
	case *t.Column < 0 || *t.Row < 0:
		return fmt.Errorf("tile (%d,%d): col and row must not be negative", *t.Column, *t.Row)
	}
	return nil
}

func (t tileRequest) tile() model.Tile {
	return model.Tile{StoreID: t.StoreID, Column: *t.Column, Row: *t.Row, Obstacle: t.Obstacle}
}

type tilesRequest struct {
	Tiles []tileRequest `json:"tiles"`
}

type obstaclesRequest struct {
	StoreID int64         `json:"storeID"`
	Tiles   []tileRequest `json:"tiles"`
}

func (h *TileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.storeExists(w, r, req.StoreID) {
		return
	}

	tile, err := h.tileStore.Create(r.Context(), req.StoreID, *req.Column, *req.Row, req.Obstacle)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "Tile description already in DB!")
		return
	}
	if err != nil {
		h.logger.Error("create tile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create tile")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"tile": tile})
}

// CreateMany inserts tiles in one transaction. Coordinates that already
// exist are skipped.
func (h *TileHandler) CreateMany(w http.ResponseWriter, r *http.Request) {
	var req tilesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Tiles) == 0 {
		writeError(w, http.StatusBadRequest, "Missing tiles array!")
		return
	}

	tiles := make([]model.Tile, 0, len(req.Tiles))
	seen := make(map[int64]bool)
	for _, t := range req.Tiles {
		if err := t.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if !seen[t.StoreID] {
			if !h.storeExists(w, r, t.StoreID) {
				return
			}
			seen[t.StoreID] = true
		}
		tiles = append(tiles, t.tile())
	}

	n, err := h.tileStore.CreateBatch(r.Context(), tiles)
	if err != nil {
		h.logger.Error("create tiles", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create tiles")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"inserted": n})
}

func (h *TileHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseIDParam(r, "store_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tiles, err := h.tileStore.ListByStore(r.Context(), storeID)
	if err != nil {
		h.logger.Error("list tiles", "store_id", storeID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tiles")
		return
	}
	if tiles == nil {
		tiles = []model.Tile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiles": tiles})
}

func (h *TileHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseIDParam(r, "store_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	col, err := parseIntParam(r, "col")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	row, err := parseIntParam(r, "row")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tile, err := h.tileStore.GetByCoordinate(r.Context(), storeID, col, row)
	if err != nil {
		h.logger.Error("get tile", "store_id", storeID, "col", col, "row", row, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load tile")
		return
	}
	if tile == nil {
		writeError(w, http.StatusNotFound, "tile not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tile": tile})
}

// SetObstacles updates obstacle flags by coordinate within one store.
func (h *TileHandler) SetObstacles(w http.ResponseWriter, r *http.Request) {
	var req obstaclesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StoreID == 0 {
		writeError(w, http.StatusBadRequest, "Missing .storeID property!")
		return
	}

	tiles := make([]model.Tile, 0, len(req.Tiles))
	for _, t := range req.Tiles {
		if t.Column == nil || t.Row == nil {
			writeError(w, http.StatusBadRequest, "every tile needs col and row")
			return
		}
		tiles = append(tiles, model.Tile{Column: *t.Column, Row: *t.Row, Obstacle: t.Obstacle})
	}

	n, err := h.tileStore.SetObstacles(r.Context(), req.StoreID, tiles)
	if err != nil {
		h.logger.Error("set obstacles", "store_id", req.StoreID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update tiles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": "Tiles updated", "updated": n})
}

func (h *TileHandler) storeExists(w http.ResponseWriter, r *http.Request, storeID int64) bool {
	st, err := h.storeStore.GetByID(r.Context(), storeID)
	if err != nil {
		h.logger.Error("lookup store", "store_id", storeID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load store")
		return false
	}
	if st == nil {
		writeError(w, http.StatusNotFound, "No store by that ID")
		return false
	}
	return true
}
