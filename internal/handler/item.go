package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shopfaster/internal/catalog"
	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

type ItemHandler struct {
	itemStore *store.ItemStore
	catalog   *catalog.Service
	logger    *slog.Logger
}

func NewItemHandler(is *store.ItemStore, c *catalog.Service, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{itemStore: is, catalog: c, logger: logger}
}

type itemRequest struct {
	Name    string   `json:"name"`
	Column  *int     `json:"col"`
	Row     *int     `json:"row"`
	StoreID int64    `json:"storeID"`
	Tags    []string `json:"tags"`
}

type location struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type seedItem struct {
	Name string   `json:"name"`
	Loc  location `json:"loc"`
	Tags []string `json:"tags"`
}

type seedItemsRequest struct {
	StoreID int64      `json:"storeID"`
	Items   []seedItem `json:"items"`
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.itemStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if item.Tags == nil {
		item.Tags = []model.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemStore.List(r.Context())
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create adds an item and stocks it at (col, row). An item whose name is
// already known answers with the existing id.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch {
	case req.Name == "":
		writeError(w, http.StatusBadRequest, "Missing Item Name!")
		return
	case req.Column == nil:
		writeError(w, http.StatusBadRequest, "Missing Item Col!")
		return
	case req.Row == nil:
		writeError(w, http.StatusBadRequest, "Missing Item Row!")
		return
	case req.StoreID == 0:
		writeError(w, http.StatusBadRequest, "Missing Store ID!")
		return
	}

	id, created, err := h.catalog.AddItem(r.Context(), req.StoreID, catalog.Placement{
		Name:   req.Name,
		Column: *req.Column,
		Row:    *req.Row,
		Tags:   req.Tags,
	})
	if err != nil {
		h.catalogError(w, "add item", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]int64{"itemID": id})
}

// CreateMany stocks a store from the bulk seeding format, where each item
// carries its tile as loc {x, y}.
func (h *ItemHandler) CreateMany(w http.ResponseWriter, r *http.Request) {
	var req seedItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StoreID == 0 {
		writeError(w, http.StatusBadRequest, "Missing Store ID!")
		return
	}
	if req.Items == nil {
		writeError(w, http.StatusBadRequest, "Missing items array!")
		return
	}

	placements := make([]catalog.Placement, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Loc.X == nil || it.Loc.Y == nil {
			writeError(w, http.StatusBadRequest, "item "+it.Name+" is missing loc")
			return
		}
		placements = append(placements, catalog.Placement{
			Name:   it.Name,
			Column: *it.Loc.X,
			Row:    *it.Loc.Y,
			Tags:   it.Tags,
		})
	}

	res, err := h.catalog.Stock(r.Context(), req.StoreID, placements)
	if err != nil {
		h.catalogError(w, "stock items", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ItemHandler) catalogError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrMissingName):
		writeError(w, http.StatusBadRequest, "Missing Item Name!")
	case errors.Is(err, catalog.ErrInvalidPlacing):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrTileNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save items")
	}
}
