package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/shopfaster/internal/auth"
	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/store"
)

type InventoryHandler struct {
	inventoryStore *store.InventoryStore
	userStore      *store.UserStore
	logger         *slog.Logger
}

func NewInventoryHandler(is *store.InventoryStore, us *store.UserStore, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryStore: is, userStore: us, logger: logger}
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.inventoryStore.GetDetail(r.Context(), id)
	if err != nil {
		h.logger.Error("get inventory item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load inventory item")
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "inventory item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": detail})
}

func (h *InventoryHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseIDParam(r, "store_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.inventoryStore.ListByStore(r.Context(), storeID)
	if err != nil {
		h.logger.Error("list inventory", "store_id", storeID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"inventory": items})
}

// Search matches space-separated terms against item names and tags in the
// user's current store.
func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	terms := strings.Fields(r.PathValue("terms"))

	u, err := h.userStore.GetByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("search user", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}
	if u.CurrentStoreID == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []model.SearchResult{}, "error": "No Current Store Selected."})
		return
	}

	results, err := h.inventoryStore.Search(r.Context(), *u.CurrentStoreID, terms)
	if err != nil {
		h.logger.Error("search inventory", "store_id", *u.CurrentStoreID, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []model.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": results})
}
