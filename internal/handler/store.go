package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shopfaster/internal/auth"
	"github.com/dukerupert/shopfaster/internal/grid"
	"github.com/dukerupert/shopfaster/internal/store"
)

// StoreHandler serves store layouts and the user's current store.
type StoreHandler struct {
	grid      *grid.Service
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewStoreHandler(g *grid.Service, us *store.UserStore, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{grid: g, userStore: us, logger: logger}
}

func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.grid.BuildStore(r.Context(), id)
	if errors.Is(err, grid.ErrStoreNotFound) {
		writeError(w, http.StatusNotFound, "No store by that ID")
		return
	}
	if err != nil {
		h.logger.Error("build store", "store_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load store")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"store": view})
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.grid.ListStores(r.Context())
	if err != nil {
		h.logger.Error("list stores", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list stores")
		return
	}
	if views == nil {
		views = []grid.StoreView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stores": views})
}

// Current returns the user's selected store. Having none is not an error
// for the client: it gets currentStore null and a message.
func (h *StoreHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, err := h.userStore.GetByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("current store user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load current store")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}
	if u.CurrentStoreID == nil {
		writeJSON(w, http.StatusOK, map[string]any{"error": "No Current Store Selected.", "currentStore": nil})
		return
	}

	view, err := h.grid.BuildStore(r.Context(), *u.CurrentStoreID)
	if errors.Is(err, grid.ErrStoreNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"error": "No Current Store Selected.", "currentStore": nil})
		return
	}
	if err != nil {
		h.logger.Error("build current store", "store_id", *u.CurrentStoreID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load current store")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"currentStore": view})
}

func (h *StoreHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.grid.BuildStore(r.Context(), id)
	if errors.Is(err, grid.ErrStoreNotFound) {
		writeError(w, http.StatusNotFound, "No store by that ID")
		return
	}
	if err != nil {
		h.logger.Error("build store", "store_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load store")
		return
	}

	if _, err := h.userStore.SetCurrentStore(r.Context(), auth.UserID(r.Context()), id); err != nil {
		h.logger.Error("set current store", "store_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set current store")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"currentStore": view})
}

// CurrentID answers with the bare store id, or null.
func (h *StoreHandler) CurrentID(w http.ResponseWriter, r *http.Request) {
	u, err := h.userStore.GetByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("current store id", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load current store")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u.CurrentStoreID)
}
