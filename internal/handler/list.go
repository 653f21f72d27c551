package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shopfaster/internal/auth"
	"github.com/dukerupert/shopfaster/internal/middleware"
	"github.com/dukerupert/shopfaster/internal/model"
	"github.com/dukerupert/shopfaster/internal/shoplist"
)

// ListHandler serves the signed-in user's shopping list. Every endpoint
// answers with the whole sorted list.
type ListHandler struct {
	list   *shoplist.Service
	logger *slog.Logger
}

func NewListHandler(list *shoplist.Service, logger *slog.Logger) *ListHandler {
	return &ListHandler{list: list, logger: logger}
}

type addListItemRequest struct {
	InventoryID int64 `json:"inventoryID"`
}

type addListItemsRequest struct {
	InventoryIDs []int64 `json:"inventoryIDs"`
}

type sortOrdersRequest struct {
	Items []model.SortUpdate `json:"items"`
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	views, err := h.list.Get(r.Context(), auth.UserID(r.Context()))
	h.respond(w, r, views, err)
}

func (h *ListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addListItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.Add(r.Context(), auth.UserID(r.Context()), req.InventoryID)
	h.respond(w, r, views, err)
}

func (h *ListHandler) AddMany(w http.ResponseWriter, r *http.Request) {
	var req addListItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.AddMany(r.Context(), auth.UserID(r.Context()), req.InventoryIDs)
	h.respond(w, r, views, err)
}

func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.Remove(r.Context(), auth.UserID(r.Context()), id)
	h.respond(w, r, views, err)
}

func (h *ListHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	active, err := parseBoolParam(r, "active")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.SetActive(r.Context(), auth.UserID(r.Context()), id, active)
	h.respond(w, r, views, err)
}

func (h *ListHandler) SetAllActive(w http.ResponseWriter, r *http.Request) {
	active, err := parseBoolParam(r, "active")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.SetAllActive(r.Context(), auth.UserID(r.Context()), active)
	h.respond(w, r, views, err)
}

func (h *ListHandler) SetCrossedOff(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	crossedOff, err := parseBoolParam(r, "crossed_off")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.SetCrossedOff(r.Context(), auth.UserID(r.Context()), id, crossedOff)
	h.respond(w, r, views, err)
}

func (h *ListHandler) SetAllCrossedOff(w http.ResponseWriter, r *http.Request) {
	crossedOff, err := parseBoolParam(r, "crossed_off")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.SetAllCrossedOff(r.Context(), auth.UserID(r.Context()), crossedOff)
	h.respond(w, r, views, err)
}

func (h *ListHandler) ClearCrossedOff(w http.ResponseWriter, r *http.Request) {
	views, err := h.list.ClearCrossedOff(r.Context(), auth.UserID(r.Context()))
	h.respond(w, r, views, err)
}

func (h *ListHandler) SetSortOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := parseIntParam(r, "sort_order")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.SetSortOrder(r.Context(), auth.UserID(r.Context()), id, order)
	h.respond(w, r, views, err)
}

func (h *ListHandler) SetSortOrders(w http.ResponseWriter, r *http.Request) {
	var req sortOrdersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.list.SetSortOrders(r.Context(), auth.UserID(r.Context()), req.Items)
	h.respond(w, r, views, err)
}

func (h *ListHandler) respond(w http.ResponseWriter, r *http.Request, views []model.ListView, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"listItems": views})
	case errors.Is(err, shoplist.ErrNoCurrentStore):
		writeJSON(w, http.StatusOK, map[string]any{"listItems": []model.ListView{}, "error": err.Error()})
	case errors.Is(err, shoplist.ErrMissingInventoryID), errors.Is(err, shoplist.ErrMissingItems):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shoplist.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, shoplist.ErrListItemNotFound), errors.Is(err, shoplist.ErrInventoryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shoplist.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Error("shopping list", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update shopping list")
	}
}
