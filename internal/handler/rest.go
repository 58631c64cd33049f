package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/rental-inventory/internal/inventory"
	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// APIHandler serves the JSON API.
type APIHandler struct {
	inventory Inventory
	logger    *zap.Logger
}

// NewAPIHandler creates a new APIHandler instance.
func NewAPIHandler(inv Inventory, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		inventory: inv,
		logger:    logger,
	}
}

// RegisterRoutes registers the JSON API routes with the router.
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", h.GetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", h.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/rent", h.RentItem).Methods(http.MethodPost)
	api.HandleFunc("/toasts", h.ListToasts).Methods(http.MethodGet)
	api.HandleFunc("/toasts/{id}", h.DismissToast).Methods(http.MethodDelete)
	api.HandleFunc("/status", h.Status).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *APIHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(HealthResponse{
		Status:  "healthy",
		Version: Version,
	}))
}

// ReadyCheck handles GET /ready requests.
func (h *APIHandler) ReadyCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(ReadyResponse{Status: "ready"}))
}

// ListItems handles GET /api/v1/items requests.
func (h *APIHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.Items(r.Context())
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to retrieve items")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(items))
}

// GetItem handles GET /api/v1/items/{id} requests.
func (h *APIHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Item(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleInventoryError(w, err, "get item")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// CreateItem handles POST /api/v1/items multipart requests.
func (h *APIHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	in, err := readAddItemForm(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		h.logger.Warn("invalid add item form", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	item, err := h.inventory.AddItem(r.Context(), in)
	if err != nil {
		h.handleInventoryError(w, err, "add item")
		return
	}

	h.writeJSON(w, http.StatusCreated, model.NewSuccessResponse(item))
}

// UpdateItem handles PUT /api/v1/items/{id} requests.
func (h *APIHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var input model.EditItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.inventory.Edit(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		h.handleInventoryError(w, err, "update item")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// RentItem handles POST /api/v1/items/{id}/rent requests.
func (h *APIHandler) RentItem(w http.ResponseWriter, r *http.Request) {
	var req rentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	days, err := req.rentalDays()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := h.inventory.Rent(r.Context(), mux.Vars(r)["id"], days)
	if err != nil {
		h.handleInventoryError(w, err, "rent item")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(newRentResponse(receipt)))
}

// DeleteItem handles DELETE /api/v1/items/{id}?confirm=true requests.
func (h *APIHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		h.writeError(w, http.StatusPreconditionRequired, "deletion must be confirmed with confirm=true")
		return
	}

	if err := h.inventory.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.handleInventoryError(w, err, "delete item")
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// ListToasts handles GET /api/v1/toasts requests.
func (h *APIHandler) ListToasts(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(h.inventory.Toasts()))
}

// DismissToast handles DELETE /api/v1/toasts/{id} requests.
func (h *APIHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid toast ID")
		return
	}

	if !h.inventory.DismissToast(id) {
		h.writeError(w, http.StatusNotFound, "toast not found")
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// Status handles GET /api/v1/status requests.
func (h *APIHandler) Status(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.Items(r.Context())
	if err != nil {
		h.handleInventoryError(w, err, "status")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(StatusResponse{
		Submitting: h.inventory.Submitting(),
		Items:      len(items),
	}))
}

// handleInventoryError maps coordinator errors to HTTP responses.
func (h *APIHandler) handleInventoryError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid item ID")
	case errors.Is(err, inventory.ErrAlreadyRented):
		h.writeError(w, http.StatusConflict, "item is already rented")
	case errors.Is(err, store.ErrAlreadyExists):
		h.writeError(w, http.StatusConflict, "item already exists")
	case errors.Is(err, inventory.ErrValidation):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrImageDecode):
		h.writeError(w, http.StatusUnprocessableEntity, inventory.MsgAddFailed)
	default:
		h.logger.Error("inventory operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error envelope with the given status code.
func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.NewErrorResponse[any](message))
}
