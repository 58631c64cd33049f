package handler

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/rental-inventory/internal/inventory"
	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/internal/store"
)

// WebHandler serves the HTML pages. Every action is a form POST that calls
// one coordinator operation and redirects back to the inventory.
type WebHandler struct {
	inventory Inventory
	templates *Templates
	static    fs.FS
	logger    *zap.Logger
}

// NewWebHandler creates a new WebHandler instance. static may be nil.
func NewWebHandler(inv Inventory, templates *Templates, static fs.FS, logger *zap.Logger) *WebHandler {
	return &WebHandler{
		inventory: inv,
		templates: templates,
		static:    static,
		logger:    logger,
	}
}

// RegisterRoutes registers the page routes with the router.
func (h *WebHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/items", h.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/rent", h.RentDialog).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/rent", h.ConfirmRent).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/edit", h.EditDialog).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/edit", h.ConfirmEdit).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/delete", h.DeleteDialog).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/delete", h.ConfirmDelete).Methods(http.MethodPost)
	router.HandleFunc("/toasts/{id}/dismiss", h.DismissToast).Methods(http.MethodPost)

	if h.static != nil {
		router.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.FS(h.static))),
		).Methods(http.MethodGet)
	}
}

// Index handles GET / requests.
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.Items(r.Context())
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		http.Error(w, "failed to retrieve items", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, pageIndex, &indexPage{
		pageData: h.page("Inventory"),
		Items:    items,
	})
}

// AddItem handles POST /items.
func (h *WebHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	in, err := readAddItemForm(r)
	if err != nil {
		// An unreadable form is reported the same way as an incomplete one.
		h.logger.Warn("invalid add item form", zap.Error(err))
		in.Image = nil
	}

	if _, err := h.inventory.AddItem(r.Context(), in); err != nil {
		h.logger.Debug("add item rejected", zap.Error(err))
	}

	redirectHome(w, r)
}

// RentDialog handles GET /items/{id}/rent?days=N.
func (h *WebHandler) RentDialog(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !item.IsAvailable() {
		redirectHome(w, r)
		return
	}

	days := model.MinRentalDays
	if raw := r.URL.Query().Get(fieldDays); raw != "" {
		days = model.ParseRentalDays(raw)
	}

	h.render(w, http.StatusOK, pageRent, &rentPage{
		pageData: h.page("Rent " + item.Name),
		Item:     item,
		Days:     days,
		Total:    model.RentalTotal(item.PricePerDay, days),
	})
}

// ConfirmRent handles POST /items/{id}/rent.
func (h *WebHandler) ConfirmRent(w http.ResponseWriter, r *http.Request) {
	days := model.ParseRentalDays(r.PostFormValue(fieldDays))
	if _, err := h.inventory.Rent(r.Context(), mux.Vars(r)["id"], days); err != nil {
		h.handleError(w, r, err, "rent item")
		return
	}

	redirectHome(w, r)
}

// EditDialog handles GET /items/{id}/edit.
func (h *WebHandler) EditDialog(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.render(w, http.StatusOK, pageEdit, &itemPage{
		pageData: h.page("Edit " + item.Name),
		Item:     item,
	})
}

// ConfirmEdit handles POST /items/{id}/edit.
func (h *WebHandler) ConfirmEdit(w http.ResponseWriter, r *http.Request) {
	in, err := readEditForm(r)
	if err != nil {
		h.logger.Warn("invalid edit form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if _, err := h.inventory.Edit(r.Context(), mux.Vars(r)["id"], in); err != nil {
		h.handleError(w, r, err, "edit item")
		return
	}

	redirectHome(w, r)
}

// DeleteDialog handles GET /items/{id}/delete.
func (h *WebHandler) DeleteDialog(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lookup(w, r)
	if !ok {
		return
	}

	h.render(w, http.StatusOK, pageDelete, &itemPage{
		pageData: h.page("Delete " + item.Name),
		Item:     item,
	})
}

// ConfirmDelete handles POST /items/{id}/delete.
func (h *WebHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.handleError(w, r, err, "delete item")
		return
	}

	redirectHome(w, r)
}

// DismissToast handles POST /toasts/{id}/dismiss.
func (h *WebHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	if id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64); err == nil {
		h.inventory.DismissToast(id)
	}

	redirectHome(w, r)
}

// lookup loads the item named in the path. It writes the error response
// itself and reports false when the item cannot be shown.
func (h *WebHandler) lookup(w http.ResponseWriter, r *http.Request) (*model.InventoryItem, bool) {
	item, err := h.inventory.Item(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleError(w, r, err, "get item")
		return nil, false
	}
	return item, true
}

func (h *WebHandler) page(title string) pageData {
	return pageData{
		Title:      title,
		Toasts:     h.inventory.Toasts(),
		Submitting: h.inventory.Submitting() > 0,
	}
}

func (h *WebHandler) render(w http.ResponseWriter, status int, name string, data any) {
	if err := h.templates.Render(w, status, name, data); err != nil {
		h.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleError maps coordinator errors for page requests. Validation
// failures already produced a toast and a rented item has nothing left to
// confirm, so both go back to the inventory.
func (h *WebHandler) handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		h.logger.Debug("request canceled", zap.String("operation", operation))
	case errors.Is(err, inventory.ErrValidation), errors.Is(err, inventory.ErrAlreadyRented):
		redirectHome(w, r)
	default:
		h.logger.Error("inventory operation failed", zap.String("operation", operation), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
