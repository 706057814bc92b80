package inventory

import (
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the public store and store-catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stores", h.listStores)
	r.Get("/stores/{id}", h.getStore)
	r.Get("/users/medicines", h.listStoreCatalog) // ?storeId=...&keyword=...
}

// RegisterAdminRoutes mounts stock and store management on an administrator-only router.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/inventory", h.setStock)
	r.Post("/stores", h.createStore)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if stores == nil {
		stores = []*Store{}
	}
	httpx.Respond(w, http.StatusOK, stores)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	store, err := h.service.GetStore(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, store)
}

func (h *Handler) listStoreCatalog(w http.ResponseWriter, r *http.Request) {
	storeID, ok, err := httpx.QueryUUID(r, "storeId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if !ok {
		httpx.Respond(w, http.StatusOK, []*StockedMedicine{})
		return
	}
	medicines, err := h.service.ListForStore(r.Context(), storeID, r.URL.Query().Get("keyword"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if medicines == nil {
		medicines = []*StockedMedicine{}
	}
	httpx.Respond(w, http.StatusOK, medicines)
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	updated, err := h.service.SetStock(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, updated)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	store, err := h.service.CreateStore(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, store)
}
