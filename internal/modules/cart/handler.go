package cart

import (
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/modules/auth"
	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the customer's cart.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts cart routes on a router restricted to customers.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/", h.addItem)
		r.Put("/{medicineId}", h.updateQuantity)
		r.Delete("/{medicineId}", h.removeItem)
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Get(r.Context(), p.UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req AddItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.AddItem(r.Context(), p.UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	medicineID, err := httpx.PathUUID(r, "medicineId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateQuantityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.UpdateQuantity(r.Context(), p.UserID, medicineID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	medicineID, err := httpx.PathUUID(r, "medicineId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.RemoveItem(r.Context(), p.UserID, medicineID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}
