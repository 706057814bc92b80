package routing

import (
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the store-resolution preview used at checkout.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stores/resolve", h.resolve) // ?address=... or ?storeId=...
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	storeID, ok, err := httpx.QueryUUID(r, "storeId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var explicit *uuid.UUID
	if ok {
		explicit = &storeID
	}
	decision, err := h.service.ResolveStore(r.Context(), explicit, r.URL.Query().Get("address"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, decision)
}
