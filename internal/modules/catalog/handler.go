package catalog

import (
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the public catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/medicines", h.listMedicines)
	r.Get("/medicines/{id}", h.getMedicine)
}

// RegisterAdminRoutes mounts catalog mutations on an administrator-only router.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/medicines", h.createMedicine)
	r.Put("/medicines/{id}", h.updateMedicine)
	r.Delete("/medicines/{id}", h.deleteMedicine)
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.service.ListMedicines(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if medicines == nil {
		medicines = []*Medicine{}
	}
	httpx.Respond(w, http.StatusOK, medicines)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	m, err := h.service.GetMedicine(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, m)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req CreateMedicineRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	m, err := h.service.CreateMedicine(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, m)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateMedicineRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	m, err := h.service.UpdateMedicine(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, m)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteMedicine(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "medicine removed"})
}
