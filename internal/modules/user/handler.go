package user

import (
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the profile and administrator user endpoints. Public registration lives in auth.
type Handler struct {
	service     Service
	currentUser func(*http.Request) (uuid.UUID, error)
}

// NewHandler wires the user endpoints. currentUser resolves the authenticated caller's id.
func NewHandler(service Service, currentUser func(*http.Request) (uuid.UUID, error)) *Handler {
	return &Handler{service: service, currentUser: currentUser}
}

// RegisterProfileRoutes mounts the caller's own profile routes on an authenticated router.
func (h *Handler) RegisterProfileRoutes(r chi.Router) {
	r.Get("/profile", h.getProfile)                    // GET /api/users/profile
	r.Put("/profile", h.updateProfile)                 // PUT /api/users/profile
	r.Put("/profile/changepassword", h.changePassword) // PUT /api/users/profile/changepassword
}

// RegisterAdminRoutes mounts routes on a router already restricted to administrators.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/agents", h.listAgents)
	r.Post("/users", h.createUser)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := h.currentUser(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, u)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := h.currentUser(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.service.UpdateProfile(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, u)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := h.currentUser(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req ChangePasswordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), id, req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"message": "password updated successfully"})
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.ListAgents(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if agents == nil {
		agents = []*User{}
	}
	httpx.Respond(w, http.StatusOK, agents)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	u, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, u)
}
