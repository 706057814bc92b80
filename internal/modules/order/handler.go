package order

import (
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/modules/auth"
	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes order HTTP endpoints. Each Register* method expects a router already
// restricted to the matching role.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Post("/orders", h.placeOrder)   // POST /api/users/orders
	r.Get("/orders/my", h.listMine)   // GET  /api/users/orders/my
	r.Get("/orders/{id}", h.getOrder) // GET  /api/users/orders/{id}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.listAll)                    // GET   /api/admin/orders
	r.Get("/orders/{id}", h.getOrder)              // GET   /api/admin/orders/{id}
	r.Post("/orders/{id}/assign", h.assign)        // POST  /api/admin/orders/{id}/assign
	r.Patch("/orders/{id}/status", h.updateStatus) // PATCH /api/admin/orders/{id}/status
}

func (h *Handler) RegisterAgentRoutes(r chi.Router) {
	r.Get("/orders", h.listAssigned)               // GET   /api/agents/orders
	r.Get("/orders/{id}", h.getOrder)              // GET   /api/agents/orders/{id}
	r.Patch("/orders/{id}/status", h.updateStatus) // PATCH /api/agents/orders/{id}/status
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req PlaceOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), p.UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.GetOrder(r.Context(), p, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orders, err := h.service.ListMyOrders(r.Context(), p.UserID)
	respondList(w, r, orders, err)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAllOrders(r.Context())
	respondList(w, r, orders, err)
}

func (h *Handler) listAssigned(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	orders, err := h.service.ListAssigned(r.Context(), p.UserID)
	respondList(w, r, orders, err)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequestPrincipal(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), p, id, req.Status)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req AssignRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.Assign(r.Context(), id, req.AgentID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func respondList(w http.ResponseWriter, r *http.Request, orders []*Order, err error) {
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	httpx.Respond(w, http.StatusOK, orders)
}
