package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/modules/auth"
	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/georgemunganga/medexpress-backend/internal/modules/routing"
	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/georgemunganga/medexpress-backend/internal/platform/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines order placement, the status lifecycle and agent assignment.
type Service interface {
	// PlaceOrder verifies stock at the resolved store and persists a Pending order.
	// Nothing is created when any line falls short.
	PlaceOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest) (*Order, error)

	// GetOrder returns an order visible to p: its placer, its agent, or any administrator.
	GetOrder(ctx context.Context, p auth.Principal, id uuid.UUID) (*Order, error)

	ListMyOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error)
	ListAllOrders(ctx context.Context) ([]*Order, error)

	// ListAssigned returns the orders bound to agentID, newest first.
	ListAssigned(ctx context.Context, agentID uuid.UUID) ([]*Order, error)

	// UpdateStatus applies an agent or administrator status change.
	UpdateStatus(ctx context.Context, p auth.Principal, id uuid.UUID, target Status) (*Order, error)

	// Assign binds an agent and moves the order to Accepted in one atomic update.
	Assign(ctx context.Context, id, agentID uuid.UUID) (*Order, error)
}

// allowedTargets lists the statuses each role may request through UpdateStatus.
// Accepted is reached only through Assign.
var allowedTargets = map[user.Role][]Status{
	user.RoleAgent: {StatusPickedUp, StatusDelivered, StatusCancelled},
	user.RoleAdmin: {StatusCancelled},
}

// assignableStatuses are the states from which Assign may (re)bind an agent.
var assignableStatuses = []Status{StatusPending, StatusAccepted}

// StoreResolver picks the fulfillment store. routing.Service satisfies it.
type StoreResolver interface {
	ResolveStore(ctx context.Context, storeID *uuid.UUID, address string) (*routing.Decision, error)
}

// MedicineFinder resolves catalog entries. catalog.Service satisfies it.
type MedicineFinder interface {
	GetMedicine(ctx context.Context, id uuid.UUID) (*catalog.Medicine, error)
}

// StockReader reads store-scoped stock. inventory.Service satisfies it.
type StockReader interface {
	GetStock(ctx context.Context, medicineID, storeID uuid.UUID) (int, error)
}

// CartClearer empties a customer's cart. cart.Service satisfies it.
type CartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// UserFinder looks up users. user.Service satisfies it.
type UserFinder interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Recorder receives order events. *metrics.Metrics satisfies it.
type Recorder interface {
	OrderPlaced()
	StatusTransition(status string)
	StockRejected(operation string)
}

type service struct {
	repo      Repository
	stores    StoreResolver
	medicines MedicineFinder
	stock     StockReader
	carts     CartClearer
	users     UserFinder
	recorder  Recorder
}

// NewService creates a new order service.
func NewService(repo Repository, stores StoreResolver, medicines MedicineFinder, stock StockReader,
	carts CartClearer, users UserFinder, recorder Recorder) Service {
	return &service{
		repo:      repo,
		stores:    stores,
		medicines: medicines,
		stock:     stock,
		carts:     carts,
		users:     users,
		recorder:  recorder,
	}
}

func (s *service) PlaceOrder(ctx context.Context, customerID uuid.UUID, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("no order items")
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		return nil, apperr.Validation("deliveryAddress is required")
	}
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	decision, err := s.stores.ResolveStore(ctx, req.StoreID, address)
	if err != nil {
		return nil, err
	}
	store := decision.Store

	// ── Verify every line before building anything ───────────────────────────
	items := make([]*Item, 0, len(lines))
	for _, line := range lines {
		med, err := s.medicines.GetMedicine(ctx, line.MedicineID)
		if err != nil {
			return nil, err
		}
		available, err := s.stock.GetStock(ctx, med.ID, store.ID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > available {
			s.recorder.StockRejected("order_place")
			return nil, apperr.InsufficientStock(med.Name, store.Name, line.Quantity, available)
		}
		items = append(items, &Item{
			ID:         uuid.New(),
			MedicineID: med.ID,
			Name:       med.Name,
			Quantity:   line.Quantity,
			Price:      med.Price,
		})
	}

	total := Total(items)
	if req.TotalAmount != nil && !req.TotalAmount.Round(2).Equal(total.Round(2)) {
		return nil, apperr.Validation("totalAmount %s does not match computed total %s",
			req.TotalAmount.StringFixed(2), total.StringFixed(2))
	}

	o := &Order{
		ID:                 uuid.New(),
		UserID:             customerID,
		FulfillmentStoreID: store.ID,
		Items:              items,
		TotalAmount:        total,
		DeliveryAddress:    address,
		Status:             StatusPending,
		PaymentMethod:      PaymentCOD,
		FulfillmentStore:   &StoreSummary{ID: store.ID, Name: store.Name, Address: store.Address},
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.recorder.OrderPlaced()

	log := logging.FromContext(ctx)
	if err := s.carts.Clear(ctx, customerID); err != nil {
		log.Warn("order placed but cart not cleared",
			zap.String("order_id", o.ID.String()), zap.Error(err))
	}
	log.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("store_id", store.ID.String()),
		zap.String("store_strategy", string(decision.Strategy)),
		zap.String("total", total.StringFixed(2)))
	return o, nil
}

// maxLineQuantity bounds a merged order line to the order_items quantity column.
const maxLineQuantity = math.MaxInt32

// mergeLines folds duplicate medicines into one line, keeping first-seen order.
func mergeLines(reqs []ItemRequest) ([]ItemRequest, error) {
	var lines []ItemRequest
	index := map[uuid.UUID]int{}
	for _, r := range reqs {
		if r.MedicineID == uuid.Nil {
			return nil, apperr.Validation("medicineId is required for every item")
		}
		if r.Quantity <= 0 || r.Quantity > maxLineQuantity {
			return nil, apperr.Validation("quantity must be between 1 and %d", maxLineQuantity)
		}
		if i, ok := index[r.MedicineID]; ok {
			if lines[i].Quantity > maxLineQuantity-r.Quantity {
				return nil, apperr.Validation("combined quantity for medicine %s exceeds %d", r.MedicineID, maxLineQuantity)
			}
			lines[i].Quantity += r.Quantity
			continue
		}
		index[r.MedicineID] = len(lines)
		lines = append(lines, r)
	}
	return lines, nil
}

func (s *service) GetOrder(ctx context.Context, p auth.Principal, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case p.IsAdmin():
	case p.IsCustomer() && o.UserID == p.UserID:
	case p.IsAgent() && o.AgentID != nil && *o.AgentID == p.UserID:
	default:
		return nil, apperr.Forbidden("not authorized to view this order")
	}
	return o, nil
}

func (s *service) ListMyOrders(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrders(ctx, Filter{UserID: &customerID})
}

func (s *service) ListAllOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListOrders(ctx, Filter{})
}

func (s *service) ListAssigned(ctx context.Context, agentID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrders(ctx, Filter{AgentID: &agentID})
}

func (s *service) UpdateStatus(ctx context.Context, p auth.Principal, id uuid.UUID, target Status) (*Order, error) {
	allowed, ok := allowedTargets[p.Role]
	if !ok {
		return nil, apperr.Forbidden("role %s may not change order status", p.Role)
	}
	if !containsStatus(allowed, target) {
		return nil, apperr.Validation("invalid status %q", target)
	}

	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsAgent() && (o.AgentID == nil || *o.AgentID != p.UserID) {
		return nil, apperr.Forbidden("not authorized to update this order")
	}
	if !CanTransition(o.Status, target) {
		return nil, apperr.Validation("cannot transition order from %s to %s", o.Status, target)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, o.Status, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.Conflict("order status changed concurrently; reload and retry")
	}
	s.recorder.StatusTransition(string(target))
	logging.FromContext(ctx).Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("from", string(o.Status)),
		zap.String("to", string(target)),
		zap.String("actor_role", string(p.Role)))

	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) Assign(ctx context.Context, id, agentID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	agent, err := s.users.GetUser(ctx, agentID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.NotFound("agent not found")
	}
	if err != nil {
		return nil, err
	}
	if agent.Role != user.RoleAgent {
		return nil, apperr.Validation("user %s is not an agent", agent.Name)
	}
	if !containsStatus(assignableStatuses, o.Status) {
		return nil, apperr.Validation("cannot assign an agent to a %s order", o.Status)
	}

	updated, err := s.repo.Assign(ctx, id, agent.ID, assignableStatuses)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.Conflict("order status changed concurrently; reload and retry")
	}
	s.recorder.StatusTransition(string(StatusAccepted))

	return s.repo.GetOrderByID(ctx, id)
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
