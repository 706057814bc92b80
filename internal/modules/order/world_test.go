package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/modules/cart"
	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/georgemunganga/medexpress-backend/internal/modules/geocode"
	"github.com/georgemunganga/medexpress-backend/internal/modules/inventory"
	"github.com/georgemunganga/medexpress-backend/internal/modules/routing"
	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// world is an in-memory stand-in for every store the order service touches.
type world struct {
	mu sync.Mutex

	users     map[uuid.UUID]*user.User
	medicines map[uuid.UUID]*catalog.Medicine
	stores    map[uuid.UUID]*inventory.Store
	stock     map[[2]uuid.UUID]int
	cartLines map[[2]uuid.UUID]int
	orders    map[uuid.UUID]*Order

	clock     time.Time
	failClear bool
	events    []string
}

func newWorld() *world {
	return &world{
		users:     map[uuid.UUID]*user.User{},
		medicines: map[uuid.UUID]*catalog.Medicine{},
		stores:    map[uuid.UUID]*inventory.Store{},
		stock:     map[[2]uuid.UUID]int{},
		cartLines: map[[2]uuid.UUID]int{},
		orders:    map[uuid.UUID]*Order{},
		clock:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (w *world) addUser(name string, role user.Role) *user.User {
	u := &user.User{ID: uuid.New(), Name: name, Role: role}
	w.users[u.ID] = u
	return u
}

func (w *world) addMedicine(name, price string) *catalog.Medicine {
	m := &catalog.Medicine{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price)}
	w.medicines[m.ID] = m
	return m
}

func (w *world) addStore(name string, loc *inventory.Point) *inventory.Store {
	s := &inventory.Store{ID: uuid.New(), Name: name, Address: name + " address", Location: loc}
	w.stores[s.ID] = s
	return s
}

func (w *world) setStock(m *catalog.Medicine, s *inventory.Store, n int) {
	w.stock[[2]uuid.UUID{m.ID, s.ID}] = n
}

// ---- catalog / inventory / users ----

func (w *world) GetMedicine(_ context.Context, id uuid.UUID) (*catalog.Medicine, error) {
	m, ok := w.medicines[id]
	if !ok {
		return nil, apperr.NotFound("medicine not found")
	}
	cp := *m
	return &cp, nil
}

func (w *world) GetStore(_ context.Context, id uuid.UUID) (*inventory.Store, error) {
	s, ok := w.stores[id]
	if !ok {
		return nil, apperr.NotFound("store not found")
	}
	return s, nil
}

func (w *world) NearestStore(_ context.Context, p inventory.Point) (*inventory.Store, error) {
	var best *inventory.Store
	bestDist := 0.0
	for _, s := range w.stores {
		if s.Location == nil {
			continue
		}
		dx, dy := s.Location.Longitude-p.Longitude, s.Location.Latitude-p.Latitude
		if d := dx*dx + dy*dy; best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	if best == nil {
		return nil, apperr.NotFound("no store found near the delivery address")
	}
	return best, nil
}

func (w *world) GetStock(_ context.Context, medicineID, storeID uuid.UUID) (int, error) {
	return w.stock[[2]uuid.UUID{medicineID, storeID}], nil
}

func (w *world) GetUser(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := w.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

// ---- cart.Repository ----

func (w *world) Quantity(_ context.Context, userID, medicineID uuid.UUID) (int, error) {
	return w.cartLines[[2]uuid.UUID{userID, medicineID}], nil
}

func (w *world) Add(_ context.Context, userID, medicineID uuid.UUID, delta int) error {
	w.cartLines[[2]uuid.UUID{userID, medicineID}] += delta
	return nil
}

func (w *world) SetQuantity(_ context.Context, userID, medicineID uuid.UUID, qty int) error {
	k := [2]uuid.UUID{userID, medicineID}
	if _, ok := w.cartLines[k]; !ok {
		return apperr.NotFound("item not in cart")
	}
	w.cartLines[k] = qty
	return nil
}

func (w *world) Remove(_ context.Context, userID, medicineID uuid.UUID) error {
	delete(w.cartLines, [2]uuid.UUID{userID, medicineID})
	return nil
}

func (w *world) Lines(_ context.Context, userID uuid.UUID) ([]*cart.Line, error) {
	var out []*cart.Line
	for k, qty := range w.cartLines {
		if k[0] == userID {
			out = append(out, &cart.Line{Medicine: *w.medicines[k[1]], Quantity: qty})
		}
	}
	return out, nil
}

func (w *world) Clear(_ context.Context, userID uuid.UUID) error {
	if w.failClear {
		return errors.New("cart store unavailable")
	}
	for k := range w.cartLines {
		if k[0] == userID {
			delete(w.cartLines, k)
		}
	}
	return nil
}

// ---- order.Repository ----

func (w *world) CreateOrder(_ context.Context, o *Order) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clock = w.clock.Add(time.Minute)
	o.CreatedAt, o.UpdatedAt = w.clock, w.clock
	cp := *o
	cp.Items = append([]*Item(nil), o.Items...)
	w.orders[o.ID] = &cp
	return nil
}

func (w *world) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	return w.joined(o), nil
}

func (w *world) ListOrders(_ context.Context, f Filter) ([]*Order, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []*Order
	for _, o := range w.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.AgentID != nil && (o.AgentID == nil || *o.AgentID != *f.AgentID) {
			continue
		}
		out = append(out, w.joined(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (w *world) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (w *world) Assign(_ context.Context, id, agentID uuid.UUID, assignable []Status) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.orders[id]
	if !ok || !containsStatus(assignable, o.Status) {
		return false, nil
	}
	a := agentID
	o.AgentID = &a
	o.Status = StatusAccepted
	return true, nil
}

func (w *world) joined(o *Order) *Order {
	cp := *o
	cp.Items = append([]*Item(nil), o.Items...)
	if u, ok := w.users[o.UserID]; ok {
		cp.User = &user.Summary{ID: u.ID, Name: u.Name}
	}
	if s, ok := w.stores[o.FulfillmentStoreID]; ok {
		cp.FulfillmentStore = &StoreSummary{ID: s.ID, Name: s.Name, Address: s.Address}
	}
	if o.AgentID != nil {
		a := *o.AgentID
		cp.AgentID = &a
		if u, ok := w.users[a]; ok {
			cp.Agent = &user.Summary{ID: u.ID, Name: u.Name}
		}
	}
	return &cp
}

// ---- Recorder ----

func (w *world) OrderPlaced()                   { w.events = append(w.events, "placed") }
func (w *world) StatusTransition(status string) { w.events = append(w.events, "status:"+status) }
func (w *world) StockRejected(op string)        { w.events = append(w.events, "rejected:"+op) }

type fixedGeocoder geocode.Location

func (g fixedGeocoder) Geocode(context.Context, string) (geocode.Location, error) {
	return geocode.Location(g), nil
}

// services wires the order service and a real cart service over w.
func (w *world) services(g geocode.Geocoder) (Service, cart.Service) {
	carts := cart.NewService(w, w, w, w)
	orders := NewService(w, routing.NewService(w, g), w, w, carts, w, w)
	return orders, carts
}
