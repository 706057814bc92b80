// Command seed loads demo users, stores, medicines and orders. Run with -d to only wipe the data.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/modules/catalog"
	"github.com/georgemunganga/medexpress-backend/internal/modules/inventory"
	"github.com/georgemunganga/medexpress-backend/internal/modules/order"
	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/config"
	"github.com/georgemunganga/medexpress-backend/internal/platform/database"
	"github.com/georgemunganga/medexpress-backend/internal/platform/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var seedUsers = []user.RegisterRequest{
	{Name: "Admin User", Email: "admin@medexpress.in", Password: "admin123", Role: user.RoleAdmin},
	{Name: "Ravi Kumar", Email: "agent@medexpress.in", Password: "agent123", Role: user.RoleAgent},
	{Name: "Asha Rao", Email: "user@medexpress.in", Password: "user1234", Role: user.RoleCustomer,
		Address: user.Address{FlatNo: "12", Road: "100 Feet Road", Locality: "Indiranagar", Pincode: "560038"}},
}

var seedStores = []inventory.CreateStoreRequest{
	{Name: "MedExpress Indiranagar", Address: "100 Feet Road, Indiranagar, Bangalore",
		Location: &inventory.Point{Longitude: 77.6408, Latitude: 12.9719}},
	{Name: "MedExpress Koramangala", Address: "80 Feet Road, Koramangala, Bangalore",
		Location: &inventory.Point{Longitude: 77.6271, Latitude: 12.9352}},
	{Name: "MedExpress Jayanagar", Address: "11th Main, Jayanagar 4th Block, Bangalore",
		Location: &inventory.Point{Longitude: 77.5838, Latitude: 12.9250}},
}

var seedMedicines = []struct{ name, description, price string }{
	{"Paracetamol 500mg", "Pain reliever and fever reducer", "25.50"},
	{"Cetirizine 10mg", "Antihistamine for allergy relief", "18.00"},
	{"Amoxicillin 250mg", "Broad-spectrum antibiotic", "85.00"},
	{"Ibuprofen 400mg", "Anti-inflammatory pain reliever", "32.75"},
	{"Omeprazole 20mg", "Reduces stomach acid", "64.00"},
	{"ORS Sachet", "Oral rehydration salts", "19.99"},
	{"Vitamin C 500mg", "Immune support supplement", "120.00"},
	{"Cough Syrup 100ml", "Relief from dry cough", "95.00"},
}

var seedStatuses = []order.Status{
	order.StatusPending, order.StatusAccepted, order.StatusPickedUp, order.StatusDelivered, order.StatusCancelled,
}

func main() {
	destroy := flag.Bool("d", false, "delete all data and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger("medexpress-seed", cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := logging.ContextWithLogger(context.Background(), logger)
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{MaxOpenConns: 5, MaxIdleConns: 2})
	if err != nil {
		logger.Fatal("database_connect_failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("database_migrate_failed", zap.Error(err))
	}

	if err := wipe(ctx, db); err != nil {
		logger.Fatal("clear_failed", zap.Error(err))
	}
	logger.Info("data_cleared")
	if *destroy {
		return
	}

	if err := seed(ctx, db, rand.New(rand.NewSource(time.Now().UnixNano()))); err != nil {
		logger.Fatal("seed_failed", zap.Error(err))
	}
	logger.Info("data_imported")
}

func wipe(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		TRUNCATE order_items, orders, cart_items, medicine_inventory, medicines, stores, users`)
	return err
}

func seed(ctx context.Context, db *sql.DB, rng *rand.Rand) error {
	log := logging.FromContext(ctx)

	userRepo := user.NewPostgresRepository(db)
	users := user.NewService(userRepo)
	var agent, customer *user.User
	for _, req := range seedUsers {
		u, err := users.RegisterUser(ctx, req)
		if err != nil {
			return err
		}
		switch u.Role {
		case user.RoleAgent:
			agent = u
		case user.RoleCustomer:
			customer = u
		}
	}
	log.Info("users_imported", zap.Int("count", len(seedUsers)))

	medicines := catalog.NewService(catalog.NewPostgresRepository(db))
	inv := inventory.NewService(
		inventory.NewStorePostgresRepository(db),
		inventory.NewStockPostgresRepository(db),
		medicines,
	)
	var stores []*inventory.Store
	for _, req := range seedStores {
		s, err := inv.CreateStore(ctx, req)
		if err != nil {
			return err
		}
		stores = append(stores, s)
	}
	log.Info("stores_imported", zap.Int("count", len(stores)))

	var meds []*catalog.Medicine
	for _, m := range seedMedicines {
		price := decimal.RequireFromString(m.price)
		med, err := medicines.CreateMedicine(ctx, catalog.CreateMedicineRequest{
			Name: m.name, Description: m.description, Price: &price,
		})
		if err != nil {
			return err
		}
		for _, s := range stores {
			stock := rng.Intn(201) + 10
			if _, err := inv.SetStock(ctx, inventory.SetStockRequest{
				MedicineID: &med.ID, StoreID: &s.ID, Stock: &stock,
			}); err != nil {
				return err
			}
		}
		meds = append(meds, med)
	}
	log.Info("medicines_imported", zap.Int("count", len(meds)))

	orders := order.NewPostgresRepository(db)
	for i := 0; i < 20; i++ {
		var items []*order.Item
		for j := rng.Intn(3) + 1; j > 0; j-- {
			med := meds[rng.Intn(len(meds))]
			items = append(items, &order.Item{
				ID:         uuid.New(),
				MedicineID: med.ID,
				Name:       med.Name,
				Quantity:   rng.Intn(3) + 1,
				Price:      med.Price,
			})
		}
		status := seedStatuses[rng.Intn(len(seedStatuses))]
		o := &order.Order{
			ID:                 uuid.New(),
			UserID:             customer.ID,
			FulfillmentStoreID: stores[rng.Intn(len(stores))].ID,
			Items:              items,
			TotalAmount:        order.Total(items),
			DeliveryAddress:    "123 Test St, Bangalore, India",
			Status:             status,
			PaymentMethod:      order.PaymentCOD,
		}
		if status != order.StatusPending && status != order.StatusCancelled {
			o.AgentID = &agent.ID
		}
		if err := orders.CreateOrder(ctx, o); err != nil {
			return err
		}
	}
	log.Info("orders_imported", zap.Int("count", 20))
	return nil
}
