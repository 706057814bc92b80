package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{"id", "user_id", "agent_id", "fulfillment_store_id", "total_amount",
	"delivery_address", "status", "payment_method", "created_at", "updated_at",
	"name", "name", "address", "name"}

func TestPostgresCreateOrderInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	o := &Order{
		ID: uuid.New(), UserID: uuid.New(), FulfillmentStoreID: uuid.New(),
		TotalAmount: decimal.RequireFromString("30"), DeliveryAddress: "MG Road",
		Status: StatusPending, PaymentMethod: PaymentCOD,
		Items: []*Item{
			{ID: uuid.New(), MedicineID: uuid.New(), Name: "Paracetamol", Quantity: 2, Price: decimal.RequireFromString("10")},
			{ID: uuid.New(), MedicineID: uuid.New(), Name: "ORS", Quantity: 1, Price: decimal.RequireFromString("10")},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(o.Items[0].ID, o.ID, o.Items[0].MedicineID, "Paracetamol", 2, sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(o.Items[1].ID, o.ID, o.Items[1].MedicineID, "ORS", 1, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateOrder(context.Background(), o))
	assert.Equal(t, now, o.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateOrderRollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = repo.CreateOrder(context.Background(), &Order{
		ID:    uuid.New(),
		Items: []*Item{{ID: uuid.New(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetOrderWithAgentAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	id, userID, agentID, storeID, medID := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).AddRow(
			id.String(), userID.String(), agentID.String(), storeID.String(), "25.50",
			"MG Road", "Accepted", "COD", now, now,
			"Asha", "MedExpress BTM", "BTM Layout", "Ravi"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = ANY($1::uuid[])")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "medicine_id", "name", "quantity", "price"}).
			AddRow(uuid.New().String(), id.String(), medID.String(), "Paracetamol", 1, "25.50"))

	o, err := repo.GetOrderByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)
	require.NotNil(t, o.AgentID)
	assert.Equal(t, agentID, *o.AgentID)
	assert.Equal(t, "Ravi", o.Agent.Name)
	assert.Equal(t, "MedExpress BTM", o.FulfillmentStore.Name)
	require.Len(t, o.Items, 1)
	assert.Equal(t, medID, o.Items[0].MedicineID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListOrdersFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	agentID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.agent_id = $1 ORDER BY o.created_at DESC")).
		WithArgs(agentID).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	orders, err := repo.ListOrders(context.Background(), Filter{AgentID: &agentID})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatusCompareAndSwap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $2 AND status = $3")).
		WithArgs(StatusDelivered, id, StatusPickedUp).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(context.Background(), id, StatusPickedUp, StatusDelivered)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAssign(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	id, agentID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND status = ANY($4)")).
		WithArgs(agentID, StatusAccepted, id, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Assign(context.Background(), id, agentID, assignableStatuses)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
