package repository

import (
	"testing"

	"pizzaShop/database"
	"pizzaShop/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// the in-memory database lives in a single connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitSchema(db))
	return db
}

func sampleOrder() (models.Order_db, []models.OrderItem_db) {
	order := models.Order_db{
		CustomerName: "Jane",
		Phone:        "555",
		Address:      "Addr",
		TotalPrice:   30.0,
	}
	items := []models.OrderItem_db{
		{PizzaId: 1, PizzaName: "X", Price: 10.0, Quantity: 3},
	}
	return order, items
}

func TestOrderRoundTrip(t *testing.T) {
	repo, err := NewOrderRepository(newTestDB(t))
	require.NoError(t, err)

	order, items := sampleOrder()
	items = append(items, models.OrderItem_db{PizzaId: 2, PizzaName: "Pepperoni", Price: 399.0, Quantity: 1})
	order.TotalPrice = 429.0

	orderId, err := repo.CreateOrder(order, items)
	require.NoError(t, err)
	require.NotZero(t, orderId)

	got, err := repo.GetOrderById(orderId)
	require.NoError(t, err)
	assert.Equal(t, orderId, got.Id)
	assert.Equal(t, "Jane", got.CustomerName)
	assert.Equal(t, "555", got.Phone)
	assert.Equal(t, "Addr", got.Address)
	assert.InDelta(t, 429.0, got.TotalPrice, 0.01)
	assert.False(t, got.OrderDate.IsZero())

	require.Len(t, got.Items, len(items))
	assert.Equal(t, 1, got.Items[0].PizzaId)
	assert.Equal(t, "X", got.Items[0].PizzaName)
	assert.InDelta(t, 10.0, got.Items[0].Price, 0.01)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, "Pepperoni", got.Items[1].PizzaName)
}

func TestOrderIdsAreUnique(t *testing.T) {
	repo, err := NewOrderRepository(newTestDB(t))
	require.NoError(t, err)

	seen := make(map[int]bool)
	prev := 0
	for i := 0; i < 5; i++ {
		order, items := sampleOrder()
		orderId, err := repo.CreateOrder(order, items)
		require.NoError(t, err)
		assert.False(t, seen[orderId])
		assert.Greater(t, orderId, prev)
		seen[orderId] = true
		prev = orderId
	}
}

func TestGetOrderByIdNotFound(t *testing.T) {
	repo, err := NewOrderRepository(newTestDB(t))
	require.NoError(t, err)

	_, err = repo.GetOrderById(99999)
	assert.ErrorIs(t, err, models.ErrNotFoundError)
}

func TestCreateOrderRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewOrderRepository(db)
	require.NoError(t, err)

	// breaking the line-item table makes the item insert fail after the order row
	_, err = db.Exec("DROP TABLE order_items")
	require.NoError(t, err)

	order, items := sampleOrder()
	_, err = repo.CreateOrder(order, items)
	require.Error(t, err)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM orders"))
	assert.Zero(t, count, "partial order must be rolled back")
}

func TestGetAllOrdersPagination(t *testing.T) {
	repo, err := NewOrderRepository(newTestDB(t))
	require.NoError(t, err)

	ids := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		order, items := sampleOrder()
		orderId, err := repo.CreateOrder(order, items)
		require.NoError(t, err)
		ids = append(ids, orderId)
	}

	all, err := repo.GetAllOrders(0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	// newest first
	assert.Equal(t, ids[4], all[0].Id)
	assert.Equal(t, ids[0], all[4].Id)

	page, err := repo.GetAllOrders(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].Id)
	assert.Equal(t, ids[1], page[1].Id)

	count, err := repo.GetOrderCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestGetOrderCountEmpty(t *testing.T) {
	repo, err := NewOrderRepository(newTestDB(t))
	require.NoError(t, err)

	count, err := repo.GetOrderCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}
