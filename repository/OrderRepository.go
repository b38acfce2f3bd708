package repository

import (
	"database/sql"
	"errors"

	"pizzaShop/entities"
	"pizzaShop/models"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

type OrderRepository interface {
	CreateOrder(order models.Order_db, items []models.OrderItem_db) (orderId int, err error)
	GetOrderById(orderId int) (order entities.Order, err error)
	GetAllOrders(limit int, offset int) (orders []entities.OrderSummary, err error)
	GetOrderCount() (count int, err error)
}

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) (OrderRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &OrderRepo{
		db: conn,
	}, nil
}

// CreateOrder inserts the order row and all of its line items in one
// transaction. Either everything commits or the rollback leaves the store
// untouched; the returned id is only usable when err is nil.
func (o *OrderRepo) CreateOrder(order models.Order_db, items []models.OrderItem_db) (orderId int, err error) {
	tx, e := o.db.Beginx()
	if e != nil {
		log.WithError(e).Error("CreateOrder: begin")
		err = models.ErrServerError
		return
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.WithError(rbErr).Error("CreateOrder: rollback")
			}
		}
	}()

	insertOrder := "INSERT INTO orders (customer_name, phone, address, total_price) VALUES (?, ?, ?, ?)"
	if o.db.DriverName() == "postgres" {
		e = tx.QueryRow(o.db.Rebind(insertOrder+" RETURNING id"),
			order.CustomerName, order.Phone, order.Address, order.TotalPrice).Scan(&orderId)
		if e != nil {
			log.WithError(e).Error("CreateOrder: insert order")
			err = models.ErrServerError
			return
		}
	} else {
		res, e2 := tx.Exec(o.db.Rebind(insertOrder),
			order.CustomerName, order.Phone, order.Address, order.TotalPrice)
		if e2 != nil {
			log.WithError(e2).Error("CreateOrder: insert order")
			err = models.ErrServerError
			return
		}
		lastId, e3 := res.LastInsertId()
		if e3 != nil {
			log.WithError(e3).Error("CreateOrder: last insert id")
			err = models.ErrServerError
			return
		}
		orderId = int(lastId)
	}

	insertItem := o.db.Rebind("INSERT INTO order_items (order_id, pizza_id, pizza_name, price, quantity) VALUES (?, ?, ?, ?, ?)")
	for _, item := range items {
		_, e = tx.Exec(insertItem, orderId, item.PizzaId, item.PizzaName, item.Price, item.Quantity)
		if e != nil {
			log.WithError(e).Error("CreateOrder: insert order item")
			err = models.ErrServerError
			return
		}
	}

	if e = tx.Commit(); e != nil {
		log.WithError(e).Error("CreateOrder: commit")
		err = models.ErrServerError
		return
	}
	return
}

func (o *OrderRepo) GetOrderById(orderId int) (order entities.Order, err error) {
	var or models.Order_db
	query := o.db.Rebind("SELECT id, customer_name, phone, address, total_price, order_date FROM orders WHERE id = ?")
	err = o.db.Get(&or, query, orderId)
	if err != nil {
		if err == sql.ErrNoRows {
			err = models.ErrNotFoundError
		} else {
			log.WithError(err).Error("GetOrderById")
			err = models.ErrServerError
		}
		return
	}

	var items []models.OrderItem_db
	query = o.db.Rebind("SELECT id, order_id, pizza_id, pizza_name, price, quantity FROM order_items WHERE order_id = ?")
	err = o.db.Select(&items, query, orderId)
	if err != nil {
		log.WithError(err).Error("GetOrderById: items")
		err = models.ErrServerError
		return
	}

	order = entities.Order{
		Id:           or.Id,
		CustomerName: or.CustomerName,
		Phone:        or.Phone,
		Address:      or.Address,
		TotalPrice:   or.TotalPrice,
		OrderDate:    or.OrderDate,
		Items:        make([]entities.OrderLineItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, entities.OrderLineItem{
			PizzaId:   item.PizzaId,
			PizzaName: item.PizzaName,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return
}

func (o *OrderRepo) GetAllOrders(limit int, offset int) (orders []entities.OrderSummary, err error) {
	query := "SELECT id, customer_name, phone, address, total_price, order_date FROM orders ORDER BY order_date DESC, id DESC"
	var rows []models.Order_db
	if limit > 0 {
		err = o.db.Select(&rows, o.db.Rebind(query+" LIMIT ? OFFSET ?"), limit, offset)
	} else {
		err = o.db.Select(&rows, query)
	}
	if err != nil {
		log.WithError(err).Error("GetAllOrders")
		err = models.ErrServerError
		return
	}

	orders = make([]entities.OrderSummary, 0, len(rows))
	for _, or := range rows {
		orders = append(orders, entities.OrderSummary{
			Id:           or.Id,
			CustomerName: or.CustomerName,
			Phone:        or.Phone,
			Address:      or.Address,
			TotalPrice:   or.TotalPrice,
			OrderDate:    or.OrderDate,
		})
	}
	return
}

func (o *OrderRepo) GetOrderCount() (count int, err error) {
	err = o.db.Get(&count, "SELECT COUNT(*) FROM orders")
	if err != nil {
		log.WithError(err).Error("GetOrderCount")
		err = models.ErrServerError
	}
	return
}
