package services

import (
	"strconv"

	"pizzaShop/entities"
	"pizzaShop/models"
	"pizzaShop/repository"

	log "github.com/sirupsen/logrus"
)

type OrderService struct {
	or repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return OrderService{
		or: orderRepo,
	}
}

// CreateOrder snapshots the cart into a durable order. Names and prices are
// copied as they are in the cart, so later catalog edits never touch placed
// orders. This is the one path that surfaces store faults: the caller must
// not clear the cart unless the order actually persisted.
func (ors *OrderService) CreateOrder(customerName, phone, address string, cart entities.Cart, total float64) (orderId int, err error) {
	items := make([]models.OrderItem_db, 0, len(cart))
	for key, item := range cart {
		pizzaId, e := strconv.Atoi(key)
		if e != nil {
			log.WithField("key", key).Error("CreateOrder: non-numeric cart key")
			err = models.ErrBadRequest
			return
		}
		items = append(items, models.OrderItem_db{
			PizzaId:   pizzaId,
			PizzaName: item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	order := models.Order_db{
		CustomerName: customerName,
		Phone:        phone,
		Address:      address,
		TotalPrice:   total,
	}
	orderId, err = ors.or.CreateOrder(order, items)
	return
}

// GetOrderById reports absent for a missing order and for a store fault
// alike; the repository logs the latter.
func (ors *OrderService) GetOrderById(orderId int) (entities.Order, bool) {
	order, err := ors.or.GetOrderById(orderId)
	if err != nil {
		return entities.Order{}, false
	}
	return order, true
}

// GetAllOrders pages through orders newest first. limit <= 0 returns all
// rows; faults degrade to an empty list.
func (ors *OrderService) GetAllOrders(limit int, offset int) []entities.OrderSummary {
	orders, err := ors.or.GetAllOrders(limit, offset)
	if err != nil {
		return []entities.OrderSummary{}
	}
	return orders
}

func (ors *OrderService) GetOrderCount() int {
	count, err := ors.or.GetOrderCount()
	if err != nil {
		return 0
	}
	return count
}
