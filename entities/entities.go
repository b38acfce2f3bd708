package entities

import (
	"time"
)

type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart maps the stringified pizza id to its cart entry. The raw session
// value is untrusted; parse it through cart validation before use.
type Cart map[string]CartItem

type CartResponse struct {
	Cart  Cart    `json:"cart"`
	Total float64 `json:"total"`
}

type OrderLineItem struct {
	PizzaId   int     `json:"pizza_id"`
	PizzaName string  `json:"pizza_name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	Id           int             `json:"id"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	TotalPrice   float64         `json:"total_price"`
	OrderDate    time.Time       `json:"order_date"`
	Items        []OrderLineItem `json:"items"`
}

type OrderSummary struct {
	Id           int       `json:"id"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	TotalPrice   float64   `json:"total_price"`
	OrderDate    time.Time `json:"order_date"`
}

type OrdersPage struct {
	Orders      []OrderSummary `json:"orders"`
	Page        int            `json:"page"`
	PerPage     int            `json:"per_page"`
	TotalOrders int            `json:"total_orders"`
	TotalPages  int            `json:"total_pages"`
	HasPrev     bool           `json:"has_prev"`
	HasNext     bool           `json:"has_next"`
}
