package models

import (
	"errors"
	"time"
)

var ErrBadRequest = errors.New("bad request")
var ErrUnautorized = errors.New("unautorized")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")

type Pizza struct {
	Id    int     `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
}

type Order_db struct {
	Id           int       `db:"id"`
	CustomerName string    `db:"customer_name"`
	Phone        string    `db:"phone"`
	Address      string    `db:"address"`
	TotalPrice   float64   `db:"total_price"`
	OrderDate    time.Time `db:"order_date"`
}

type OrderItem_db struct {
	Id        int     `db:"id"`
	OrderId   int     `db:"order_id"`
	PizzaId   int     `db:"pizza_id"`
	PizzaName string  `db:"pizza_name"`
	Price     float64 `db:"price"`
	Quantity  int     `db:"quantity"`
}

type CheckoutData struct {
	CustomerName string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

type ManagerCredentials struct {
	Password string `json:"password"`
}
