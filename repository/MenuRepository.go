package repository

import (
	"database/sql"
	"errors"

	"pizzaShop/models"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

type MenuRepository interface {
	GetAllPizzas() (pizzas []models.Pizza, err error)
	GetPizzaById(id int) (pizza models.Pizza, exists bool, err error)
}

type MenuRepo struct {
	db *sqlx.DB
}

func NewMenuRepository(conn *sqlx.DB) (MenuRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &MenuRepo{
		db: conn,
	}, nil
}

func (m *MenuRepo) GetAllPizzas() (pizzas []models.Pizza, err error) {
	err = m.db.Select(&pizzas, "SELECT id, name, price FROM pizzas")
	if err != nil {
		log.WithError(err).Error("GetAllPizzas")
		err = models.ErrServerError
		return
	}
	return
}

func (m *MenuRepo) GetPizzaById(id int) (pizza models.Pizza, exists bool, err error) {
	query := m.db.Rebind("SELECT id, name, price FROM pizzas WHERE id = ?")
	err = m.db.Get(&pizza, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.WithError(err).Error("GetPizzaById")
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}
