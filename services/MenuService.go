package services

import (
	"pizzaShop/models"
	"pizzaShop/repository"
)

type MenuService struct {
	mr repository.MenuRepository
}

func NewMenuService(menuRepo repository.MenuRepository) MenuService {
	return MenuService{
		mr: menuRepo,
	}
}

// GetAllPizzas lists the catalog. A store fault degrades to an empty menu;
// the repository has already logged it.
func (ms *MenuService) GetAllPizzas() []models.Pizza {
	pizzas, err := ms.mr.GetAllPizzas()
	if err != nil {
		return []models.Pizza{}
	}
	if pizzas == nil {
		pizzas = []models.Pizza{}
	}
	return pizzas
}

// GetPizzaById reports absent both for a missing row and for a store fault.
func (ms *MenuService) GetPizzaById(pizzaId int) (models.Pizza, bool) {
	pizza, exists, err := ms.mr.GetPizzaById(pizzaId)
	if err != nil {
		return models.Pizza{}, false
	}
	return pizza, exists
}
