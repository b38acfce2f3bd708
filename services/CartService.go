package services

import (
	"encoding/json"
	"strconv"

	"pizzaShop/entities"
	"pizzaShop/repository"

	log "github.com/sirupsen/logrus"
)

const cartField = "cart"

// CartService keeps one cart per session. The stored blob is untrusted: it
// can be missing, not an object at all, or hold partially populated entries.
// Every operation goes through parseCart and recovers to a clean state
// instead of failing the request.
type CartService struct {
	sr repository.SessionRepository
}

func NewCartService(sessionRepo repository.SessionRepository) CartService {
	return CartService{
		sr: sessionRepo,
	}
}

// cartProbe mirrors entities.CartItem with pointer fields so a missing key
// is distinguishable from a zero value.
type cartProbe struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

// parseCart converts the raw session blob into a typed cart, dropping every
// corrupt entry. ok is false when the blob itself is not a JSON object, in
// which case the caller must reset the session value.
func parseCart(raw []byte) (cart entities.Cart, dropped int, ok bool) {
	var rawEntries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawEntries); err != nil {
		log.WithError(err).Warn("corrupted cart data detected")
		return
	}

	cart = entities.Cart{}
	for key, rawItem := range rawEntries {
		var probe cartProbe
		if err := json.Unmarshal(rawItem, &probe); err != nil {
			log.WithField("pizzaId", key).Warn("corrupted cart item, skipping")
			dropped++
			continue
		}
		if probe.Name == nil || probe.Price == nil || probe.Quantity == nil || *probe.Quantity < 1 {
			log.WithField("pizzaId", key).Warn("corrupted cart item, skipping")
			dropped++
			continue
		}
		cart[key] = entities.CartItem{
			Name:     *probe.Name,
			Price:    *probe.Price,
			Quantity: *probe.Quantity,
		}
	}
	ok = true
	return
}

func (cs *CartService) persistCart(sessionId string, cart entities.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		log.WithError(err).Error("persistCart: marshal")
		return err
	}
	return cs.sr.SetValue(sessionId, cartField, raw)
}

func (cs *CartService) resetCart(sessionId string) {
	if err := cs.sr.SetValue(sessionId, cartField, []byte("{}")); err != nil {
		log.WithError(err).Error("resetCart")
	}
}

// CreateSession starts a fresh browsing session holding an empty cart.
func (cs *CartService) CreateSession() (sessionId string, err error) {
	sessionId, err = cs.sr.CreateSession()
	if err != nil {
		return
	}
	err = cs.sr.SetValue(sessionId, cartField, []byte("{}"))
	return
}

// AddItem puts a pizza into the cart or bumps its quantity by one when a
// well-formed entry already exists. The stored name and price win over the
// caller's arguments for existing entries. A session store fault resets the
// cart to empty and is returned to the caller.
func (cs *CartService) AddItem(sessionId string, pizzaId int, pizzaName string, price float64) error {
	raw, found, err := cs.sr.GetValue(sessionId, cartField)
	if err != nil {
		cs.resetCart(sessionId)
		return err
	}

	cart := entities.Cart{}
	if found {
		if parsed, _, ok := parseCart(raw); ok {
			cart = parsed
		}
	}

	key := strconv.Itoa(pizzaId)
	if item, exists := cart[key]; exists {
		item.Quantity++
		cart[key] = item
	} else {
		cart[key] = entities.CartItem{
			Name:     pizzaName,
			Price:    price,
			Quantity: 1,
		}
	}

	if err := cs.persistCart(sessionId, cart); err != nil {
		cs.resetCart(sessionId)
		return err
	}
	return nil
}

// GetCart returns the current cart with corrupt entries filtered out. It
// never fails: an unreadable blob or a store fault yields an empty cart and
// resets the stored value.
func (cs *CartService) GetCart(sessionId string) entities.Cart {
	raw, found, err := cs.sr.GetValue(sessionId, cartField)
	if err != nil {
		cs.resetCart(sessionId)
		return entities.Cart{}
	}
	if !found {
		return entities.Cart{}
	}

	cart, dropped, ok := parseCart(raw)
	if !ok {
		cs.resetCart(sessionId)
		return entities.Cart{}
	}
	if dropped > 0 {
		if err := cs.persistCart(sessionId, cart); err != nil {
			cs.resetCart(sessionId)
			return entities.Cart{}
		}
	}
	return cart
}

// GetCartTotal sums price times quantity over the valid entries.
func (cs *CartService) GetCartTotal(sessionId string) float64 {
	total := 0.0
	for _, item := range cs.GetCart(sessionId) {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (cs *CartService) IsEmpty(sessionId string) bool {
	return len(cs.GetCart(sessionId)) == 0
}

// RemoveItem deletes the entry for pizzaId; an absent key is a no-op. A
// store fault here is logged and swallowed so a failing remove never wipes
// the rest of the cart.
func (cs *CartService) RemoveItem(sessionId string, pizzaId int) {
	raw, found, err := cs.sr.GetValue(sessionId, cartField)
	if err != nil {
		log.WithError(err).Error("RemoveItem")
		return
	}
	if !found {
		return
	}

	cart, _, ok := parseCart(raw)
	if !ok {
		cs.resetCart(sessionId)
		return
	}

	key := strconv.Itoa(pizzaId)
	if _, exists := cart[key]; !exists {
		return
	}
	delete(cart, key)

	if err := cs.persistCart(sessionId, cart); err != nil {
		log.WithError(err).Error("RemoveItem: persist")
	}
}

// ClearCart unconditionally resets the cart to an empty mapping.
func (cs *CartService) ClearCart(sessionId string) {
	cs.resetCart(sessionId)
}
