package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"pizzaShop/entities"
	"pizzaShop/models"
	"pizzaShop/services"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const cartCookie = "cartSessionId"
const managerCookie = "sessionId"

type Handler struct {
	ms  services.MenuService
	cs  services.CartService
	ors services.OrderService
	as  services.AuthService
}

type HandlerParams struct {
	MenuService services.MenuService
	CartService services.CartService
	OrdService  services.OrderService
	AuthService services.AuthService
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		ms:  params.MenuService,
		cs:  params.CartService,
		ors: params.OrdService,
		as:  params.AuthService,
	}
}

func (h *Handler) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(h.ErrorHandleMiddleware)
	router.NotFoundHandler = http.HandlerFunc(NotFound)

	subManAuth := router.NewRoute().Subrouter()
	subManAuth.Use(h.ManagerAuthMiddleware)

	router.HandleFunc("/", h.Menu).Methods("GET")
	router.HandleFunc("/add_to_cart/{id:[0-9]+}", h.AddToCart).Methods("POST")
	router.HandleFunc("/cart", h.GetCart).Methods("GET")
	router.HandleFunc("/remove_from_cart/{id:[0-9]+}", h.RemoveFromCart).Methods("POST")
	router.HandleFunc("/checkout", h.Checkout).Methods("GET", "POST")
	router.HandleFunc("/confirmation/{id:[0-9]+}", h.Confirmation).Methods("GET")

	router.HandleFunc("/manager/login", h.ManagerLogin).Methods("POST")
	subManAuth.HandleFunc("/manager/logout", h.ManagerLogout).Methods("POST")
	subManAuth.HandleFunc("/manager/orders", h.ManagerOrders).Methods("GET")
	subManAuth.HandleFunc("/manager/orders/{id:[0-9]+}", h.ManagerOrderDetail).Methods("GET")

	return logMiddleware(router)
}

func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ms.GetAllPizzas())
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pizzaId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	pizza, exists := h.ms.GetPizzaById(pizzaId)
	if !exists {
		log.WithField("pizzaId", pizzaId).Warn("attempt to add invalid pizza id")
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "invalid pizza id"})
		return
	}

	sessionId, ok := h.cartSession(w, r)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "an error occurred while adding to cart"})
		return
	}

	if err := h.cs.AddItem(sessionId, pizza.Id, pizza.Name, pizza.Price); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "an error occurred while adding to cart"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": pizza.Name + " added to cart"})
}

// cartSession returns the browsing session id from the cart cookie, creating
// a fresh session and setting the cookie when none exists yet.
func (h *Handler) cartSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie(cartCookie)
	if err == nil {
		return c.Value, true
	}
	if !errors.Is(err, http.ErrNoCookie) {
		log.WithError(err).Error("cartSession: cookie")
		return "", false
	}
	sessionId, err := h.cs.CreateSession()
	if err != nil {
		log.WithError(err).Error("cartSession: create")
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:    cartCookie,
		Value:   sessionId,
		Path:    "/",
		Expires: time.Now().Add(24 * time.Hour),
	})
	return sessionId, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(cartCookie)
	if err != nil {
		writeJSON(w, http.StatusOK, entities.CartResponse{Cart: entities.Cart{}})
		return
	}
	sessionId := c.Value
	writeJSON(w, http.StatusOK, entities.CartResponse{
		Cart:  h.cs.GetCart(sessionId),
		Total: h.cs.GetCartTotal(sessionId),
	})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pizzaId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if _, exists := h.ms.GetPizzaById(pizzaId); !exists {
		log.WithField("pizzaId", pizzaId).Warn("attempt to remove invalid pizza id")
	}

	if c, err := r.Cookie(cartCookie); err == nil {
		h.cs.RemoveItem(c.Value, pizzaId)
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(cartCookie)
	if err != nil {
		http.Redirect(w, r, "/cart", http.StatusFound)
		return
	}
	sessionId := c.Value

	if r.Method == http.MethodGet {
		if h.cs.IsEmpty(sessionId) {
			log.Info("checkout page accessed with empty cart, redirecting")
			http.Redirect(w, r, "/cart", http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, entities.CartResponse{
			Cart:  h.cs.GetCart(sessionId),
			Total: h.cs.GetCartTotal(sessionId),
		})
		return
	}

	data := models.CheckoutData{
		CustomerName: strings.TrimSpace(r.FormValue("name")),
		Phone:        strings.TrimSpace(r.FormValue("phone")),
		Address:      strings.TrimSpace(r.FormValue("address")),
	}
	if data.CustomerName == "" || data.Phone == "" || data.Address == "" {
		log.Warn("checkout form validation failed: missing required fields")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"cart":  h.cs.GetCart(sessionId),
			"total": h.cs.GetCartTotal(sessionId),
			"error": "all fields are required: name, phone and address",
		})
		return
	}

	cart := h.cs.GetCart(sessionId)
	total := h.cs.GetCartTotal(sessionId)
	if len(cart) == 0 {
		log.Warn("checkout attempted with empty cart")
		http.Redirect(w, r, "/cart", http.StatusFound)
		return
	}

	orderId, err := h.ors.CreateOrder(data.CustomerName, data.Phone, data.Address, cart, total)
	if err != nil {
		log.WithError(err).Error("error processing checkout")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"cart":  h.cs.GetCart(sessionId),
			"total": h.cs.GetCartTotal(sessionId),
			"error": "an error occurred while processing your order, please try again",
		})
		return
	}

	h.cs.ClearCart(sessionId)
	http.Redirect(w, r, "/confirmation/"+strconv.Itoa(orderId), http.StatusFound)
}

func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	order, found := h.ors.GetOrderById(orderId)
	if !found {
		log.WithField("orderId", orderId).Warn("confirmation accessed with invalid order id")
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// manager

func (h *Handler) ManagerLogin(w http.ResponseWriter, r *http.Request) {
	creds := models.ManagerCredentials{}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.WithError(err).Warn("ManagerLogin: decode")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	sessionId, err := h.as.Login(creds.Password)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    managerCookie,
		Value:   sessionId,
		Path:    "/",
		Expires: time.Now().Add(24 * time.Hour),
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ManagerLogout(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie(managerCookie)
	if err := h.as.Logout(c.Value); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    managerCookie,
		Value:   "",
		Path:    "/",
		Expires: time.Now(),
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ManagerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId, err := r.Cookie(managerCookie)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ok, err := h.as.CheckAccess(sessionId.Value)
		if !ok {
			if err != nil {
				log.WithError(err).Error("CheckAccess")
				http.Error(w, "server error", http.StatusInternalServerError)
			} else {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ManagerOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	offset := (page - 1) * perPage

	orders := h.ors.GetAllOrders(perPage, offset)
	totalOrders := h.ors.GetOrderCount()
	totalPages := (totalOrders + perPage - 1) / perPage

	writeJSON(w, http.StatusOK, entities.OrdersPage{
		Orders:      orders,
		Page:        page,
		PerPage:     perPage,
		TotalOrders: totalOrders,
		TotalPages:  totalPages,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
	})
}

func (h *Handler) ManagerOrderDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderId, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	order, found := h.ors.GetOrderById(orderId)
	if !found {
		log.WithField("orderId", orderId).Warn("manager accessed non-existent order id")
		WriteErrorResponse(w, models.ErrNotFoundError)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func queryInt(r *http.Request, name string, def int) int {
	val, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || val < 1 {
		return def
	}
	return val
}

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("stacktrace", string(debug.Stack())).Errorf("panic occured: %v", rec)
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	log.WithField("url", r.URL.String()).Warn("page not found")
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.WithError(err).Error("writeJSON: marshal")
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrServerError):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, models.ErrUnautorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, err.Error(), http.StatusNotAcceptable)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
