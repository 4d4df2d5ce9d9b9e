package transport

import (
	"errors"
	"net/http"

	"bikeparts/internal/domain"
	"bikeparts/internal/middleware"
	"bikeparts/internal/notify"
	"bikeparts/internal/repository"
	"bikeparts/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout payload. The total arrives as the
// client computed it from the cart view.
type CheckoutRequest struct {
	Total         float64         `json:"total" validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Shipping      ShippingPayload `json:"shipping" validate:"required"`
}

// ShippingPayload represents the shipping details in a checkout
type ShippingPayload struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// UpdateStatusRequest represents the admin status-change payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for checkout and the order lifecycle
type OrderHandler struct {
	orderService service.OrderService
	cartService  service.CartService
	hub          *notify.Hub
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, cartService service.CartService, hub *notify.Hub, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartService:  cartService,
		hub:          hub,
		logger:       logger,
	}
}

// RegisterRoutes registers order routes. Checkout and listing need a login;
// lifecycle mutations need an operator.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Checkout)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Patch("/{id}/status", h.UpdateStatus)
			r.Delete("/{id}", h.Delete)
			r.Get("/{id}/notify-link", h.NotifyLink)
			r.Get("/check-new", h.CheckNew)
			r.Get("/events", h.Events)
		})
	})
}

func isAdminRequest(r *http.Request) bool {
	role, ok := middleware.GetUserRole(r.Context())
	return ok && role == "admin"
}

// Checkout places an order from the shopper's current cart. The cart is
// cleared only after the order is persisted.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart := h.cartService.View(userID)

	order, err := h.orderService.Place(r.Context(), userID, service.PlaceOrderInput{
		Lines:         cart.Lines,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Shipping: domain.ShippingAddress{
			Name:       req.Shipping.Name,
			Phone:      req.Shipping.Phone,
			Address:    req.Shipping.Address,
			City:       req.Shipping.City,
			PostalCode: req.Shipping.PostalCode,
		},
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			middleware.RespondWithError(w, http.StatusBadRequest, vErr.Error())
		case err == service.ErrAuthRequired:
			middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		case err == service.ErrEmptyOrder:
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	h.cartService.Clear(userID)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// List returns orders, all of them for operators and only the shopper's own
// otherwise.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.List(r.Context(), userID, isAdminRequest(r))
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// Get returns a single order; shoppers can only read their own
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	orders, err := h.orderService.List(r.Context(), userID, isAdminRequest(r))
	if err != nil {
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	for i := range orders {
		if orders[i].ID == orderID {
			middleware.RespondWithJSON(w, http.StatusOK, orders[i])
			return
		}
	}

	middleware.RespondWithError(w, http.StatusNotFound, "order not found")
}

// UpdateStatus applies an admin lifecycle transition
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case err == service.ErrUnknownStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
		case errors.Is(err, service.ErrInvalidTransition):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case err == repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Delete permanently removes an order
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.orderService.Delete(r.Context(), orderID); err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to delete order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

// NotifyLink returns the WhatsApp deep link for an order's current status
func (h *OrderHandler) NotifyLink(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	link, err := h.orderService.NotifyLink(r.Context(), orderID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to build notify link", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build notify link")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"link": link})
}

// CheckNew compares the order count against the last observation and reports
// whether the new-order sound fired.
func (h *OrderHandler) CheckNew(w http.ResponseWriter, r *http.Request) {
	fired, err := h.orderService.CheckNewOrders(r.Context(), isAdminRequest(r))
	if err != nil {
		h.logger.Error("Failed to check for new orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to check for new orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"new_orders": fired})
}

// Events streams order events to the admin dashboard over SSE
func (h *OrderHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := h.hub.Register(uuid.New().String())
	defer h.hub.Unregister(client.ID)

	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, open := <-client.Events:
			if !open {
				return
			}
			w.Write([]byte("data: "))
			w.Write(payload)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
