package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"bikeparts/internal/domain"
	"bikeparts/internal/notify"
	"bikeparts/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
)

var postalCodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// ValidationError reports a rejected checkout field before any write happens
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CountStore persists the last observed order count for edge-triggered
// new-order detection.
type CountStore interface {
	Get(ctx context.Context) (count int, exists bool, err error)
	Set(ctx context.Context, count int) error
}

// EventSink receives order events for fan-out to admin dashboards
type EventSink interface {
	Broadcast(event notify.OrderEvent)
}

// PlaceOrderInput is the checkout payload. The total is taken as computed by
// the client and deliberately not recomputed from the line items; see the
// trust note in DESIGN.md.
type PlaceOrderInput struct {
	Lines         []domain.CartLine
	Total         float64
	PaymentMethod string
	Shipping      domain.ShippingAddress
}

// OrderService defines the interface for the order store, checkout, and the
// admin-driven status lifecycle.
type OrderService interface {
	Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*domain.Order, error)
	List(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]domain.Order, error)
	Refresh(ctx context.Context) error
	Snapshot() []domain.Order
	UpdateStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	CheckNewOrders(ctx context.Context, isAdmin bool) (bool, error)
	NotifyLink(ctx context.Context, orderID uuid.UUID) (string, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	profileRepo repository.ProfileRepository
	countStore  CountStore
	sound       notify.SoundPlayer
	events      EventSink
	linker      *notify.WhatsAppLinker
	logger      *zap.Logger

	mu     sync.RWMutex
	orders []domain.Order
}

// NewOrderService creates a new instance of OrderService. The count store,
// sound player, and event sink may be nil, which disables the corresponding
// side effect.
func NewOrderService(
	orderRepo repository.OrderRepository,
	profileRepo repository.ProfileRepository,
	countStore CountStore,
	sound notify.SoundPlayer,
	events EventSink,
	linker *notify.WhatsAppLinker,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		countStore:  countStore,
		sound:       sound,
		events:      events,
		linker:      linker,
		logger:      logger,
	}
}

// validateShipping rejects a checkout before any write reaches the database
func validateShipping(addr domain.ShippingAddress) error {
	if addr.Name == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if addr.Phone == "" {
		return &ValidationError{Field: "phone", Message: "required"}
	}
	if addr.Address == "" {
		return &ValidationError{Field: "address", Message: "required"}
	}
	if addr.City == "" {
		return &ValidationError{Field: "city", Message: "required"}
	}
	if addr.PostalCode != "" && !postalCodeRe.MatchString(addr.PostalCode) {
		return &ValidationError{Field: "postal_code", Message: "must be exactly 6 digits"}
	}
	return nil
}

// Place persists a new pending order for an authenticated shopper. The saved
// shipping profile is updated best-effort; a profile failure never fails the
// order.
func (s *orderService) Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &domain.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Total:         input.Total,
		Status:        domain.StatusPending,
		PaymentMethod: input.PaymentMethod,
		Shipping:      input.Shipping,
		CreatedAt:     time.Now(),
	}
	for _, line := range input.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.saveProfile(ctx, userID, input.Shipping)

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Order placed but refresh failed", zap.Error(err))
	}

	if s.events != nil {
		s.events.Broadcast(notify.OrderEvent{
			Event:     notify.EventOrderCreated,
			OrderID:   order.ID.String(),
			Status:    order.Status,
			Total:     order.Total,
			Timestamp: order.CreatedAt,
		})
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func (s *orderService) saveProfile(ctx context.Context, userID uuid.UUID, addr domain.ShippingAddress) {
	if s.profileRepo == nil {
		return
	}
	profile := &domain.Profile{
		UserID:     userID,
		Name:       addr.Name,
		Phone:      addr.Phone,
		Address:    addr.Address,
		City:       addr.City,
		PostalCode: addr.PostalCode,
		UpdatedAt:  time.Now(),
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.logger.Warn("Failed to save shipping profile", zap.Error(err))
	}
}

// List returns orders role-aware: operators see the whole collection,
// shoppers only their own.
func (s *orderService) List(ctx context.Context, userID uuid.UUID, isAdmin bool) ([]domain.Order, error) {
	if isAdmin {
		return s.orderRepo.ListAll(ctx)
	}
	if userID == uuid.Nil {
		return nil, ErrAuthRequired
	}
	return s.orderRepo.ListByUser(ctx, userID)
}

// Refresh re-fetches the full order collection. Mutations never patch the
// local store optimistically; this re-fetch is what guarantees
// read-after-write consistency with concurrent admin sessions.
func (s *orderService) Refresh(ctx context.Context) error {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	return nil
}

// Snapshot returns a copy of the last refreshed order collection
func (s *orderService) Snapshot() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// UpdateStatus applies a lifecycle transition. Illegal transitions, including
// any transition out of a terminal state, are rejected without touching the
// database.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	if !to.IsValid() {
		return nil, ErrUnknownStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, to); err != nil {
		return nil, err
	}
	order.Status = to

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Status updated but refresh failed", zap.Error(err))
	}

	if s.events != nil {
		s.events.Broadcast(notify.OrderEvent{
			Event:     notify.EventOrderStatusChanged,
			OrderID:   order.ID.String(),
			Status:    to,
			Total:     order.Total,
			Timestamp: time.Now(),
		})
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(to)),
	)
	return order, nil
}

// Delete permanently removes an order. Not a lifecycle transition and not
// reversible; the transport layer requires operator confirmation.
func (s *orderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Order deleted but refresh failed", zap.Error(err))
	}

	s.logger.Info("Order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// CheckNewOrders compares the current order count against the persisted
// previous count and plays the new-order sound exactly once per observed
// increase, and only for operators. The count is persisted after every
// comparison regardless of outcome, so the first observation establishes a
// baseline without firing, and a shrink followed by a regrow re-triggers.
func (s *orderService) CheckNewOrders(ctx context.Context, isAdmin bool) (bool, error) {
	if s.countStore == nil {
		return false, nil
	}

	count, err := s.orderRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count orders: %w", err)
	}

	prev, hasBaseline, err := s.countStore.Get(ctx)
	if err != nil {
		return false, err
	}

	fired := false
	if hasBaseline && isAdmin && count > prev {
		if s.sound != nil {
			s.sound.Play(notify.NewOrderSound)
		}
		fired = true
		s.logger.Info("New orders detected",
			zap.Int("previous", prev),
			zap.Int("current", count),
		)
	}

	if err := s.countStore.Set(ctx, count); err != nil {
		return fired, err
	}
	return fired, nil
}

// NotifyLink builds the operator-triggered WhatsApp deep link for an order's
// current status. Opening the link is up to the operator.
func (s *orderService) NotifyLink(ctx context.Context, orderID uuid.UUID) (string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return s.linker.StatusLink(order), nil
}
