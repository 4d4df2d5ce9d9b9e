package service

import (
	"context"
	"errors"
	"sync"

	"bikeparts/internal/domain"
	"bikeparts/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrProductOutOfStock = errors.New("product is out of stock")
)

// CartView is a cart snapshot with derived totals
type CartView struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

// CartService defines the interface for the per-shopper cart store
type CartService interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateQuantity(userID, productID uuid.UUID, quantity int)
	Remove(userID, productID uuid.UUID)
	Clear(userID uuid.UUID)
	View(userID uuid.UUID) CartView
}

type cartService struct {
	productRepo repository.ProductRepository

	mu    sync.Mutex
	carts map[uuid.UUID][]domain.CartLine
}

// NewCartService creates a new instance of CartService
func NewCartService(productRepo repository.ProductRepository) CartService {
	return &cartService{
		productRepo: productRepo,
		carts:       make(map[uuid.UUID][]domain.CartLine),
	}
}

// Add puts a product in the shopper's cart, capturing the current unit price.
// Adding an already-carted product increments its quantity.
func (s *cartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock <= 0 {
		return ErrProductOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			lines[i].UnitPrice = product.Price
			return nil
		}
	}

	s.carts[userID] = append(lines, domain.CartLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
	return nil
}

// UpdateQuantity sets the quantity for a carted product. A quantity of zero
// or less removes the line entirely rather than clamping at one.
func (s *cartService) UpdateQuantity(userID, productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		s.Remove(userID, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes a line from the cart
func (s *cartService) Remove(userID, productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart, called after a successful checkout
func (s *cartService) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// View returns the cart with derived total and item count
func (s *cartService) View(userID uuid.UUID) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	view := CartView{Lines: make([]domain.CartLine, len(lines))}
	copy(view.Lines, lines)

	for _, line := range lines {
		view.Total += line.Subtotal()
		view.ItemCount += line.Quantity
	}
	return view
}
