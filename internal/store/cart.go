package store

import (
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

// CartStore holds the selected items with quantities. Items carry a
// snapshot of the product taken when it was first added; later catalog
// edits do not retroactively change lines already in the cart.
type CartStore struct {
	mu    sync.RWMutex
	items []models.CartItem
}

// NewCartStore creates an empty cart
func NewCartStore() *CartStore {
	return &CartStore{}
}

// AddToCart increments the quantity of an existing line for the product
// id, preserving line order; otherwise it appends a quantity-1 line
// holding a copy of the product.
func (s *CartStore) AddToCart(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	util.CartAddsTotal.Inc()

	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity++
			return
		}
	}

	s.items = append(s.items, models.CartItem{
		Product:  product.Clone(),
		Quantity: 1,
	})
}

// RemoveFromCart deletes the whole line for the product id, regardless
// of quantity. No-op when the id is absent.
func (s *CartStore) RemoveFromCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			util.CartRemovalsTotal.Inc()
			return true
		}
	}
	return false
}

// Items returns deep copies of the current cart lines in order
func (s *CartStore) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CartItem, len(s.items))
	for i, item := range s.items {
		out[i] = models.CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}

// Count returns the sum of quantities; 0 on an empty cart
func (s *CartStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price times quantity over all lines;
// 0 on an empty cart
func (s *CartStore) Subtotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subtotal int64
	for _, item := range s.items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}
