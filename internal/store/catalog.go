package store

import (
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

// CatalogStore holds the list of sellable products. The category set is
// always derived from current products, never stored on its own.
type CatalogStore struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewCatalogStore creates the catalog seeded with the given products.
// Seed entries without an id get one assigned.
func NewCatalogStore(seed []models.Product) *CatalogStore {
	products := make([]models.Product, 0, len(seed))
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = util.NextID()
		}
		products = append(products, p.Clone())
	}
	return &CatalogStore{products: products}
}

// Products returns copies of all products in catalog order
func (s *CatalogStore) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// Product looks up a product by id
func (s *CatalogStore) Product(id int64) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Product{}, false
}

// AddProduct appends a product with a fresh unique id and returns it
func (s *CatalogStore) AddProduct(data models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.ID = util.NextID()
	s.products = append(s.products, data.Clone())
	return data
}

// UpdateProduct replaces the product matching the given id, full-record
// replace rather than merge. No-op when the id is absent.
func (s *CatalogStore) UpdateProduct(product models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == product.ID {
			s.products[i] = product.Clone()
			return true
		}
	}
	return false
}

// DeleteProduct removes the product matching the given id
func (s *CatalogStore) DeleteProduct(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateCategory renames the category on every product currently tagged
// with the old name. All matches rename under one lock hold, so no
// partial rename is ever visible. Returns the number renamed.
func (s *CatalogStore) UpdateCategory(oldName, newName string) int {
	if oldName == newName {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	renamed := 0
	for i := range s.products {
		if s.products[i].Category == oldName {
			s.products[i].Category = newName
			renamed++
		}
	}
	return renamed
}

// DeleteCategory removes every product in the category and returns the
// ids removed. Products are not reassigned; the cascade is intentional.
func (s *CatalogStore) DeleteCategory(name string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []int64
	kept := s.products[:0]
	for _, p := range s.products {
		if p.Category == name {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	s.products = kept
	return removed
}

// Categories returns the distinct category values over current products,
// in order of first appearance
func (s *CatalogStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.products))
	var categories []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}
