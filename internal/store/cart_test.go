package store

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCartIncrementsSameProduct(t *testing.T) {
	cart := NewCartStore()
	p := models.Product{ID: 1, Name: "Sneakers", Price: 12000}

	for i := 0; i < 5; i++ {
		cart.AddToCart(p)
	}

	items := cart.Items()
	require.Len(t, items, 1, "same product id must collapse to one line")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, cart.Count())
}

func TestAddToCartPreservesLineOrder(t *testing.T) {
	cart := NewCartStore()
	a := models.Product{ID: 1, Name: "A", Price: 100}
	b := models.Product{ID: 2, Name: "B", Price: 200}
	c := models.Product{ID: 3, Name: "C", Price: 300}

	cart.AddToCart(a)
	cart.AddToCart(b)
	cart.AddToCart(c)
	cart.AddToCart(a)

	items := cart.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestRemoveFromCartDeletesWholeLine(t *testing.T) {
	cart := NewCartStore()
	p := models.Product{ID: 1, Name: "A", Price: 100}

	cart.AddToCart(p)
	cart.AddToCart(p)
	cart.AddToCart(p)

	// Removal deletes the line, never decrements
	assert.True(t, cart.RemoveFromCart(1))
	assert.Empty(t, cart.Items())
	assert.False(t, cart.RemoveFromCart(1))

	// Re-adding starts over at quantity 1
	cart.AddToCart(p)
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartDerivedTotals(t *testing.T) {
	cart := NewCartStore()

	assert.Zero(t, cart.Count())
	assert.Zero(t, cart.Subtotal())

	cart.AddToCart(models.Product{ID: 1, Price: 12000})
	cart.AddToCart(models.Product{ID: 1, Price: 12000})
	cart.AddToCart(models.Product{ID: 2, Price: 7500})

	assert.Equal(t, 3, cart.Count())
	assert.Equal(t, int64(2*12000+7500), cart.Subtotal())
}

func TestCartItemIsSnapshotNotLiveReference(t *testing.T) {
	catalog := NewCatalogStore(nil)
	p := catalog.AddProduct(models.Product{Name: "Sneakers", Price: 12000, Category: "Shoes"})

	cart := NewCartStore()
	cart.AddToCart(p)

	// Later catalog edits do not reach the cart line
	p.Price = 99999
	p.Name = "Edited"
	require.True(t, catalog.UpdateProduct(p))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Sneakers", items[0].Name)
	assert.Equal(t, int64(12000), items[0].Price)
	assert.Equal(t, int64(12000), cart.Subtotal())
}
