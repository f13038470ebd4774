package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handystore/storefront-bot/internal/entity"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	cats := c.Categories()
	assert.NotEmpty(t, cats)
	assert.IsIncreasing(t, cats)

	for _, cat := range cats {
		products := c.ProductsIn(cat)
		assert.NotEmpty(t, products)
		for _, p := range products {
			assert.Greater(t, p.Price, 0.0, "product %s", p.ID)
		}
	}

	p, ok := c.Product("airpods_pro_2")
	require.True(t, ok)
	assert.Equal(t, 65.0, p.Price)

	m, ok := c.DeliveryMethod("euro_post")
	require.True(t, ok)
	assert.Contains(t, m.Fields, "Телефон")

	_, ok = c.DeliveryMethodByName(m.Name)
	assert.True(t, ok)
}

func TestNewRejectsInvalidData(t *testing.T) {
	_, err := New([]entity.Product{{ID: "x", Name: "X", Price: 0, Category: "c"}}, defaultDeliveryMethods)
	assert.Error(t, err)

	_, err = New([]entity.Product{
		{ID: "x", Name: "X", Price: 1, Category: "c"},
		{ID: "x", Name: "Y", Price: 2, Category: "c"},
	}, defaultDeliveryMethods)
	assert.Error(t, err)

	_, err = New(defaultProducts, []entity.DeliveryMethod{{ID: "m", Name: "M"}})
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := `
products:
  - id: widget
    name: Widget
    price: 42
    category: Misc
delivery_methods:
  - id: pickup
    name: Pickup
    description: free
    details: none
    fields: [Имя, Телефон]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	p, ok := c.Product("widget")
	require.True(t, ok)
	assert.Equal(t, 42.0, p.Price)
	assert.Equal(t, []string{"Misc"}, c.Categories())
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	_, ok := c.Product("airpods_2")
	assert.True(t, ok)
}
