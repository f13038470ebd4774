// Package catalog holds the static storefront data: products, delivery
// methods and their required delivery-detail fields. The data ships with
// built-in defaults and can be replaced wholesale from a YAML file.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/handystore/storefront-bot/internal/entity"
)

// Catalog is an immutable snapshot of the storefront configuration.
type Catalog struct {
	products []entity.Product
	methods  []entity.DeliveryMethod
	byID     map[string]entity.Product
	methodID map[string]entity.DeliveryMethod
}

type fileFormat struct {
	Products        []entity.Product        `yaml:"products"`
	DeliveryMethods []entity.DeliveryMethod `yaml:"delivery_methods"`
}

// New builds a Catalog from explicit data, validating invariants.
func New(products []entity.Product, methods []entity.DeliveryMethod) (*Catalog, error) {
	c := &Catalog{
		products: products,
		methods:  methods,
		byID:     make(map[string]entity.Product, len(products)),
		methodID: make(map[string]entity.DeliveryMethod, len(methods)),
	}
	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("product %q: id and name are required", p.ID)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("product %q: price must be positive, got %v", p.ID, p.Price)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = p
	}
	for _, m := range methods {
		if m.ID == "" || m.Name == "" {
			return nil, fmt.Errorf("delivery method %q: id and name are required", m.ID)
		}
		if len(m.Fields) == 0 {
			return nil, fmt.Errorf("delivery method %q: required fields missing", m.ID)
		}
		if _, dup := c.methodID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate delivery method id %q", m.ID)
		}
		c.methodID[m.ID] = m
	}
	return c, nil
}

// Load reads a catalog YAML file. An empty path yields the defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return New(f.Products, f.DeliveryMethods)
}

// Categories returns the distinct product categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ProductsIn returns the products of one category in catalog order.
func (c *Catalog) ProductsIn(category string) []entity.Product {
	var out []entity.Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Product looks a product up by id.
func (c *Catalog) Product(id string) (entity.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// FindInCategory matches a product by display name within one category.
func (c *Catalog) FindInCategory(category, name string) (entity.Product, bool) {
	for _, p := range c.ProductsIn(category) {
		if p.Name == name {
			return p, true
		}
	}
	return entity.Product{}, false
}

// DeliveryMethods returns all delivery methods in declaration order.
func (c *Catalog) DeliveryMethods() []entity.DeliveryMethod {
	return c.methods
}

// DeliveryMethod looks a delivery method up by id.
func (c *Catalog) DeliveryMethod(id string) (entity.DeliveryMethod, bool) {
	m, ok := c.methodID[id]
	return m, ok
}

// DeliveryMethodByName matches a method by its display name.
func (c *Catalog) DeliveryMethodByName(name string) (entity.DeliveryMethod, bool) {
	for _, m := range c.methods {
		if m.Name == name {
			return m, true
		}
	}
	return entity.DeliveryMethod{}, false
}
