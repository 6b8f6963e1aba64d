package models

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FallbackCatalog is the explicit degraded mode: a small embedded dataset
// served through the same interface as the live catalog when the document
// store is unreachable at startup. Reads work, every mutation fails with
// ErrDegraded. It is a resilience affordance, not a cache.
type FallbackCatalog struct {
	products []*Product
}

func NewFallbackCatalog() *FallbackCatalog {
	return &FallbackCatalog{products: []*Product{
		{
			ID:           mustOID("000000000000000000000001"),
			Name:         "Sample Product 1",
			Image:        "https://picsum.photos/400/300?random=1",
			Description:  "This is a sample product while we connect to the database.",
			Brand:        "Sample Brand",
			Category:     "Electronics",
			Reviews:      []Review{},
			Rating:       4.5,
			NumReviews:   10,
			Price:        99.99,
			CountInStock: 10,
		},
		{
			ID:           mustOID("000000000000000000000002"),
			Name:         "Sample Product 2",
			Image:        "https://picsum.photos/400/300?random=2",
			Description:  "Another sample product for demonstration.",
			Brand:        "Sample Brand",
			Category:     "Electronics",
			Reviews:      []Review{},
			Rating:       4.0,
			NumReviews:   8,
			Price:        79.99,
			CountInStock: 15,
		},
		{
			ID:           mustOID("000000000000000000000003"),
			Name:         "Sample Product 3",
			Image:        "https://picsum.photos/400/300?random=3",
			Description:  "A third sample product for demonstration.",
			Brand:        "Sample Brand",
			Category:     "Electronics",
			Reviews:      []Review{},
			Rating:       4.8,
			NumReviews:   12,
			Price:        149.99,
			CountInStock: 5,
		},
	}}
}

func (c *FallbackCatalog) List(ctx context.Context, keyword string, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	matched := []*Product{}
	for _, p := range c.products {
		if keyword == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) {
			matched = append(matched, p)
		}
	}

	start := PageSize * (page - 1)
	end := start + PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &ProductPage{
		Products: matched[start:end],
		Page:     page,
		Pages:    pageCount(int64(len(matched)), PageSize),
	}, nil
}

func (c *FallbackCatalog) Get(ctx context.Context, id string) (*Product, error) {
	for _, p := range c.products {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, ErrNoRecord
}

func (c *FallbackCatalog) Top(ctx context.Context, n int) ([]*Product, error) {
	top := make([]*Product, len(c.products))
	copy(top, c.products)
	sort.Slice(top, func(i, j int) bool { return top[i].Rating > top[j].Rating })
	if n < len(top) {
		top = top[:n]
	}
	return top, nil
}

func (c *FallbackCatalog) Insert(ctx context.Context, p *Product) error { return ErrDegraded }

func (c *FallbackCatalog) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	return nil, ErrDegraded
}

func (c *FallbackCatalog) Delete(ctx context.Context, id string) error { return ErrDegraded }

func (c *FallbackCatalog) AddReview(ctx context.Context, id string, rev Review) error {
	return ErrDegraded
}

func (c *FallbackCatalog) DecrementStock(ctx context.Context, id string, qty int) error {
	return ErrDegraded
}

func (c *FallbackCatalog) IncrementStock(ctx context.Context, id string, qty int) error {
	return ErrDegraded
}

func mustOID(hex string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return oid
}
