package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/payments"
)

// The handlers consume these narrow interfaces rather than the concrete Mongo
// models, so tests (and degraded mode) can substitute their own stores.

type userStore interface {
	Insert(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type productStore interface {
	List(ctx context.Context, keyword string, page int) (*models.ProductPage, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Top(ctx context.Context, n int) ([]*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, id string, rev models.Review) error
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}

type orderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
	All(ctx context.Context) ([]*models.Order, error)
	MarkPaid(ctx context.Context, id string, pr models.PaymentResult) (*models.Order, error)
	MarkDelivered(ctx context.Context, id string) (*models.Order, error)
}

type paymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (*payments.Intent, error)
	GetIntent(ctx context.Context, id string) (*payments.Intent, error)
}

// Degraded-mode stand-ins. Catalog reads come from the embedded fallback
// dataset; anything touching users or orders needs the real store and fails
// with ErrDegraded.

type degradedUserStore struct{}

func (degradedUserStore) Insert(context.Context, string, string, string) (*models.User, error) {
	return nil, models.ErrDegraded
}

func (degradedUserStore) Authenticate(context.Context, string, string) (*models.User, error) {
	return nil, models.ErrDegraded
}

func (degradedUserStore) Get(context.Context, string) (*models.User, error) {
	return nil, models.ErrDegraded
}

func (degradedUserStore) GetAll(context.Context) ([]*models.User, error) {
	return nil, models.ErrDegraded
}

func (degradedUserStore) Update(context.Context, string, models.UserUpdate) (*models.User, error) {
	return nil, models.ErrDegraded
}

func (degradedUserStore) Delete(context.Context, string) error { return models.ErrDegraded }

type degradedOrderStore struct{}

func (degradedOrderStore) Insert(context.Context, *models.Order) error { return models.ErrDegraded }

func (degradedOrderStore) Get(context.Context, string) (*models.Order, error) {
	return nil, models.ErrDegraded
}

func (degradedOrderStore) ByUser(context.Context, primitive.ObjectID) ([]*models.Order, error) {
	return nil, models.ErrDegraded
}

func (degradedOrderStore) All(context.Context) ([]*models.Order, error) {
	return nil, models.ErrDegraded
}

func (degradedOrderStore) MarkPaid(context.Context, string, models.PaymentResult) (*models.Order, error) {
	return nil, models.ErrDegraded
}

func (degradedOrderStore) MarkDelivered(context.Context, string) (*models.Order, error) {
	return nil, models.ErrDegraded
}
