package models

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the fixed catalog page size; pages = ceil(count / PageSize).
const PageSize = 8

type ProductModel struct {
	C *mongo.Collection
}

// List returns one page of products, optionally filtered by a case-insensitive
// substring match on the name.
func (m *ProductModel) List(ctx context.Context, keyword string, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
	}

	count, err := m.C.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetLimit(PageSize).
		SetSkip(int64(PageSize * (page - 1)))
	cur, err := m.C.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []*Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Page:     page,
		Pages:    pageCount(count, PageSize),
	}, nil
}

func (m *ProductModel) Get(ctx context.Context, id string) (*Product, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var p Product
	err = m.C.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &p, nil
}

// Top returns the n highest-rated products, used by the landing carousel.
func (m *ProductModel) Top(ctx context.Context, n int) ([]*Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(n))
	cur, err := m.C.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []*Product{}
	err = cur.All(ctx, &products)
	return products, err
}

func (m *ProductModel) Insert(ctx context.Context, p *Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}

	res, err := m.C.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ProductInput is the full set of admin-editable product fields.
type ProductInput struct {
	Name         string
	Price        float64
	Description  string
	Image        string
	Brand        string
	Category     string
	CountInStock int
}

func (m *ProductModel) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":           in.Name,
		"price":          in.Price,
		"description":    in.Description,
		"image":          in.Image,
		"brand":          in.Brand,
		"category":       in.Category,
		"count_in_stock": in.CountInStock,
		"updated_at":     time.Now(),
	}}

	var p Product
	err = m.C.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &p, nil
}

func (m *ProductModel) Delete(ctx context.Context, id string) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}

	res, err := m.C.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// AddReview appends a review and recomputes the aggregate rating and review
// count. A second review by the same user is rejected.
func (m *ProductModel) AddReview(ctx context.Context, id string, rev Review) error {
	p, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, existing := range p.Reviews {
		if existing.User == rev.User {
			return ErrDuplicateReview
		}
	}

	rev.ID = primitive.NewObjectID()
	rev.CreatedAt = time.Now()

	reviews := append(p.Reviews, rev)
	rating := MeanRating(reviews)

	_, err = m.C.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{
		"$push": bson.M{"reviews": rev},
		"$set": bson.M{
			"rating":      rating,
			"num_reviews": len(reviews),
			"updated_at":  time.Now(),
		},
	})
	return err
}

// DecrementStock applies a compare-and-swap decrement: the update only matches
// while count_in_stock covers the requested quantity, so two checkouts racing
// for the last unit cannot both succeed.
func (m *ProductModel) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}

	res, err := m.C.UpdateOne(ctx,
		bson.M{"_id": oid, "count_in_stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"count_in_stock": -qty}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing product from a stock shortfall.
		if _, err := m.Get(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock compensates decrements applied before an order failed.
func (m *ProductModel) IncrementStock(ctx context.Context, id string, qty int) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}
	_, err = m.C.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"count_in_stock": qty}},
	)
	return err
}

// MeanRating is the arithmetic mean of all review ratings, zero when there
// are none.
func MeanRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}

func pageCount(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
