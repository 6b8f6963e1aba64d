package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderModel persists checkout snapshots. An order moves through exactly one
// forward path: created (unpaid) -> paid -> delivered.
type OrderModel struct {
	C *mongo.Collection
}

func (m *OrderModel) Insert(ctx context.Context, o *Order) error {
	o.CreatedAt = time.Now()
	if o.OrderItems == nil {
		o.OrderItems = []OrderItem{}
	}

	res, err := m.C.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (m *OrderModel) Get(ctx context.Context, id string) (*Order, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var o Order
	err = m.C.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &o, nil
}

func (m *OrderModel) ByUser(ctx context.Context, userID primitive.ObjectID) ([]*Order, error) {
	cur, err := m.C.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []*Order{}
	err = cur.All(ctx, &orders)
	return orders, err
}

func (m *OrderModel) All(ctx context.Context) ([]*Order, error) {
	cur, err := m.C.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []*Order{}
	err = cur.All(ctx, &orders)
	return orders, err
}

// MarkPaid transitions unpaid -> paid and stores the processor result. The
// processor transaction id is the dedup key: confirming again with the same id
// is a no-op, confirming a paid order with a different id is a conflict.
func (m *OrderModel) MarkPaid(ctx context.Context, id string, pr PaymentResult) (*Order, error) {
	order, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		if order.PaymentResult != nil && order.PaymentResult.ID == pr.ID {
			return order, nil
		}
		return nil, ErrAlreadyPaid
	}

	now := time.Now()
	var updated Order
	err = m.C.FindOneAndUpdate(ctx,
		bson.M{"_id": order.ID, "is_paid": false},
		bson.M{"$set": bson.M{
			"is_paid":        true,
			"paid_at":        now,
			"payment_result": pr,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost a race with another confirmation; re-read and apply the
			// same dedup rule.
			return m.MarkPaid(ctx, id, pr)
		}
		return nil, err
	}
	return &updated, nil
}

// MarkDelivered sets the delivered flag and timestamp. It intentionally does
// not require the order to be paid first; the admin UI is the only guard.
func (m *OrderModel) MarkDelivered(ctx context.Context, id string) (*Order, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var updated Order
	err = m.C.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"is_delivered": true,
			"delivered_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &updated, nil
}
