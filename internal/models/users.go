package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type UserModel struct {
	C *mongo.Collection
}

// EnsureIndexes creates the unique email index. Duplicate registrations are
// then rejected by the store itself rather than by a racy pre-check.
func (m *UserModel) EnsureIndexes(ctx context.Context) error {
	_, err := m.C.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *UserModel) Insert(ctx context.Context, name, email, password string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}

	res, err := m.C.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (m *UserModel) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := m.C.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return &user, nil
}

func (m *UserModel) Get(ctx context.Context, id string) (*User, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var user User
	err = m.C.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) GetAll(ctx context.Context) ([]*User, error) {
	cur, err := m.C.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*User
	err = cur.All(ctx, &users)
	return users, err
}

// UserUpdate carries the mutable fields of a user. Zero-valued string fields
// are left untouched; IsAdmin only changes when the pointer is non-nil.
type UserUpdate struct {
	Name     string
	Email    string
	Password string
	IsAdmin  *bool
}

func (m *UserModel) Update(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if upd.Name != "" {
		set["name"] = upd.Name
	}
	if upd.Email != "" {
		set["email"] = upd.Email
	}
	if upd.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(upd.Password), 12)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = string(hashed)
	}
	if upd.IsAdmin != nil {
		set["is_admin"] = *upd.IsAdmin
	}
	if len(set) == 0 {
		// An empty $set is a server-side error.
		return m.Get(ctx, id)
	}

	var user User
	err = m.C.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes a user, refusing to remove admin accounts.
func (m *UserModel) Delete(ctx context.Context, id string) error {
	user, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return ErrAdminDelete
	}
	_, err = m.C.DeleteOne(ctx, bson.M{"_id": user.ID})
	return err
}
