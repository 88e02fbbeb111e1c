package repository

import (
	"context"
	"time"

	"samarithanna-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection("users")}
}

func (m *MongoUserRepository) Insert(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	res, err := m.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (m *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var res model.User
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var res model.User
	err := m.col.FindOne(ctx, bson.M{"email": email}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.User
	for cur.Next(ctx) {
		var v model.User
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

// FindByDaysFrequency devuelve los usuarios con esa política de cadencia,
// ordenados por nombre. Incluye usuarios sin órdenes.
func (m *MongoUserRepository) FindByDaysFrequency(ctx context.Context, days int) ([]model.User, error) {
	cur, err := m.col.Find(ctx, bson.M{"days_frequency": days}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.User
	for cur.Next(ctx) {
		var v model.User
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

// Update reemplaza los campos editables del usuario.
func (m *MongoUserRepository) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"name":        u.Name,
		"email":       u.Email,
		"password":    u.Password,
		"user_type":   u.UserType,
		"is_admitted": u.IsAdmitted,
		"updated_at":  u.UpdatedAt,
	}
	unset := bson.M{}
	if u.DaysFrequency > 0 {
		set["days_frequency"] = u.DaysFrequency
	} else {
		unset["days_frequency"] = ""
	}
	if u.MinOrders > 0 {
		set["min_orders"] = u.MinOrders
	} else {
		unset["min_orders"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"_id": u.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{})
}
