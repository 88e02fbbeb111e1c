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

// Mongo implementation
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (m *MongoOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	res, err := m.col.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = id
	}
	return nil
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// ApplyUpdate escribe solo los campos presentes en la transición y devuelve
// el documento ya actualizado.
func (m *MongoOrderRepository) ApplyUpdate(ctx context.Context, id primitive.ObjectID, upd model.OrderUpdate) (*model.Order, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.NotificationSent != nil {
		set["notification_sent"] = *upd.NotificationSent
	}
	if upd.EstimatedDelivery != nil {
		set["estimated_delivery"] = *upd.EstimatedDelivery
	}
	if upd.IsReady != nil {
		set["is_ready"] = *upd.IsReady
	}
	if upd.ReadyAt != nil {
		set["ready_at"] = *upd.ReadyAt
	}
	if upd.IsDelivered != nil {
		set["is_delivered"] = *upd.IsDelivered
	}
	if upd.DeliveredAt != nil {
		set["delivered_at"] = *upd.DeliveredAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var res model.Order
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// FindAllWithUser resuelve el nombre del dueño con $lookup y ordena de la
// más reciente a la más antigua.
func (m *MongoOrderRepository) FindAllWithUser(ctx context.Context) ([]model.OrderWithUser, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user_doc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$addFields", Value: bson.M{"user_name": "$user_doc.name"}}},
		{{Key: "$project", Value: bson.M{"user_doc": 0}}},
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.OrderWithUser
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByUser lista las órdenes del usuario, más recientes primero.
// limit <= 0 significa sin tope.
func (m *MongoOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := m.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

func (m *MongoOrderRepository) CountByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{
		"user":       userID,
		"created_at": bson.M{"$gte": since},
	})
}

func (m *MongoOrderRepository) SalesTotals(ctx context.Context) (model.SalesTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"num_orders":  bson.M{"$sum": 1},
			"total_sales": bson.M{"$sum": "$total_price"},
		}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return model.SalesTotals{}, err
	}
	defer cur.Close(ctx)

	var rows []model.SalesTotals
	if err := cur.All(ctx, &rows); err != nil {
		return model.SalesTotals{}, err
	}
	if len(rows) == 0 {
		// Sin órdenes todavía
		return model.SalesTotals{}, nil
	}
	return rows[0], nil
}

func (m *MongoOrderRepository) OrdersByDay(ctx context.Context) ([]model.DateBucket, error) {
	return m.ordersByDateFormat(ctx, "%Y-%m-%d")
}

func (m *MongoOrderRepository) OrdersByMonth(ctx context.Context) ([]model.DateBucket, error) {
	return m.ordersByDateFormat(ctx, "%Y-%m")
}

func (m *MongoOrderRepository) ordersByDateFormat(ctx context.Context, format string) ([]model.DateBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   format,
				"date":     "$created_at",
				"timezone": model.ReportTimezone,
			}},
			"orders": bson.M{"$sum": 1},
			"sales":  bson.M{"$sum": "$total_price"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.DateBucket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// QuantitySoldByProduct junta cada renglón de orden con su producto y suma
// cantidades, de mayor a menor.
func (m *MongoOrderRepository) QuantitySoldByProduct(ctx context.Context) ([]model.ProductQuantity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$order_items"}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$order_items.product",
			"total_quantity": bson.M{"$sum": "$order_items.quantity"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product_details",
		}}},
		{{Key: "$unwind", Value: "$product_details"}},
		{{Key: "$project", Value: bson.M{
			"_id":            0,
			"product_id":     "$_id",
			"product_name":   "$product_details.name",
			"total_quantity": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"total_quantity": -1}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.ProductQuantity
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrdersPerUserDay: conteo de órdenes por usuario y día calendario dentro de
// la ventana [start, end). Lo comparten los reportes semanal y quincenal.
func (m *MongoOrderRepository) OrdersPerUserDay(ctx context.Context, start, end time.Time) ([]model.UserDayCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"created_at": bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"user": "$user",
				"day": bson.M{"$dateToString": bson.M{
					"format":   "%Y-%m-%d",
					"date":     "$created_at",
					"timezone": model.ReportTimezone,
				}},
			},
			"orders": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":    0,
			"user":   "$_id.user",
			"day":    "$_id.day",
			"orders": 1,
		}}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.UserDayCount
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
