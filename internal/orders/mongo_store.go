package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

// MongoStore persists orders in the "orders" collection. The version field
// on each document backs the compare-and-swap guard.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Load(ctx context.Context, id primitive.ObjectID) (Order, error) {
	var order Order
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (s *MongoStore) Insert(ctx context.Context, order Order) (Order, error) {
	res, err := s.db.Collection(ordersCollection).InsertOne(ctx, order)
	if err != nil {
		return Order{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return order, nil
}

func (s *MongoStore) CompareAndSwap(ctx context.Context, id primitive.ObjectID, expectedVersion int64, mutated Order) (Order, error) {
	now := time.Now()

	set := bson.M{
		"status":         mutated.Status,
		"vendorDecision": mutated.VendorDecision,
		"updatedAt":      now,
	}
	// Reason fields are write-once; transitions only ever add them.
	if mutated.CancelReason != "" {
		set["cancelReason"] = mutated.CancelReason
	}
	if mutated.VendorRejectReason != "" {
		set["vendorRejectReason"] = mutated.VendorRejectReason
	}

	res, err := s.db.Collection(ordersCollection).UpdateOne(ctx,
		bson.M{"_id": id, "version": expectedVersion},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return Order{}, err
	}
	if res.MatchedCount == 0 {
		// Tell a lost race apart from an unknown id.
		count, err := s.db.Collection(ordersCollection).CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return Order{}, err
		}
		if count == 0 {
			return Order{}, ErrNotFound
		}
		return Order{}, ErrConflict
	}

	mutated.ID = id
	mutated.Version = expectedVersion + 1
	mutated.UpdatedAt = now
	return mutated, nil
}

func (s *MongoStore) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]Order, error) {
	return s.list(ctx, bson.M{"customerId": customerID})
}

func (s *MongoStore) ListByVendor(ctx context.Context, vendorID primitive.ObjectID, includeRejected bool) ([]Order, error) {
	filter := bson.M{"vendorId": vendorID}
	if !includeRejected {
		filter["vendorDecision"] = bson.M{"$ne": DecisionRejected}
	}
	return s.list(ctx, filter)
}

func (s *MongoStore) ListForShipper(ctx context.Context) ([]Order, error) {
	return s.list(ctx, bson.M{"status": StatusActive})
}

func (s *MongoStore) list(ctx context.Context, filter bson.M) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection(ordersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []Order
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
