package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	vendorIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "vendorId", Value: 1}},
		Options: options.Index().SetName("vendorId_index"),
	}

	log.Println("EnsureProductIndexes: creating vendorId_index")
	_, err := indexes.CreateOne(ctx, vendorIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: vendorId index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: vendorId_index created")
	return nil
}

// EnsureOrderIndexes backs the three role-scoped list queries: customer
// lists by customerId, vendor lists by vendorId + vendorDecision, shipper
// lists by status.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}},
			Options: options.Index().SetName("customerId_index"),
		},
		{
			Keys:    bson.D{{Key: "vendorId", Value: 1}, {Key: "vendorDecision", Value: 1}},
			Options: options.Index().SetName("vendorId_decision_index"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}
