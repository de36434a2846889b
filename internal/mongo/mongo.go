package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const databaseName = "cabs_tracking"

var mongoClient *mongo.Client

// Init connects to MongoDB and sets the global client
func Init(mongoURL string) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB")
	mongoClient = client

	return client
}

// Collection returns a handle to a collection in the tracking database
func Collection(name string) *mongo.Collection {
	return mongoClient.Database(databaseName).Collection(name)
}

// Close disconnects the MongoDB client
func Close() error {
	if mongoClient != nil {
		log.Println("Closing MongoDB connection...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return mongoClient.Disconnect(ctx)
	}
	return nil
}
