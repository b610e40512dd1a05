package mongo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ticketpulse/ticketpulse/pkg/docstore"
)

// Store implements docstore.Store on MongoDB, for deployments that already
// run one. Documents are stored verbatim as JSON blobs keyed by _id, so the
// shared docstore matching rules apply identically across backends.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Config holds MongoDB connection settings
type Config struct {
	// URI such as mongodb://localhost:27017
	URI string

	// Database name
	Database string
}

// document is the persisted shape: the key plus the raw JSON body.
type document struct {
	ID   string           `bson:"_id"`
	Data primitive.Binary `bson:"data"`
}

// New connects to MongoDB and verifies the connection
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Query fetches a collection and applies the shared filter matching on the
// client side. Collections here stay small (one rollup per day, bounded raw
// sets), so this mirrors the scan the other backends do.
func (s *Store) Query(ctx context.Context, col string, req docstore.QueryRequest) ([]docstore.Document, error) {
	cursor, err := s.db.Collection(col).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", col, err)
	}
	defer cursor.Close(ctx)

	var results []docstore.Document
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document in %s: %w", col, err)
		}
		fields, err := docstore.Fields(doc.Data.Data)
		if err != nil {
			continue
		}
		if !docstore.Matches(fields, req.Filters) {
			continue
		}
		results = append(results, docstore.Document{
			Key:  doc.ID,
			Data: append(json.RawMessage(nil), doc.Data.Data...),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", col, err)
	}

	docstore.Order(results, req.OrderBy, req.Descending)

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

// Get fetches a document by key
func (s *Store) Get(ctx context.Context, col, key string) (*docstore.Document, error) {
	var doc document
	err := s.db.Collection(col).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s/%s: %w", col, key, err)
	}
	return &docstore.Document{Key: key, Data: doc.Data.Data}, nil
}

// Put creates or replaces the document under the key
func (s *Store) Put(ctx context.Context, col, key string, data json.RawMessage) error {
	doc := document{ID: key, Data: primitive.Binary{Data: data}}
	_, err := s.db.Collection(col).ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", col, key, err)
	}
	return nil
}

// Delete removes the document under the key
func (s *Store) Delete(ctx context.Context, col, key string) error {
	_, err := s.db.Collection(col).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", col, key, err)
	}
	return nil
}

// Close disconnects from MongoDB
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
