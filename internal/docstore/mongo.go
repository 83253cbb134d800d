package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store against a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*Mongo)(nil)

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	return &Mongo{client: client, db: client.Database(database)}, nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) FetchCollection(ctx context.Context, name string) ([]Record, error) {
	cur, err := m.db.Collection(name).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", name, err)
	}
	defer cur.Close(ctx)

	return decodeRecords(ctx, cur, name)
}

func (m *Mongo) FetchDocument(ctx context.Context, collection, id string) (Record, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document %s/%s: %w", collection, id, err)
	}
	return Record(raw), nil
}

func (m *Mongo) FindByField(ctx context.Context, collection, field string, value any) ([]Record, error) {
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, fmt.Errorf("querying %s by %s: %w", collection, field, err)
	}
	defer cur.Close(ctx)

	return decodeRecords(ctx, cur, collection)
}

func (m *Mongo) InsertDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting into %s: %w", collection, err)
	}
	return nil
}

func (m *Mongo) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := m.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeRecords(ctx context.Context, cur *mongo.Cursor, name string) ([]Record, error) {
	var records []Record
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding document from %s: %w", name, err)
		}
		// Documents created by other tooling may carry ObjectID ids.
		if oid, ok := raw["_id"].(primitive.ObjectID); ok {
			raw["_id"] = oid.Hex()
		}
		records = append(records, Record(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", name, err)
	}
	return records, nil
}
