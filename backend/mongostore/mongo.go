// Package mongostore is an expirestore.Backend storing one document per key in
// a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gigaxel/expirestore"
)

const DefaultCollection = "records"

// verify Store implements the backend interface in compile time
var _ expirestore.Backend = (*Store)(nil)

type document struct {
	Key       string     `bson:"_id"`
	Raw       string     `bson:"raw"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
}

type Store struct {
	coll *mongo.Collection
}

func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// Connect dials uri and returns a Store over db.collection. The caller owns the
// returned client.
func Connect(ctx context.Context, uri, db, collection string) (*Store, *mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return New(client.Database(db).Collection(collection)), client, nil
}

// EnsureTTLIndex adds a TTL index on expiresAt so MongoDB deletes expired
// documents in the background. Reads never depend on it.
func (s *Store) EnsureTTLIndex(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", expirestore.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Raw, nil
}

func (s *Store) Set(ctx context.Context, key, raw string, opts expirestore.Options) error {
	expiresAt, err := opts.Expires()
	if err != nil {
		return err
	}
	doc := document{Key: key, Raw: raw}
	if ms, ok := expiresAt.Get(); ok {
		t := time.UnixMilli(ms).UTC()
		doc.ExpiresAt = &t
	}
	_, err = s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) Unset(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: keys}}}})
	return err
}
