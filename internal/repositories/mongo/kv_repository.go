package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/menusight/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type entry struct {
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// KVRepository keeps one document per (namespace, key).
type KVRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	namespace  string
}

func NewKVRepository(ctx context.Context, uri, database, collection, namespace string) (*KVRepository, error) {
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &KVRepository{client: client, collection: coll, namespace: namespace}, nil
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc entry
	err := r.collection.FindOne(ctx, bson.M{"namespace": r.namespace, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Value), nil
}

func (r *KVRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(entries))
	for key, value := range entries {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"namespace": r.namespace, "key": key}).
			SetUpdate(bson.M{"$set": entry{Namespace: r.namespace, Key: key, Value: string(value), UpdatedAt: now}}).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

func (r *KVRepository) DeleteAll(ctx context.Context, keys []string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"namespace": r.namespace, "key": bson.M{"$in": keys}})
	return err
}

func (r *KVRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
