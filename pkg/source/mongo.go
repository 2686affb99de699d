package source

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/errors"
)

// Mongo serves documents from a MongoDB collection written by the
// extraction backend. Each stored document carries a unique "name" field
// alongside the value-chain fields.
type Mongo struct {
	coll *mongo.Collection
}

// MongoConfig configures the MongoDB source.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// mongoDocument is the stored shape: the document name plus the raw
// value-chain payload.
type mongoDocument struct {
	Name      string                        `bson:"name"`
	RootTopic string                        `bson:"root_topic"`
	Structure *chain.Structure              `bson:"structure"`
	Details   map[string]chain.EntityDetail `bson:"entity_details"`
}

// NewMongo connects to MongoDB and returns a source backed by the
// configured collection. The connection is verified with a ping so
// misconfiguration surfaces at startup rather than on first request.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, func(context.Context) error, error) {
	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeSource, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, errors.Wrap(errors.ErrCodeSource, err, "ping mongodb")
	}
	src := &Mongo{coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	return src, client.Disconnect, nil
}

// List returns the stored documents sorted by name. Only the name and root
// topic are projected; the full payload stays on the server.
func (m *Mongo) List(ctx context.Context) ([]FileInfo, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "root_topic", Value: 1}}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "list documents")
	}
	defer cursor.Close(ctx)

	var files []FileInfo
	for cursor.Next(ctx) {
		var doc struct {
			Name      string `bson:"name"`
			RootTopic string `bson:"root_topic"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "decode listing entry")
		}
		label := doc.RootTopic
		if strings.TrimSpace(label) == "" {
			label = doc.Name
		}
		files = append(files, FileInfo{Name: doc.Name, Label: label})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "iterate listing")
	}
	return files, nil
}

// Load fetches and validates the named document.
func (m *Mongo) Load(ctx context.Context, name string) (*chain.Document, error) {
	var stored mongoDocument
	err := m.coll.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "load %s", name)
	}

	// Missing top-level fields are rejected the same way the JSON decoder
	// rejects them: fail before the transformation ever runs.
	if stored.Structure == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document %q is missing the structure field", name)
	}
	if stored.Details == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document %q is missing the entity_details field", name)
	}

	return chain.NewDocument(stored.RootTopic, *stored.Structure, stored.Details), nil
}

// Ensure Mongo implements Source.
var _ Source = (*Mongo)(nil)
