package db // import "github.com/tetherhq/tether-read/store/db"

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/log"
)

const booksCollection = "books"

// DB wraps the record-store connection. The process owns exactly one
// handle, initialized at most once; a bare "connected" boolean is not a
// substitute for an init guard.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

var (
	connectOnce sync.Once
	shared      *DB
	connectErr  error
)

// NewDB returns the process-wide connection handle, dialing on first use.
// Subsequent calls return the same handle.
func NewDB(ctx context.Context) (*DB, error) {
	connectOnce.Do(func() {
		if config.Opts.MongoURI == "" {
			connectErr = errors.New("record store URI is required")
			return
		}

		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(config.Opts.MongoURI))
		if err != nil {
			connectErr = errors.Wrap(err, "failed to connect to record store")
			return
		}
		if err := client.Ping(dialCtx, nil); err != nil {
			connectErr = errors.Wrap(err, "failed to ping record store")
			return
		}

		shared = &DB{
			client:   client,
			database: client.Database(config.Opts.MongoDatabase),
		}
		log.Info("Connected to record store", zap.String("database", config.Opts.MongoDatabase))
	})
	return shared, connectErr
}

func (d *DB) Books() *mongo.Collection {
	return d.database.Collection(booksCollection)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the owner-scoped listing index. Safe to run on
// every startup.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.Books().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "title", Value: 1}},
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to ensure indexes")
	}
	return nil
}
