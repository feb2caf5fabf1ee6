package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EO-DataHub/eodhp-record-services/internal/appconfig"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no document matches the requested id.
var ErrNotFound = errors.New("record not found")

type RecordDB struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	Timeout    time.Duration
	Log        *zerolog.Logger
}

// NewRecordDB connects to the document store and checks the connection is alive
func NewRecordDB(ctx context.Context, cfg appconfig.DatabaseConfig, log *zerolog.Logger) (*RecordDB, error) {
	if cfg.URI == "" {
		log.Error().Msg("database URI is not set")
		return nil, errors.New("database URI is not set")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Check we are actually connected
	if err := client.Ping(connectCtx, nil); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info().Str("database", cfg.Name).Str("collection", cfg.Collection).Msg("Connected to MongoDB")

	return &RecordDB{
		Client:     client,
		Collection: client.Database(cfg.Name).Collection(cfg.Collection),
		Timeout:    cfg.Timeout,
		Log:        log,
	}, nil
}

func (db *RecordDB) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Client.Disconnect(ctx); err != nil {
		return err
	}
	db.Log.Info().Msg("database connection closed")
	return nil
}

// EnsureIndexes creates the level index used by filtered listings
func (db *RecordDB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	name, err := db.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "level", Value: 1}},
		Options: options.Index().SetName("level_1"),
	})
	if err != nil {
		return fmt.Errorf("error creating level index: %w", err)
	}

	db.Log.Debug().Str("index", name).Msg("Indexes ensured")
	return nil
}

func (db *RecordDB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.Timeout)
}
