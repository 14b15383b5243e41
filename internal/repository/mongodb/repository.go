package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/repository"
)

const connectAttempts = 5

// MongoDBRepository stores ledger records, reads the staff registry and
// descaling samples, and streams change notifications.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB, retrying the initial ping with exponential backoff.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("repo.mongodb")

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			logger.Warn("mongodb ping failed", zap.Error(err))
			return err
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		logger.Warn("index creation failed", zap.Error(err))
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(repository.CollectionLedger).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}, {Key: "worker_name", Value: 1}},
	})
	return err
}

// UpsertLedger fully overwrites the document stored under rec.Key and reports whether it was inserted.
func (r *MongoDBRepository) UpsertLedger(ctx context.Context, rec models.LedgerRecord) (bool, error) {
	collection := r.db.Collection(repository.CollectionLedger)
	res, err := collection.ReplaceOne(ctx, bson.M{"_id": rec.Key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert ledger record %s: %w", rec.Key, err)
	}
	return res.UpsertedCount > 0, nil
}

// GetLedger loads the record stored under key.
func (r *MongoDBRepository) GetLedger(ctx context.Context, key string) (models.LedgerRecord, error) {
	var rec models.LedgerRecord
	err := r.db.Collection(repository.CollectionLedger).FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LedgerRecord{}, fmt.Errorf("ledger %s: %w", key, repository.ErrNotFound)
	}
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("failed to load ledger record %s: %w", key, err)
	}
	return rec, nil
}

// DeleteLedger removes the record stored under key.
func (r *MongoDBRepository) DeleteLedger(ctx context.Context, key string) error {
	res, err := r.db.Collection(repository.CollectionLedger).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete ledger record %s: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("ledger %s: %w", key, repository.ErrNotFound)
	}
	return nil
}

// ListLedger returns the records dated within [from, to].
func (r *MongoDBRepository) ListLedger(ctx context.Context, from, to string) ([]models.LedgerRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(repository.CollectionLedger).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger %s..%s: %w", from, to, err)
	}
	out := make([]models.LedgerRecord, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode ledger records: %w", err)
	}
	return out, nil
}

// ListStaff returns the staff registry in natural order.
func (r *MongoDBRepository) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	cursor, err := r.db.Collection(repository.CollectionStaff).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	var docs []staffDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}

	out := make([]models.StaffMember, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}

// ListSamples returns the descaling samples dated within [from, to]. Empty bounds are open.
func (r *MongoDBRepository) ListSamples(ctx context.Context, from, to string) ([]models.ScalingSample, error) {
	dateFilter := bson.M{}
	if from != "" {
		dateFilter["$gte"] = from
	}
	if to != "" {
		dateFilter["$lte"] = to
	}
	filter := bson.M{}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	cursor, err := r.db.Collection(repository.CollectionSamples).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query scaling samples: %w", err)
	}
	var docs []sampleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode scaling samples: %w", err)
	}

	out := make([]models.ScalingSample, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}

// SaveMonthlyReport saves a monthly yield report to the database.
func (r *MongoDBRepository) SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	_, err := r.db.Collection(repository.CollectionReports).InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert monthly report: %w", err)
	}
	return nil
}

// Watch opens a change stream on collection. The channel receives one signal
// per change and is closed when the stream ends or ctx is done.
func (r *MongoDBRepository) Watch(ctx context.Context, collection string) (<-chan struct{}, error) {
	stream, err := r.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", collection, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Warn("change stream ended", zap.String("collection", collection), zap.Error(err))
		}
	}()
	return ch, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
