package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

const reportsCollection = "reports"

// Repository archives published reports in MongoDB.
type Repository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:   client,
		dbName:   cfg.DBName,
		collName: reportsCollection,
		logger:   logger,
	}, nil
}

// Publish stores the report as a new document.
func (r *Repository) Publish(ctx context.Context, report models.Report) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	res, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	r.logger.Debug("report archived", zap.Any("id", res.InsertedID))
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
