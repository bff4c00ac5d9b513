package logs

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dmitrijs2005/datafaker/internal/models"
)

// CollectionName is the MongoDB collection holding activity logs.
const CollectionName = "Logs"

type logDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  primitive.ObjectID `bson:"userId"`
	Event   string             `bson:"event"`
	Success bool               `bson:"success"`
	Date    time.Time          `bson:"date"`
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, log *models.Log) (*models.Log, error) {
	userID, err := primitive.ObjectIDFromHex(log.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", log.UserID, err)
	}

	res, err := r.coll.InsertOne(ctx, logDocument{
		UserID:  userID,
		Event:   string(log.Event),
		Success: log.Success,
		Date:    log.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("db error: unexpected id type %T", res.InsertedID)
	}
	log.ID = id.Hex()

	return log, nil
}
