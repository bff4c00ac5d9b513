package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dmitrijs2005/datafaker/internal/repositories/logs"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
)

type MongoStore struct {
	client *mongo.Client
	users  *users.MongoRepository
	logs   *logs.MongoRepository
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client: client,
		users:  users.NewMongoRepository(db),
		logs:   logs.NewMongoRepository(db),
	}
}

func (s *MongoStore) Users() users.Repository {
	return s.users
}

func (s *MongoStore) Logs() logs.Repository {
	return s.logs
}

func (s *MongoStore) Reset(ctx context.Context) error {
	if err := s.logs.DeleteAll(ctx); err != nil {
		return err
	}
	return s.users.DeleteAll(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
