// Package mongo provides a MongoDB-backed implementation of the storage.Store interface.
//
// Users live in the "users" collection. Tasks live in the "tasks" collection and
// reference their owner through user_id, which stands in for a per-user sub-collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/todolist/internal/models"
	"github.com/mmynk/todolist/internal/storage"
)

// Ensure MongoStore implements storage.Store
var _ storage.Store = (*MongoStore)(nil)

const connectTimeout = 10 * time.Second

// MongoStore implements storage.Store using MongoDB.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Address   string             `bson:"address"`
	CreatedAt int64              `bson:"created_at"`
}

type taskDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id"`
	Label           string             `bson:"label"`
	Item            string             `bson:"item"`
	FullDescription string             `bson:"fullDescription"`
}

// New connects to MongoDB at uri and uses the given database.
// The connection is verified with a ping before returning.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client: client,
		users:  db.Collection(storage.UsersCollection),
		tasks:  db.Collection(storage.TasksCollection),
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	if _, err := s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// CreateUser inserts a new user document.
func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	doc := userDocument{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		Name:      user.Name,
		Phone:     user.Phone,
		Address:   user.Address,
		CreatedAt: user.CreatedAt,
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}

	return nil
}

// FindUsersByUsername retrieves every user with the given username.
func (s *MongoStore) FindUsersByUsername(ctx context.Context, username string) ([]*models.User, error) {
	return s.findUsers(ctx, bson.D{{Key: "username", Value: username}})
}

// FindUsersByCredentials retrieves every user with the given username and password.
func (s *MongoStore) FindUsersByCredentials(ctx context.Context, username, password string) ([]*models.User, error) {
	return s.findUsers(ctx, bson.D{
		{Key: "username", Value: username},
		{Key: "password", Value: password},
	})
}

func (s *MongoStore) findUsers(ctx context.Context, filter bson.D) ([]*models.User, error) {
	cursor, err := s.users.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, &models.User{
			ID:        d.ID.Hex(),
			Username:  d.Username,
			Email:     d.Email,
			Password:  d.Password,
			Name:      d.Name,
			Phone:     d.Phone,
			Address:   d.Address,
			CreatedAt: d.CreatedAt,
		})
	}
	return users, nil
}

// ListTasks returns all tasks of a user ordered by _id.
func (s *MongoStore) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return s.findTasks(ctx, bson.D{{Key: "user_id", Value: owner}})
}

// AddTask inserts a task under the given user.
func (s *MongoStore) AddTask(ctx context.Context, userID string, task *models.Task) error {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	res, err := s.tasks.InsertOne(ctx, taskDocument{
		UserID:          owner,
		Label:           task.Label,
		Item:            task.Item,
		FullDescription: task.FullDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}

	return nil
}

// FindTasks returns the user's tasks matching the triple of match exactly.
func (s *MongoStore) FindTasks(ctx context.Context, userID string, match models.Task) ([]models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return s.findTasks(ctx, bson.D{
		{Key: "user_id", Value: owner},
		{Key: "label", Value: match.Label},
		{Key: "item", Value: match.Item},
		{Key: "fullDescription", Value: match.FullDescription},
	})
}

// UpdateTask overwrites the triple of one task.
func (s *MongoStore) UpdateTask(ctx context.Context, userID, taskID string, fields models.Task) error {
	filter, err := taskFilter(userID, taskID)
	if err != nil {
		return err
	}

	res, err := s.tasks.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: bson.D{
		{Key: "label", Value: fields.Label},
		{Key: "item", Value: fields.Item},
		{Key: "fullDescription", Value: fields.FullDescription},
	}}})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTask removes one task.
func (s *MongoStore) DeleteTask(ctx context.Context, userID, taskID string) error {
	filter, err := taskFilter(userID, taskID)
	if err != nil {
		return err
	}

	res, err := s.tasks.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) findTasks(ctx context.Context, filter bson.D) ([]models.Task, error) {
	cursor, err := s.tasks.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, models.Task{
			ID:              d.ID.Hex(),
			Label:           d.Label,
			Item:            d.Item,
			FullDescription: d.FullDescription,
		})
	}
	return tasks, nil
}

// taskFilter builds the (_id, user_id) filter. Malformed IDs cannot name an
// existing document, so they are reported as ErrNotFound.
func taskFilter(userID, taskID string) (bson.D, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
	}
	return bson.D{{Key: "_id", Value: id}, {Key: "user_id", Value: owner}}, nil
}
