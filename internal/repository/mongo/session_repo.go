package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires planId")
	}
	if session.WeekNumber < 1 {
		return primitive.NilObjectID, errors.New("session week number must be >= 1")
	}

	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByPlanID retrieves all sessions of a plan ordered by week then position.
func (r *mongoSessionRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Session, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "weekNumber", Value: 1},
		{Key: "orderIndex", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByPlanAndDay retrieves the plan's sessions for one day name, ordered by
// week then position. The today's-session resolver takes the first match.
func (r *mongoSessionRepository) GetByPlanAndDay(ctx context.Context, planID primitive.ObjectID, dayName string) ([]domain.Session, error) {
	filter := bson.M{"planId": planID, "dayName": dayName}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "weekNumber", Value: 1},
		{Key: "orderIndex", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// MaxOrderIndex returns the highest order index in the given week, or 0 when
// the week is empty. Callers use max+1 when appending a day.
func (r *mongoSessionRepository) MaxOrderIndex(ctx context.Context, planID primitive.ObjectID, weekNumber int) (int, error) {
	filter := bson.M{"planId": planID, "weekNumber": weekNumber}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "orderIndex", Value: -1}})

	var session domain.Session
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return session.OrderIndex, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "dayName", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
