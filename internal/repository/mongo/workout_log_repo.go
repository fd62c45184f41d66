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

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository.
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// CreateMany inserts one submission's set rows in a single call. The service
// layer has already dropped empty sets and validated the batch, so an empty
// slice here is a programming error.
func (r *mongoWorkoutLogRepository) CreateMany(ctx context.Context, logs []domain.WorkoutLog) error {
	if len(logs) == 0 {
		return errors.New("no workout logs to insert")
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(logs))
	for i := range logs {
		logs[i].ID = primitive.NewObjectID()
		logs[i].CreatedAt = now
		docs[i] = logs[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single logged set by its ID.
func (r *mongoWorkoutLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetBySessionExerciseAndStudent retrieves one student's logged sets for a
// prescription, in set order then submission order.
func (r *mongoWorkoutLogRepository) GetBySessionExerciseAndStudent(ctx context.Context, sessionExerciseID, studentID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	filter := bson.M{"sessionExerciseId": sessionExerciseID, "studentId": studentID}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "setNumber", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.WorkoutLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetByStudentID retrieves every logged set of one student, newest first.
func (r *mongoWorkoutLogRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"studentId": studentID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.WorkoutLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// SetFeedback writes the coach's feedback and validation flag on one set.
func (r *mongoWorkoutLogRepository) SetFeedback(ctx context.Context, id primitive.ObjectID, feedback string, validated bool) error {
	update := bson.M{
		"$set": bson.M{
			"coachFeedback": feedback,
			"isValidated":   validated,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionExerciseId", Value: 1}, {Key: "studentId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
