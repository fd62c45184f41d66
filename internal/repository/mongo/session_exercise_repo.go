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

const sessionExerciseCollectionName = "session_exercises"

// mongoSessionExerciseRepository implements repository.SessionExerciseRepository.
type mongoSessionExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionExerciseRepository creates a new SessionExercise repository.
func NewMongoSessionExerciseRepository(db *mongo.Database) repository.SessionExerciseRepository {
	return &mongoSessionExerciseRepository{
		collection: db.Collection(sessionExerciseCollectionName),
	}
}

// Create inserts a new prescription.
func (r *mongoSessionExerciseRepository) Create(ctx context.Context, prescription *domain.SessionExercise) (primitive.ObjectID, error) {
	if prescription.SessionID == primitive.NilObjectID || prescription.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("prescription requires sessionId and exerciseId")
	}
	if prescription.Sets < 0 {
		return primitive.NilObjectID, errors.New("prescription sets must be >= 0")
	}

	prescription.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	prescription.CreatedAt = now
	prescription.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, prescription)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted prescription ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single prescription by its ID.
func (r *mongoSessionExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	var prescription domain.SessionExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prescription)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &prescription, nil
}

// GetBySessionID retrieves a session's prescriptions in display order.
func (r *mongoSessionExerciseRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prescriptions []domain.SessionExercise
	if err = cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// GetBySessionIDs retrieves the prescriptions of several sessions at once,
// in display order. Used to build the full routine grid in one query.
func (r *mongoSessionExerciseRepository) GetBySessionIDs(ctx context.Context, sessionIDs []primitive.ObjectID) ([]domain.SessionExercise, error) {
	if len(sessionIDs) == 0 {
		return []domain.SessionExercise{}, nil
	}

	filter := bson.M{"sessionId": bson.M{"$in": sessionIDs}}
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prescriptions []domain.SessionExercise
	if err = cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// MaxOrderIndex returns the highest order index within a session, or 0 when
// the session has no prescriptions yet.
func (r *mongoSessionExerciseRepository) MaxOrderIndex(ctx context.Context, sessionID primitive.ObjectID) (int, error) {
	filter := bson.M{"sessionId": sessionID}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "orderIndex", Value: -1}})

	var prescription domain.SessionExercise
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&prescription)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return prescription.OrderIndex, nil
}

// UpdateTargets mutates only the coach-editable prescription fields. Session,
// exercise and order are fixed once created.
func (r *mongoSessionExerciseRepository) UpdateTargets(ctx context.Context, id primitive.ObjectID, sets int, reps string, rpeTarget float64, restSeconds int, coachNotes string) error {
	update := bson.M{
		"$set": bson.M{
			"sets":        sets,
			"reps":        reps,
			"rpeTarget":   rpeTarget,
			"restSeconds": restSeconds,
			"coachNotes":  coachNotes,
			"updatedAt":   time.Now().UTC(),
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

// Delete removes a prescription outright. Workout logs referencing it are
// left in place.
func (r *mongoSessionExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionExerciseIndexes creates necessary indexes. Call during startup.
func EnsureSessionExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
