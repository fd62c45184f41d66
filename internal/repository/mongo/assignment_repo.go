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

const assignmentCollectionName = "coach_students"

// mongoAssignmentRepository implements repository.AssignmentRepository using MongoDB.
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new instance of mongoAssignmentRepository.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new coach-student assignment. The (coachId, studentId)
// pair is unique; re-assigning the same pair is a duplicate.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.CoachStudentAssignment) (primitive.ObjectID, error) {
	if assignment.CoachID == primitive.NilObjectID || assignment.StudentID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires coachId and studentId")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// Delete removes the assignment identified by the coach-student pair.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, coachID, studentID primitive.ObjectID) error {
	filter := bson.M{"coachId": coachID, "studentId": studentID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetAll retrieves every coach-student pair.
func (r *mongoAssignmentRepository) GetAll(ctx context.Context) ([]domain.CoachStudentAssignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.CoachStudentAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetByCoachID retrieves the assignments of one coach.
func (r *mongoAssignmentRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.CoachStudentAssignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.CoachStudentAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Exists reports whether the coach-student pair is assigned.
func (r *mongoAssignmentRepository) Exists(ctx context.Context, coachID, studentID primitive.ObjectID) (bool, error) {
	filter := bson.M{"coachId": coachID, "studentId": studentID}

	err := r.collection.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureAssignmentIndexes creates necessary indexes. Call during startup.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Composite key of the join table.
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "studentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
