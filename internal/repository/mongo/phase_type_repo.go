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

const phaseTypeCollectionName = "phase_types"

// mongoPhaseTypeRepository implements repository.PhaseTypeRepository.
type mongoPhaseTypeRepository struct {
	collection *mongo.Collection
}

// NewMongoPhaseTypeRepository creates a new PhaseType repository.
func NewMongoPhaseTypeRepository(db *mongo.Database) repository.PhaseTypeRepository {
	return &mongoPhaseTypeRepository{
		collection: db.Collection(phaseTypeCollectionName),
	}
}

// Create inserts a new phase type.
func (r *mongoPhaseTypeRepository) Create(ctx context.Context, phaseType *domain.PhaseType) (primitive.ObjectID, error) {
	if phaseType.Name == "" {
		return primitive.NilObjectID, errors.New("phase type name is required")
	}

	phaseType.ID = primitive.NewObjectID()
	phaseType.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, phaseType)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted phase type ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single phase type.
func (r *mongoPhaseTypeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PhaseType, error) {
	var phaseType domain.PhaseType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&phaseType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &phaseType, nil
}

// GetAll retrieves every phase type, alphabetically.
func (r *mongoPhaseTypeRepository) GetAll(ctx context.Context) ([]domain.PhaseType, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var phaseTypes []domain.PhaseType
	if err = cursor.All(ctx, &phaseTypes); err != nil {
		return nil, err
	}
	return phaseTypes, nil
}
