package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		logger:     log,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("UserRepository.FindByID: FindOne failed", "user_id", id, "error", err.Error())
		return nil, err
	}
	return toDomainUser(&doc), nil
}

func (r *UserRepository) GetEmailByID(ctx context.Context, id string) (string, error) {
	var doc struct {
		Email string `bson:"email"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrNotFound
		}
		r.logger.Error("UserRepository.GetEmailByID: FindOne failed", "user_id", id, "error", err.Error())
		return "", err
	}
	return doc.Email, nil
}
