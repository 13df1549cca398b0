package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

type FavoriteListRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFavoriteListRepository(db *mongo.Database, log *logger.Logger) *FavoriteListRepository {
	return &FavoriteListRepository{
		collection: db.Collection("favorite_lists"),
		logger:     log,
	}
}

// EnsureIndexes creates the unique (owner, name) index the default-list
// upsert relies on.
func (r *FavoriteListRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *FavoriteListRepository) Create(ctx context.Context, list *domain.FavoriteList) error {
	_, err := r.collection.InsertOne(ctx, toFavoriteListDocument(list))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("FavoriteListRepository.Create: duplicate list name", "owner_id", list.OwnerID, "name", list.Name)
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("FavoriteListRepository.Create: InsertOne failed", "list_id", list.ID, "error", err.Error())
	}
	return err
}

func (r *FavoriteListRepository) Update(ctx context.Context, list *domain.FavoriteList) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": list.ID}, toFavoriteListDocument(list))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("FavoriteListRepository.Update: ReplaceOne failed", "list_id", list.ID, "error", err.Error())
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteListRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("FavoriteListRepository.Delete: DeleteOne failed", "list_id", id, "error", err.Error())
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteListRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.FavoriteList, error) {
	var doc favoriteListDocument
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDomainFavoriteList(&doc), nil
}

func (r *FavoriteListRepository) FindByID(ctx context.Context, id string) (*domain.FavoriteList, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByOwner returns the user's lists oldest first, matching the
// default-list convention that the first created list is the default.
func (r *FavoriteListRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.FavoriteList, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []*favoriteListDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainFavoriteLists(docs), nil
}

func (r *FavoriteListRepository) FindFirstByOwner(ctx context.Context, ownerID string) (*domain.FavoriteList, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

// UpsertByOwnerAndName returns the (owner, name) list, creating it when
// absent. Concurrent callers converge on one document through the unique
// index.
func (r *FavoriteListRepository) UpsertByOwnerAndName(ctx context.Context, ownerID, name, description string) (*domain.FavoriteList, error) {
	filter := bson.M{"owner_id": ownerID, "name": name}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":         uuid.New().String(),
		"owner_id":    ownerID,
		"name":        name,
		"description": description,
		"created_at":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc favoriteListDocument
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		r.logger.Error("FavoriteListRepository.UpsertByOwnerAndName: upsert failed", "owner_id", ownerID, "name", name, "error", err.Error())
		return nil, err
	}
	return toDomainFavoriteList(&doc), nil
}
