package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

type FavoriteItemRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFavoriteItemRepository(db *mongo.Database, log *logger.Logger) *FavoriteItemRepository {
	return &FavoriteItemRepository{
		collection: db.Collection("favorite_items"),
		logger:     log,
	}
}

// EnsureIndexes enforces at most one membership per (list, listing) pair.
func (r *FavoriteItemRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "list_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *FavoriteItemRepository) Create(ctx context.Context, item *domain.FavoriteItem) error {
	_, err := r.collection.InsertOne(ctx, toFavoriteItemDocument(item))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("FavoriteItemRepository.Create: already in list", "list_id", item.ListID, "listing_id", item.ListingID)
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("FavoriteItemRepository.Create: InsertOne failed", "list_id", item.ListID, "listing_id", item.ListingID, "error", err.Error())
	}
	return err
}

func (r *FavoriteItemRepository) Delete(ctx context.Context, listID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"list_id": listID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("FavoriteItemRepository.Delete: DeleteOne failed", "list_id", listID, "listing_id", listingID, "error", err.Error())
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteItemRepository) DeleteByList(ctx context.Context, listID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"list_id": listID})
	if err != nil {
		r.logger.Error("FavoriteItemRepository.DeleteByList: DeleteMany failed", "list_id", listID, "error", err.Error())
	}
	return err
}

func (r *FavoriteItemRepository) Find(ctx context.Context, listID, listingID string) (*domain.FavoriteItem, error) {
	var doc favoriteItemDocument
	err := r.collection.FindOne(ctx, bson.M{"list_id": listID, "listing_id": listingID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDomainFavoriteItem(&doc), nil
}

// FindByList returns the list's items newest first.
func (r *FavoriteItemRepository) FindByList(ctx context.Context, listID string) ([]*domain.FavoriteItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"list_id": listID},
		options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []*favoriteItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainFavoriteItems(docs), nil
}

func (r *FavoriteItemRepository) FindListIDsContaining(ctx context.Context, listingID string) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "list_id", bson.M{"listing_id": listingID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

func (r *FavoriteItemRepository) CountByList(ctx context.Context, listID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"list_id": listID})
}

func (r *FavoriteItemRepository) CountByLists(ctx context.Context, listIDs []string) (int64, error) {
	if len(listIDs) == 0 {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"list_id": bson.M{"$in": listIDs}})
}
