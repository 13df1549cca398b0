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

type ImageRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewImageRepository(db *mongo.Database, log *logger.Logger) *ImageRepository {
	return &ImageRepository{
		collection: db.Collection("listing_images"),
		logger:     log,
	}
}

// EnsureIndexes backs the per-listing order and primary lookups.
func (r *ImageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "display_order", Value: 1}}},
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "is_primary", Value: 1}}},
	})
	return err
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) error {
	_, err := r.collection.InsertOne(ctx, toImageDocument(image))
	if err != nil {
		r.logger.Error("ImageRepository.Create: InsertOne failed", "image_id", image.ID, "error", err.Error())
	}
	return err
}

func (r *ImageRepository) CreateMany(ctx context.Context, images []*domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(images))
	for _, img := range images {
		docs = append(docs, toImageDocument(img))
	}
	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		r.logger.Error("ImageRepository.CreateMany: InsertMany failed", "count", len(images), "error", err.Error())
	}
	return err
}

func (r *ImageRepository) Update(ctx context.Context, image *domain.Image) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": image.ID}, toImageDocument(image))
	if err != nil {
		r.logger.Error("ImageRepository.Update: ReplaceOne failed", "image_id", image.ID, "error", err.Error())
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("ImageRepository.Delete: DeleteOne failed", "image_id", id, "error", err.Error())
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ImageRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Image, error) {
	var doc imageDocument
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDomainImage(&doc), nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.Image, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByListing returns the listing's images in display order.
func (r *ImageRepository) FindByListing(ctx context.Context, listingID string) ([]*domain.Image, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID},
		options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []*imageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainImages(docs), nil
}

// FindFirstByOrder is the image with the lowest display order.
func (r *ImageRepository) FindFirstByOrder(ctx context.Context, listingID string) (*domain.Image, error) {
	return r.findOne(ctx, bson.M{"listing_id": listingID},
		options.FindOne().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: 1}}))
}

func (r *ImageRepository) FindPrimary(ctx context.Context, listingID string) (*domain.Image, error) {
	return r.findOne(ctx, bson.M{"listing_id": listingID, "is_primary": true})
}

// ClearPrimaryExcept drops the primary flag on every image of the listing
// except the given one.
func (r *ImageRepository) ClearPrimaryExcept(ctx context.Context, listingID, imageID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"listing_id": listingID, "_id": bson.M{"$ne": imageID}},
		bson.M{"$set": bson.M{"is_primary": false}})
	if err != nil {
		r.logger.Error("ImageRepository.ClearPrimaryExcept: UpdateMany failed", "listing_id", listingID, "error", err.Error())
	}
	return err
}

func (r *ImageRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"listing_id": listingID})
}
