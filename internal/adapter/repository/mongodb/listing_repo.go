package mongodb

import (
	"context"
	"errors"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

type ListingRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		users:      db.Collection("users"),
		logger:     log,
	}
}

// substringMatch is a case-insensitive substring condition. The needle is
// quoted so filter text never acts as a regex.
func substringMatch(needle string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(needle), "$options": "i"}
}

// listingQuery translates the filter into a bson predicate over active
// listings. The city criterion is resolved separately since it lives on the
// owner, not the listing.
func listingQuery(f domain.SearchFilter) bson.M {
	query := bson.M{"is_active": true}

	if f.Make != "" {
		query["make"] = substringMatch(f.Make)
	}
	if f.Model != "" {
		query["model"] = substringMatch(f.Model)
	}
	if f.YearFrom != nil || f.YearTo != nil {
		year := bson.M{}
		if f.YearFrom != nil {
			year["$gte"] = *f.YearFrom
		}
		if f.YearTo != nil {
			year["$lte"] = *f.YearTo
		}
		query["year"] = year
	}
	if f.PriceFrom != nil || f.PriceTo != nil {
		price := bson.M{}
		if f.PriceFrom != nil {
			price["$gte"] = *f.PriceFrom
		}
		if f.PriceTo != nil {
			price["$lte"] = *f.PriceTo
		}
		query["price"] = price
	}
	if f.MaxMileage != nil {
		query["mileage"] = bson.M{"$lte": *f.MaxMileage}
	}
	if f.Fuel != "" {
		query["fuel"] = string(f.Fuel)
	}
	if f.BodyType != "" {
		query["body_type"] = string(f.BodyType)
	}
	if f.Transmission != "" {
		query["transmission"] = string(f.Transmission)
	}
	if f.Color != "" {
		query["color"] = string(f.Color)
	}
	return query
}

var sortKeys = map[domain.SortField]string{
	domain.SortByCreated: "created_at",
	domain.SortByUpdated: "updated_at",
	domain.SortByPrice:   "price",
	domain.SortByYear:    "year",
	domain.SortByMileage: "mileage",
	domain.SortByMake:    "make",
	domain.SortByModel:   "model",
}

// sortDoc renders a SortSpec with _id as tie-breaker so pages are stable.
func sortDoc(s domain.SortSpec) bson.D {
	key, ok := sortKeys[s.Field]
	if !ok {
		key = "created_at"
	}
	dir := 1
	if s.Order == domain.SortDesc {
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}
}

// buildQuery adds the city criterion to listingQuery by resolving the owners
// living in a matching city. No matching owner yields a predicate that
// matches nothing.
func (r *ListingRepository) buildQuery(ctx context.Context, f domain.SearchFilter) (bson.M, error) {
	query := listingQuery(f)
	if f.City == "" {
		return query, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"city": substringMatch(f.City)},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var owners []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &owners); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(owners))
	for _, o := range owners {
		ids = append(ids, o.ID)
	}
	query["owner_id"] = bson.M{"$in": ids}
	return query, nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	_, err := r.collection.InsertOne(ctx, toListingDocument(listing))
	if err != nil {
		r.logger.Error("ListingRepository.Create: InsertOne failed", "listing_id", listing.ID, "error", err.Error())
	}
	return err
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": listing.ID}, toListingDocument(listing))
	if err != nil {
		r.logger.Error("ListingRepository.Update: ReplaceOne failed", "listing_id", listing.ID, "error", err.Error())
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) findOne(ctx context.Context, filter bson.M) (*domain.Listing, error) {
	var doc listingDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ListingRepository) FindActiveByID(ctx context.Context, id string) (*domain.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_active": true})
}

func (r *ListingRepository) findMany(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "is_active": true},
		options.Find().SetSort(sortDoc(domain.DefaultSort())))
}

func (r *ListingRepository) FindAllActive(ctx context.Context) ([]*domain.Listing, error) {
	return r.findMany(ctx, bson.M{"is_active": true},
		options.Find().SetSort(sortDoc(domain.DefaultSort())))
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return r.findMany(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetSort(sortDoc(domain.DefaultSort())))
}

func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.SearchFilter, sortSpec domain.SortSpec) ([]*domain.Listing, error) {
	query, err := r.buildQuery(ctx, filter)
	if err != nil {
		r.logger.Error("ListingRepository.FindByFilter: failed to build query", "error", err.Error())
		return nil, err
	}
	return r.findMany(ctx, query, options.Find().SetSort(sortDoc(sortSpec)))
}

// FindPage counts the full match set and returns one window of it.
func (r *ListingRepository) FindPage(ctx context.Context, filter domain.SearchFilter, sortSpec domain.SortSpec, page domain.PageRequest) ([]*domain.Listing, int64, error) {
	query, err := r.buildQuery(ctx, filter)
	if err != nil {
		r.logger.Error("ListingRepository.FindPage: failed to build query", "error", err.Error())
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	listings, err := r.findMany(ctx, query, options.Find().
		SetSort(sortDoc(sortSpec)).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PageSize)))
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"is_active": true})
}

func (r *ListingRepository) CountActiveByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"is_active": true, "owner_id": ownerID})
}

func (r *ListingRepository) distinctStrings(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

func (r *ListingRepository) DistinctMakes(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "make", bson.M{"is_active": true})
}

func (r *ListingRepository) DistinctModels(ctx context.Context, make string) ([]string, error) {
	filter := bson.M{"is_active": true}
	if make != "" {
		filter["make"] = bson.M{"$regex": "^" + regexp.QuoteMeta(make) + "$", "$options": "i"}
	}
	return r.distinctStrings(ctx, "model", filter)
}

// AveragePrice over active priced listings; zero when there are none.
func (r *ListingRepository) AveragePrice(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"is_active": true, "price": bson.M{"$gt": 0}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$price"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Avg, nil
}

func (r *ListingRepository) groupCounts(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"is_active": true}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var results []struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.Key] = res.Count
	}
	return counts, nil
}

func (r *ListingRepository) CountByMake(ctx context.Context) (map[string]int64, error) {
	return r.groupCounts(ctx, "make")
}

func (r *ListingRepository) CountByBodyType(ctx context.Context) (map[domain.BodyType]int64, error) {
	raw, err := r.groupCounts(ctx, "body_type")
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.BodyType]int64, len(raw))
	for k, v := range raw {
		counts[domain.BodyType(k)] = v
	}
	return counts, nil
}

func (r *ListingRepository) CountByYear(ctx context.Context) (map[int]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"is_active": true}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$year", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var results []struct {
		Year  int   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(results))
	for _, res := range results {
		counts[res.Year] = res.Count
	}
	return counts, nil
}

func (r *ListingRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Listing, error) {
	return r.findMany(ctx, bson.M{"is_active": true}, options.Find().
		SetSort(sortDoc(domain.DefaultSort())).
		SetLimit(int64(limit)))
}
