package domain

import "context"

// Transactor runs fn as a single transaction. Multi-step mutations that
// read-then-write (primary promotion, clear-then-set primary, list cascade,
// default-list creation) go through it so concurrent requests cannot observe
// the intermediate state.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindActiveByID(ctx context.Context, id string) (*Listing, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]*Listing, error)
	FindAllActive(ctx context.Context) ([]*Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	FindByFilter(ctx context.Context, filter SearchFilter, sort SortSpec) ([]*Listing, error)
	FindPage(ctx context.Context, filter SearchFilter, sort SortSpec, page PageRequest) ([]*Listing, int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountActiveByOwner(ctx context.Context, ownerID string) (int64, error)
	DistinctMakes(ctx context.Context) ([]string, error)
	DistinctModels(ctx context.Context, make string) ([]string, error)
	AveragePrice(ctx context.Context) (float64, error)
	CountByMake(ctx context.Context) (map[string]int64, error)
	CountByBodyType(ctx context.Context) (map[BodyType]int64, error)
	CountByYear(ctx context.Context) (map[int]int64, error)
	FindRecent(ctx context.Context, limit int) ([]*Listing, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *Image) error
	CreateMany(ctx context.Context, images []*Image) error
	Update(ctx context.Context, image *Image) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Image, error)
	FindByListing(ctx context.Context, listingID string) ([]*Image, error)
	FindFirstByOrder(ctx context.Context, listingID string) (*Image, error)
	FindPrimary(ctx context.Context, listingID string) (*Image, error)
	ClearPrimaryExcept(ctx context.Context, listingID, imageID string) error
	CountByListing(ctx context.Context, listingID string) (int64, error)
}

type FavoriteListRepository interface {
	Create(ctx context.Context, list *FavoriteList) error
	Update(ctx context.Context, list *FavoriteList) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*FavoriteList, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*FavoriteList, error)
	FindFirstByOwner(ctx context.Context, ownerID string) (*FavoriteList, error)
	UpsertByOwnerAndName(ctx context.Context, ownerID, name, description string) (*FavoriteList, error)
}

type FavoriteItemRepository interface {
	Create(ctx context.Context, item *FavoriteItem) error
	Delete(ctx context.Context, listID, listingID string) error
	DeleteByList(ctx context.Context, listID string) error
	Find(ctx context.Context, listID, listingID string) (*FavoriteItem, error)
	FindByList(ctx context.Context, listID string) ([]*FavoriteItem, error)
	FindListIDsContaining(ctx context.Context, listingID string) ([]string, error)
	CountByList(ctx context.Context, listID string) (int64, error)
	CountByLists(ctx context.Context, listIDs []string) (int64, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	GetEmailByID(ctx context.Context, id string) (string, error)
}
