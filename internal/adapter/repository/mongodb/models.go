package mongodb

import (
	"time"

	"github.com/autozona/car-service/internal/car/domain"
)

// Identities are assigned as UUID strings by the usecase layer, so documents
// keep string _id values instead of ObjectIDs.

type listingDocument struct {
	ID           string    `bson:"_id"`
	OwnerID      string    `bson:"owner_id"`
	Make         string    `bson:"make"`
	Model        string    `bson:"model"`
	Year         int       `bson:"year"`
	Price        float64   `bson:"price"`
	Mileage      int       `bson:"mileage"`
	Fuel         string    `bson:"fuel"`
	Color        string    `bson:"color"`
	Transmission string    `bson:"transmission"`
	BodyType     string    `bson:"body_type"`
	Description  string    `bson:"description"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type imageDocument struct {
	ID           string    `bson:"_id"`
	ListingID    string    `bson:"listing_id"`
	URL          string    `bson:"url"`
	Description  string    `bson:"description"`
	IsPrimary    bool      `bson:"is_primary"`
	DisplayOrder int       `bson:"display_order"`
	CreatedAt    time.Time `bson:"created_at"`
}

type favoriteListDocument struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
}

type favoriteItemDocument struct {
	ID        string    `bson:"_id"`
	ListID    string    `bson:"list_id"`
	ListingID string    `bson:"listing_id"`
	AddedAt   time.Time `bson:"added_at"`
}

type userDocument struct {
	ID        string `bson:"_id"`
	Email     string `bson:"email"`
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	City      string `bson:"city"`
	IsActive  bool   `bson:"is_active"`
}

func toListingDocument(l *domain.Listing) *listingDocument {
	if l == nil {
		return nil
	}
	return &listingDocument{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		Fuel:         string(l.Fuel),
		Color:        string(l.Color),
		Transmission: string(l.Transmission),
		BodyType:     string(l.BodyType),
		Description:  l.Description,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:           d.ID,
		OwnerID:      d.OwnerID,
		Make:         d.Make,
		Model:        d.Model,
		Year:         d.Year,
		Price:        d.Price,
		Mileage:      d.Mileage,
		Fuel:         domain.FuelType(d.Fuel),
		Color:        domain.Color(d.Color),
		Transmission: domain.Transmission(d.Transmission),
		BodyType:     domain.BodyType(d.BodyType),
		Description:  d.Description,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toImageDocument(i *domain.Image) *imageDocument {
	if i == nil {
		return nil
	}
	return &imageDocument{
		ID:           i.ID,
		ListingID:    i.ListingID,
		URL:          i.URL,
		Description:  i.Description,
		IsPrimary:    i.IsPrimary,
		DisplayOrder: i.DisplayOrder,
		CreatedAt:    i.CreatedAt,
	}
}

func toDomainImage(d *imageDocument) *domain.Image {
	if d == nil {
		return nil
	}
	return &domain.Image{
		ID:           d.ID,
		ListingID:    d.ListingID,
		URL:          d.URL,
		Description:  d.Description,
		IsPrimary:    d.IsPrimary,
		DisplayOrder: d.DisplayOrder,
		CreatedAt:    d.CreatedAt,
	}
}

func toDomainImages(docs []*imageDocument) []*domain.Image {
	images := make([]*domain.Image, 0, len(docs))
	for _, doc := range docs {
		images = append(images, toDomainImage(doc))
	}
	return images
}

func toFavoriteListDocument(l *domain.FavoriteList) *favoriteListDocument {
	if l == nil {
		return nil
	}
	return &favoriteListDocument{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}

func toDomainFavoriteList(d *favoriteListDocument) *domain.FavoriteList {
	if d == nil {
		return nil
	}
	return &domain.FavoriteList{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

func toDomainFavoriteLists(docs []*favoriteListDocument) []*domain.FavoriteList {
	lists := make([]*domain.FavoriteList, 0, len(docs))
	for _, doc := range docs {
		lists = append(lists, toDomainFavoriteList(doc))
	}
	return lists
}

func toFavoriteItemDocument(i *domain.FavoriteItem) *favoriteItemDocument {
	if i == nil {
		return nil
	}
	return &favoriteItemDocument{
		ID:        i.ID,
		ListID:    i.ListID,
		ListingID: i.ListingID,
		AddedAt:   i.AddedAt,
	}
}

func toDomainFavoriteItem(d *favoriteItemDocument) *domain.FavoriteItem {
	if d == nil {
		return nil
	}
	return &domain.FavoriteItem{
		ID:        d.ID,
		ListID:    d.ListID,
		ListingID: d.ListingID,
		AddedAt:   d.AddedAt,
	}
}

func toDomainFavoriteItems(docs []*favoriteItemDocument) []*domain.FavoriteItem {
	items := make([]*domain.FavoriteItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toDomainFavoriteItem(doc))
	}
	return items
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:        d.ID,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		City:      d.City,
		IsActive:  d.IsActive,
	}
}
