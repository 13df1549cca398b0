package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/autozona/car-service/internal/car/domain"
)

type listingRequest struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Price        float64 `json:"price"`
	Mileage      int     `json:"mileage"`
	Fuel         string  `json:"fuel"`
	Color        string  `json:"color"`
	Transmission string  `json:"transmission"`
	BodyType     string  `json:"body_type"`
	Description  string  `json:"description"`
}

func (r *listingRequest) toDomain(ownerID string) *domain.Listing {
	return &domain.Listing{
		OwnerID:      ownerID,
		Make:         r.Make,
		Model:        r.Model,
		Year:         r.Year,
		Price:        r.Price,
		Mileage:      r.Mileage,
		Fuel:         domain.FuelType(r.Fuel),
		Color:        domain.Color(r.Color),
		Transmission: domain.Transmission(r.Transmission),
		BodyType:     domain.BodyType(r.BodyType),
		Description:  r.Description,
	}
}

type ownerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	City      string `json:"city"`
}

type imageResponse struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	URL          string    `json:"url"`
	Description  string    `json:"description,omitempty"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type listingResponse struct {
	ID           string           `json:"id"`
	OwnerID      string           `json:"owner_id"`
	Make         string           `json:"make"`
	Model        string           `json:"model"`
	Year         int              `json:"year"`
	Price        float64          `json:"price"`
	Mileage      int              `json:"mileage"`
	Fuel         string           `json:"fuel"`
	Color        string           `json:"color"`
	Transmission string           `json:"transmission"`
	BodyType     string           `json:"body_type"`
	Description  string           `json:"description"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Images       []*imageResponse `json:"images,omitempty"`
	Owner        *ownerResponse   `json:"owner,omitempty"`
}

func toImageResponse(img *domain.Image) *imageResponse {
	if img == nil {
		return nil
	}
	return &imageResponse{
		ID:           img.ID,
		ListingID:    img.ListingID,
		URL:          img.URL,
		Description:  img.Description,
		IsPrimary:    img.IsPrimary,
		DisplayOrder: img.DisplayOrder,
		CreatedAt:    img.CreatedAt,
	}
}

func toImageResponses(images []*domain.Image) []*imageResponse {
	out := make([]*imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, toImageResponse(img))
	}
	return out
}

func toListingResponse(l *domain.Listing) *listingResponse {
	if l == nil {
		return nil
	}
	resp := &listingResponse{
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
	if len(l.Images) > 0 {
		resp.Images = toImageResponses(l.Images)
	}
	if l.Owner != nil {
		resp.Owner = &ownerResponse{
			ID:        l.Owner.ID,
			FirstName: l.Owner.FirstName,
			LastName:  l.Owner.LastName,
			City:      l.Owner.City,
		}
	}
	return resp
}

func toListingResponses(listings []*domain.Listing) []*listingResponse {
	out := make([]*listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type favoriteListResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	Items       []favoriteItemResponse `json:"items,omitempty"`
}

type favoriteItemResponse struct {
	ListingID string    `json:"listing_id"`
	AddedAt   time.Time `json:"added_at"`
}

func toFavoriteListResponse(l *domain.FavoriteList) *favoriteListResponse {
	if l == nil {
		return nil
	}
	resp := &favoriteListResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
	for _, item := range l.Items {
		resp.Items = append(resp.Items, favoriteItemResponse{
			ListingID: item.ListingID,
			AddedAt:   item.AddedAt,
		})
	}
	return resp
}

func toFavoriteListResponses(lists []*domain.FavoriteList) []*favoriteListResponse {
	out := make([]*favoriteListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toFavoriteListResponse(l))
	}
	return out
}

// parseSearchFilter reads the optional query criteria. Unparseable numbers
// are ignored rather than rejected.
func parseSearchFilter(c fiber.Ctx) domain.SearchFilter {
	filter := domain.SearchFilter{
		Make:         c.Query("make"),
		Model:        c.Query("model"),
		City:         c.Query("city"),
		Fuel:         domain.FuelType(c.Query("fuel")),
		BodyType:     domain.BodyType(c.Query("body_type")),
		Transmission: domain.Transmission(c.Query("transmission")),
		Color:        domain.Color(c.Query("color")),
	}
	if v, err := strconv.Atoi(c.Query("year_from")); err == nil {
		filter.YearFrom = &v
	}
	if v, err := strconv.Atoi(c.Query("year_to")); err == nil {
		filter.YearTo = &v
	}
	if v, err := strconv.ParseFloat(c.Query("price_from"), 64); err == nil {
		filter.PriceFrom = &v
	}
	if v, err := strconv.ParseFloat(c.Query("price_to"), 64); err == nil {
		filter.PriceTo = &v
	}
	if v, err := strconv.Atoi(c.Query("max_mileage")); err == nil {
		filter.MaxMileage = &v
	}
	return filter
}

// parsePageRequest normalizes the window before it reaches the core, which
// does not correct out-of-range values itself.
func parsePageRequest(c fiber.Ctx) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("page_size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return domain.PageRequest{Page: page, PageSize: size}
}
