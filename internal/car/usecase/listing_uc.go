package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

const featuredListingCount = 6

// ListingUsecase is the search/filter/pagination/sort pipeline over active
// listings plus the listing mutations around it.
type ListingUsecase struct {
	repo      domain.ListingRepository
	imageRepo domain.ImageRepository
	userRepo  domain.UserRepository
	logger    *logger.Logger
}

func NewListingUsecase(repo domain.ListingRepository, imageRepo domain.ImageRepository, userRepo domain.UserRepository, log *logger.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		imageRepo: imageRepo,
		userRepo:  userRepo,
		logger:    log,
	}
}

// Create assigns a fresh identity, stamps both timestamps and forces the
// listing active before persisting.
func (uc *ListingUsecase) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if err := listing.Validate(); err != nil {
		uc.logger.Warn("ListingUsecase.Create: rejected invalid listing", "owner_id", listing.OwnerID)
		return nil, err
	}

	now := time.Now().UTC()
	listing.ID = uuid.New().String()
	listing.IsActive = true
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.Create: failed to create listing", "owner_id", listing.OwnerID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("ListingUsecase.Create: listing created", "listing_id", listing.ID, "owner_id", listing.OwnerID)
	return listing, nil
}

// Update is a full-record overwrite by the owning user. Identity, owner,
// active flag and creation time are carried over from the stored record.
func (uc *ListingUsecase) Update(ctx context.Context, listing *domain.Listing, userID string) (*domain.Listing, error) {
	existing, err := uc.repo.FindActiveByID(ctx, listing.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("ListingUsecase.Update: listing not found", "listing_id", listing.ID)
			return nil, domain.ErrNotFound
		}
		uc.logger.Error("ListingUsecase.Update: failed to load listing", "listing_id", listing.ID, "error", err.Error())
		return nil, err
	}
	if existing.OwnerID != userID {
		uc.logger.Warn("ListingUsecase.Update: access denied",
			"listing_id", listing.ID, "owner_id", existing.OwnerID, "user_id", userID)
		return nil, domain.ErrAccessDenied
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	listing.OwnerID = existing.OwnerID
	listing.IsActive = existing.IsActive
	listing.CreatedAt = existing.CreatedAt
	listing.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.Update: failed to update listing", "listing_id", listing.ID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("ListingUsecase.Update: listing updated", "listing_id", listing.ID)
	return listing, nil
}

// SoftDelete flips the active flag. Returns false when no active listing has
// the id; rows are never physically removed.
func (uc *ListingUsecase) SoftDelete(ctx context.Context, id string) (bool, error) {
	listing, err := uc.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("ListingUsecase.SoftDelete: listing not found", "listing_id", id)
			return false, nil
		}
		uc.logger.Error("ListingUsecase.SoftDelete: failed to load listing", "listing_id", id, "error", err.Error())
		return false, err
	}

	listing.IsActive = false
	listing.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.SoftDelete: failed to update listing", "listing_id", id, "error", err.Error())
		return false, err
	}
	uc.logger.Info("ListingUsecase.SoftDelete: listing deactivated", "listing_id", id)
	return true, nil
}

// GetByID returns one active listing with its images in display order and
// the owner profile attached.
func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		uc.logger.Error("ListingUsecase.GetByID: failed to load listing", "listing_id", id, "error", err.Error())
		return nil, err
	}

	images, err := uc.imageRepo.FindByListing(ctx, id)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetByID: failed to load images", "listing_id", id, "error", err.Error())
		return nil, err
	}
	listing.Images = images

	owner, err := uc.userRepo.FindByID(ctx, listing.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		uc.logger.Error("ListingUsecase.GetByID: failed to load owner", "listing_id", id, "owner_id", listing.OwnerID, "error", err.Error())
		return nil, err
	}
	listing.Owner = owner
	return listing, nil
}

func (uc *ListingUsecase) GetAllActive(ctx context.Context) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindAllActive(ctx)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetAllActive: failed", "error", err.Error())
	}
	return listings, err
}

// GetUserListings is the owner's view: inactive listings included.
func (uc *ListingUsecase) GetUserListings(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetUserListings: failed", "owner_id", ownerID, "error", err.Error())
	}
	return listings, err
}

// Search returns all active listings matching the filter, newest first. An
// empty result is a valid outcome, not an error.
func (uc *ListingUsecase) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByFilter(ctx, filter, domain.DefaultSort())
	if err != nil {
		uc.logger.Error("ListingUsecase.Search: failed", "error", err.Error())
		return nil, err
	}
	return listings, nil
}

// Paginate returns one page of the filtered result set and the total match
// count independent of the window. Unknown sortBy values fall back to
// creation date, unknown sortOrder values to ascending.
func (uc *ListingUsecase) Paginate(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest, sortBy, sortOrder string) ([]*domain.Listing, int64, error) {
	sort := domain.SortSpec{
		Field: domain.ParseSortField(sortBy),
		Order: domain.ParseSortOrder(sortOrder),
	}
	listings, total, err := uc.repo.FindPage(ctx, filter, sort, page)
	if err != nil {
		uc.logger.Error("ListingUsecase.Paginate: failed", "page", page.Page, "page_size", page.PageSize, "error", err.Error())
		return nil, 0, err
	}
	return listings, total, nil
}

// IsOwner reports whether userID owns the active listing with the given id.
func (uc *ListingUsecase) IsOwner(ctx context.Context, id, userID string) (bool, error) {
	listing, err := uc.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return listing.OwnerID == userID, nil
}

func (uc *ListingUsecase) AvailableMakes(ctx context.Context) ([]string, error) {
	return uc.repo.DistinctMakes(ctx)
}

func (uc *ListingUsecase) AvailableModels(ctx context.Context, make string) ([]string, error) {
	return uc.repo.DistinctModels(ctx, make)
}

func (uc *ListingUsecase) CountActive(ctx context.Context) (int64, error) {
	return uc.repo.CountActive(ctx)
}

func (uc *ListingUsecase) CountActiveByOwner(ctx context.Context, ownerID string) (int64, error) {
	return uc.repo.CountActiveByOwner(ctx, ownerID)
}

// AveragePrice over priced active listings; 0 when there are none.
func (uc *ListingUsecase) AveragePrice(ctx context.Context) (float64, error) {
	return uc.repo.AveragePrice(ctx)
}

func (uc *ListingUsecase) MakeStatistics(ctx context.Context) (map[string]int64, error) {
	return uc.repo.CountByMake(ctx)
}

func (uc *ListingUsecase) BodyTypeStatistics(ctx context.Context) (map[domain.BodyType]int64, error) {
	return uc.repo.CountByBodyType(ctx)
}

func (uc *ListingUsecase) YearStatistics(ctx context.Context) (map[int]int64, error) {
	return uc.repo.CountByYear(ctx)
}

func (uc *ListingUsecase) GetRecent(ctx context.Context, limit int) ([]*domain.Listing, error) {
	return uc.repo.FindRecent(ctx, limit)
}

// GetFeatured returns the newest active listings that have at least one
// image, up to the featured section size.
func (uc *ListingUsecase) GetFeatured(ctx context.Context) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindAllActive(ctx)
	if err != nil {
		uc.logger.Error("ListingUsecase.GetFeatured: failed to load listings", "error", err.Error())
		return nil, err
	}

	featured := make([]*domain.Listing, 0, featuredListingCount)
	for _, l := range listings {
		count, err := uc.imageRepo.CountByListing(ctx, l.ID)
		if err != nil {
			uc.logger.Error("ListingUsecase.GetFeatured: failed to count images", "listing_id", l.ID, "error", err.Error())
			return nil, err
		}
		if count == 0 {
			continue
		}
		featured = append(featured, l)
		if len(featured) == featuredListingCount {
			break
		}
	}
	return featured, nil
}
