package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

// Storage uploads photo bytes and returns the public URL.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// ReorderPolicy controls how Reorder validates the id list. Strict requires
// an exact permutation of the listing's images; partial only requires that
// every given id belongs to the listing, leaving omitted images at their old
// display order.
type ReorderPolicy string

const (
	ReorderStrict  ReorderPolicy = "strict"
	ReorderPartial ReorderPolicy = "partial"
)

func ParseReorderPolicy(s string) ReorderPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(ReorderPartial)) {
		return ReorderPartial
	}
	return ReorderStrict
}

// ImageInput is one photo of a batch upload.
type ImageInput struct {
	URL         string
	Description string
}

// ImageUsecase maintains a listing's photo set: display order and the
// exactly-one-primary invariant.
type ImageUsecase struct {
	imageRepo   domain.ImageRepository
	listingRepo domain.ListingRepository
	storage     Storage
	tx          domain.Transactor
	policy      ReorderPolicy
	logger      *logger.Logger
}

func NewImageUsecase(imageRepo domain.ImageRepository, listingRepo domain.ListingRepository, storage Storage, tx domain.Transactor, policy ReorderPolicy, log *logger.Logger) *ImageUsecase {
	return &ImageUsecase{
		imageRepo:   imageRepo,
		listingRepo: listingRepo,
		storage:     storage,
		tx:          tx,
		policy:      policy,
		logger:      log,
	}
}

// ownsActiveListing reports whether userID owns an active listing with the
// given id. Absence and foreign ownership are deliberately indistinguishable.
func (uc *ImageUsecase) ownsActiveListing(ctx context.Context, listingID, userID string) (bool, error) {
	listing, err := uc.listingRepo.FindActiveByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return listing.OwnerID == userID, nil
}

// listingOwner resolves the owner of an image transitively through its
// listing, regardless of the listing's active flag: a deactivated listing
// keeps its images.
func (uc *ImageUsecase) listingOwner(ctx context.Context, image *domain.Image) (string, error) {
	listing, err := uc.listingRepo.FindByID(ctx, image.ListingID)
	if err != nil {
		return "", err
	}
	return listing.OwnerID, nil
}

// UploadPhoto stores the photo bytes and attaches the resulting URL to the
// listing as a new image.
func (uc *ImageUsecase) UploadPhoto(ctx context.Context, listingID, userID, fileName string, data []byte, description string) (*domain.Image, error) {
	ok, err := uc.ownsActiveListing(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.logger.Warn("ImageUsecase.UploadPhoto: listing not found or access denied", "listing_id", listingID, "user_id", userID)
		return nil, domain.ErrAccessDenied
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("ImageUsecase.UploadPhoto: storage upload failed", "listing_id", listingID, "error", err.Error())
		return nil, err
	}
	return uc.Add(ctx, listingID, url, description, userID)
}

// Add appends an image: display order is the current image count, and the
// first image of a listing becomes primary.
func (uc *ImageUsecase) Add(ctx context.Context, listingID, url, description, userID string) (*domain.Image, error) {
	ok, err := uc.ownsActiveListing(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.logger.Warn("ImageUsecase.Add: listing not found or access denied", "listing_id", listingID, "user_id", userID)
		return nil, domain.ErrAccessDenied
	}

	count, err := uc.imageRepo.CountByListing(ctx, listingID)
	if err != nil {
		uc.logger.Error("ImageUsecase.Add: failed to count images", "listing_id", listingID, "error", err.Error())
		return nil, err
	}

	image := &domain.Image{
		ID:           uuid.New().String(),
		ListingID:    listingID,
		URL:          url,
		Description:  description,
		IsPrimary:    count == 0,
		DisplayOrder: int(count),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.imageRepo.Create(ctx, image); err != nil {
		uc.logger.Error("ImageUsecase.Add: failed to create image", "listing_id", listingID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("ImageUsecase.Add: image added", "image_id", image.ID, "listing_id", listingID, "display_order", image.DisplayOrder)
	return image, nil
}

// AddBatch appends several images with one ownership check. Display orders
// continue from the current count; only the first image of the batch can
// become primary, and only when the listing had no images at all.
func (uc *ImageUsecase) AddBatch(ctx context.Context, listingID string, inputs []ImageInput, userID string) ([]*domain.Image, error) {
	ok, err := uc.ownsActiveListing(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.logger.Warn("ImageUsecase.AddBatch: listing not found or access denied", "listing_id", listingID, "user_id", userID)
		return nil, domain.ErrAccessDenied
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	count, err := uc.imageRepo.CountByListing(ctx, listingID)
	if err != nil {
		uc.logger.Error("ImageUsecase.AddBatch: failed to count images", "listing_id", listingID, "error", err.Error())
		return nil, err
	}

	now := time.Now().UTC()
	images := make([]*domain.Image, 0, len(inputs))
	for i, in := range inputs {
		images = append(images, &domain.Image{
			ID:           uuid.New().String(),
			ListingID:    listingID,
			URL:          in.URL,
			Description:  in.Description,
			IsPrimary:    count == 0 && i == 0,
			DisplayOrder: int(count) + i,
			CreatedAt:    now,
		})
	}
	if err := uc.imageRepo.CreateMany(ctx, images); err != nil {
		uc.logger.Error("ImageUsecase.AddBatch: failed to create images", "listing_id", listingID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("ImageUsecase.AddBatch: images added", "listing_id", listingID, "count", len(images))
	return images, nil
}

// UpdateDescription changes an image's description; ownership resolves
// through the parent listing.
func (uc *ImageUsecase) UpdateDescription(ctx context.Context, imageID, description, userID string) (*domain.Image, error) {
	image, err := uc.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}
	ownerID, err := uc.listingOwner(ctx, image)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		uc.logger.Warn("ImageUsecase.UpdateDescription: access denied", "image_id", imageID, "user_id", userID)
		return nil, domain.ErrAccessDenied
	}

	image.Description = description
	if err := uc.imageRepo.Update(ctx, image); err != nil {
		uc.logger.Error("ImageUsecase.UpdateDescription: failed to update image", "image_id", imageID, "error", err.Error())
		return nil, err
	}
	return image, nil
}

// Delete removes an image. When the deleted image was primary, the remaining
// image with the lowest display order is promoted; delete and promotion run
// as one transaction. Returns false when the image is absent or not owned.
func (uc *ImageUsecase) Delete(ctx context.Context, imageID, userID string) (bool, error) {
	image, err := uc.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("ImageUsecase.Delete: image not found", "image_id", imageID)
			return false, nil
		}
		return false, err
	}
	ownerID, err := uc.listingOwner(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if ownerID != userID {
		uc.logger.Warn("ImageUsecase.Delete: access denied", "image_id", imageID, "user_id", userID)
		return false, nil
	}

	wasPrimary := image.IsPrimary
	listingID := image.ListingID

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.imageRepo.Delete(ctx, imageID); err != nil {
			return err
		}
		if !wasPrimary {
			return nil
		}
		next, err := uc.imageRepo.FindFirstByOrder(ctx, listingID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		next.IsPrimary = true
		return uc.imageRepo.Update(ctx, next)
	})
	if err != nil {
		uc.logger.Error("ImageUsecase.Delete: failed", "image_id", imageID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("ImageUsecase.Delete: image deleted", "image_id", imageID, "listing_id", listingID, "was_primary", wasPrimary)
	return true, nil
}

// SetPrimary clears the primary flag on every other image of the listing and
// sets it on the target, as one transaction so readers never observe zero or
// two primaries. Returns false when the image is absent or not owned.
func (uc *ImageUsecase) SetPrimary(ctx context.Context, imageID, userID string) (bool, error) {
	image, err := uc.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("ImageUsecase.SetPrimary: image not found", "image_id", imageID)
			return false, nil
		}
		return false, err
	}
	ownerID, err := uc.listingOwner(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if ownerID != userID {
		uc.logger.Warn("ImageUsecase.SetPrimary: access denied", "image_id", imageID, "user_id", userID)
		return false, nil
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.imageRepo.ClearPrimaryExcept(ctx, image.ListingID, imageID); err != nil {
			return err
		}
		image.IsPrimary = true
		return uc.imageRepo.Update(ctx, image)
	})
	if err != nil {
		uc.logger.Error("ImageUsecase.SetPrimary: failed", "image_id", imageID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("ImageUsecase.SetPrimary: primary image set", "image_id", imageID, "listing_id", image.ListingID)
	return true, nil
}

// Reorder assigns display order by position in orderedIDs. Every id must
// belong to the listing; under the strict policy the list must additionally
// be an exact permutation of the listing's image set.
func (uc *ImageUsecase) Reorder(ctx context.Context, listingID string, orderedIDs []string, userID string) (bool, error) {
	ok, err := uc.ownsActiveListing(ctx, listingID, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		uc.logger.Warn("ImageUsecase.Reorder: listing not found or access denied", "listing_id", listingID, "user_id", userID)
		return false, nil
	}

	images, err := uc.imageRepo.FindByListing(ctx, listingID)
	if err != nil {
		uc.logger.Error("ImageUsecase.Reorder: failed to load images", "listing_id", listingID, "error", err.Error())
		return false, err
	}

	byID := make(map[string]*domain.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if byID[id] == nil || seen[id] {
			uc.logger.Warn("ImageUsecase.Reorder: id does not belong to listing or repeats", "listing_id", listingID, "image_id", id)
			return false, nil
		}
		seen[id] = true
	}
	if uc.policy == ReorderStrict && len(orderedIDs) != len(images) {
		uc.logger.Warn("ImageUsecase.Reorder: id list is not a full permutation", "listing_id", listingID, "given", len(orderedIDs), "have", len(images))
		return false, nil
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for i, id := range orderedIDs {
			img := byID[id]
			img.DisplayOrder = i
			if err := uc.imageRepo.Update(ctx, img); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("ImageUsecase.Reorder: failed", "listing_id", listingID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("ImageUsecase.Reorder: images reordered", "listing_id", listingID, "count", len(orderedIDs))
	return true, nil
}

func (uc *ImageUsecase) GetByID(ctx context.Context, imageID string) (*domain.Image, error) {
	return uc.imageRepo.FindByID(ctx, imageID)
}

func (uc *ImageUsecase) GetForListing(ctx context.Context, listingID string) ([]*domain.Image, error) {
	return uc.imageRepo.FindByListing(ctx, listingID)
}

// GetPrimary returns the flagged primary image. When no image is flagged
// (inconsistent state), the one with the lowest display order stands in.
func (uc *ImageUsecase) GetPrimary(ctx context.Context, listingID string) (*domain.Image, error) {
	image, err := uc.imageRepo.FindPrimary(ctx, listingID)
	if err == nil {
		return image, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return uc.imageRepo.FindFirstByOrder(ctx, listingID)
}

func (uc *ImageUsecase) CountForListing(ctx context.Context, listingID string) (int64, error) {
	return uc.imageRepo.CountByListing(ctx, listingID)
}

// IsImageOwner resolves ownership transitively through the image's listing.
func (uc *ImageUsecase) IsImageOwner(ctx context.Context, imageID, userID string) (bool, error) {
	image, err := uc.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	ownerID, err := uc.listingOwner(ctx, image)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return ownerID == userID, nil
}

// ValidateImageURL never fails hard; a malformed URL is just invalid.
func (uc *ImageUsecase) ValidateImageURL(url string) bool {
	return domain.ValidImageURL(url)
}
