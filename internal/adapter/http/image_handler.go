package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/autozona/car-service/internal/adapter/repository/cache"
	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/car/usecase"
	"github.com/autozona/car-service/internal/platform/logger"
)

type ImageHandler struct {
	images *usecase.ImageUsecase
	cache  *cache.ListingCache
	logger *logger.Logger
}

func NewImageHandler(images *usecase.ImageUsecase, listingCache *cache.ListingCache, log *logger.Logger) *ImageHandler {
	return &ImageHandler{
		images: images,
		cache:  listingCache,
		logger: log,
	}
}

type addImageRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type addImagesRequest struct {
	Images []addImageRequest `json:"images"`
}

type reorderRequest struct {
	ImageIDs []string `json:"image_ids"`
}

func (h *ImageHandler) invalidateListing(c fiber.Ctx, listingID string) {
	if err := h.cache.DeleteListing(c.Context(), listingID); err != nil {
		h.logger.Warn("ImageHandler: cache invalidation failed", "listing_id", listingID, "error", err.Error())
	}
}

// Add attaches an image URL to a listing.
func (h *ImageHandler) Add(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("id")

	var req addImageRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !h.images.ValidateImageURL(req.URL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid image url"})
	}

	ctx, span := tracer.Start(c.Context(), "ImageHandler.Add", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	image, err := h.images.Add(ctx, listingID, req.URL, req.Description, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add image"})
	}

	h.invalidateListing(c, listingID)
	return c.Status(fiber.StatusCreated).JSON(toImageResponse(image))
}

// AddBatch attaches several image URLs in one request.
func (h *ImageHandler) AddBatch(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("id")

	var req addImagesRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	inputs := make([]usecase.ImageInput, 0, len(req.Images))
	for _, img := range req.Images {
		if !h.images.ValidateImageURL(img.URL) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid image url: " + img.URL})
		}
		inputs = append(inputs, usecase.ImageInput{URL: img.URL, Description: img.Description})
	}

	ctx, span := tracer.Start(c.Context(), "ImageHandler.AddBatch", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
		attribute.Int("count", len(inputs)),
	))
	defer span.End()

	images, err := h.images.AddBatch(ctx, listingID, inputs, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add images"})
	}

	h.invalidateListing(c, listingID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": toImageResponses(images)})
}

// Upload accepts a multipart photo, stores it and attaches the resulting
// URL to the listing.
func (h *ImageHandler) Upload(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}

	ctx, span := tracer.Start(c.Context(), "ImageHandler.Upload", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
		attribute.String("file_name", fileHeader.Filename),
		attribute.Int("size_bytes", len(data)),
	))
	defer span.End()

	image, err := h.images.UploadPhoto(ctx, listingID, userID, fileHeader.Filename, data, c.FormValue("description"))
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
	}

	h.invalidateListing(c, listingID)
	return c.Status(fiber.StatusCreated).JSON(toImageResponse(image))
}

// GetForListing is the public image list, in display order.
func (h *ImageHandler) GetForListing(c fiber.Ctx) error {
	listingID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "ImageHandler.GetForListing", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
	))
	defer span.End()

	images, err := h.images.GetForListing(ctx, listingID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load images"})
	}
	return c.JSON(fiber.Map{"images": toImageResponses(images)})
}

func (h *ImageHandler) GetPrimary(c fiber.Ctx) error {
	listingID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "ImageHandler.GetPrimary", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
	))
	defer span.End()

	image, err := h.images.GetPrimary(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no images for listing"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load image"})
	}
	return c.JSON(toImageResponse(image))
}

type updateImageRequest struct {
	Description string `json:"description"`
}

func (h *ImageHandler) UpdateDescription(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	imageID := c.Params("id")

	var req updateImageRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, span := tracer.Start(c.Context(), "ImageHandler.UpdateDescription", oteltrace.WithAttributes(
		attribute.String("image_id", imageID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	image, err := h.images.UpdateDescription(ctx, imageID, req.Description, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) || errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update image"})
	}

	h.invalidateListing(c, image.ListingID)
	return c.JSON(toImageResponse(image))
}

// Delete removes an image; a deleted primary is replaced by the next image
// in display order.
func (h *ImageHandler) Delete(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	imageID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "ImageHandler.Delete", oteltrace.WithAttributes(
		attribute.String("image_id", imageID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	// Resolve the parent listing before the image disappears.
	image, errGet := h.images.GetByID(ctx, imageID)

	ok, err := h.images.Delete(ctx, imageID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete image"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}

	if errGet == nil && image != nil {
		h.invalidateListing(c, image.ListingID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ImageHandler) SetPrimary(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	imageID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "ImageHandler.SetPrimary", oteltrace.WithAttributes(
		attribute.String("image_id", imageID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	ok, err := h.images.SetPrimary(ctx, imageID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to set primary image"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}

	if image, errGet := h.images.GetByID(ctx, imageID); errGet == nil && image != nil {
		h.invalidateListing(c, image.ListingID)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reorder rewrites display order to match the given id sequence.
func (h *ImageHandler) Reorder(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("id")

	var req reorderRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, span := tracer.Start(c.Context(), "ImageHandler.Reorder", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
		attribute.Int("count", len(req.ImageIDs)),
	))
	defer span.End()

	ok, err := h.images.Reorder(ctx, listingID, req.ImageIDs, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reorder images"})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid image order for listing"})
	}

	h.invalidateListing(c, listingID)
	return c.SendStatus(fiber.StatusNoContent)
}
