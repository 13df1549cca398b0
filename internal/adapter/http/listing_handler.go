package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/autozona/car-service/internal/adapter/messaging/nats"
	"github.com/autozona/car-service/internal/adapter/repository/cache"
	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/car/usecase"
	"github.com/autozona/car-service/internal/mailer"
	"github.com/autozona/car-service/internal/platform/logger"
)

var tracer = otel.Tracer("car-service/http-handler")

type ListingHandler struct {
	listings  *usecase.ListingUsecase
	users     domain.UserRepository
	cache     *cache.ListingCache
	publisher *nats.Publisher
	mailer    mailer.Mailer
	logger    *logger.Logger
}

func NewListingHandler(listings *usecase.ListingUsecase, users domain.UserRepository, listingCache *cache.ListingCache, publisher *nats.Publisher, mail mailer.Mailer, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listings:  listings,
		users:     users,
		cache:     listingCache,
		publisher: publisher,
		mailer:    mail,
		logger:    log,
	}
}

func (h *ListingHandler) Create(c fiber.Ctx) error {
	userID := authenticatedUserID(c)

	var req listingRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, span := tracer.Start(c.Context(), "ListingHandler.Create", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.String("make", req.Make),
		attribute.String("model", req.Model),
	))
	defer span.End()

	listing, err := h.listings.Create(ctx, req.toDomain(userID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create listing"})
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))

	if errCache := h.cache.SetListing(ctx, listing); errCache != nil {
		h.logger.Warn("ListingHandler.Create: cache set failed", "listing_id", listing.ID, "error", errCache.Error())
	}

	_, natsSpan := tracer.Start(ctx, "NATS.Publish.listing.created")
	if errPub := h.publisher.PublishListingEvent(ctx, nats.SubjectListingCreated, listing.ID, listing.OwnerID, listing.Make, listing.Model); errPub != nil {
		h.logger.Warn("ListingHandler.Create: publish failed", "listing_id", listing.ID, "error", errPub.Error())
	}
	natsSpan.End()

	h.notifyOwner(ctx, listing)

	return c.Status(fiber.StatusCreated).JSON(toListingResponse(listing))
}

// notifyOwner emails the seller about the new listing. Failures are logged,
// never surfaced to the API caller.
func (h *ListingHandler) notifyOwner(ctx context.Context, listing *domain.Listing) {
	email, err := h.users.GetEmailByID(ctx, listing.OwnerID)
	if err != nil {
		h.logger.Warn("ListingHandler.notifyOwner: failed to resolve owner email", "owner_id", listing.OwnerID, "error", err.Error())
		return
	}
	title := fmt.Sprintf("%s %s %d", listing.Make, listing.Model, listing.Year)
	if err := h.mailer.SendListingCreatedEmail(email, title); err != nil {
		h.logger.Warn("ListingHandler.notifyOwner: failed to send email", "owner_id", listing.OwnerID, "error", err.Error())
	}
}

func (h *ListingHandler) Update(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("id")

	var req listingRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, span := tracer.Start(c.Context(), "ListingHandler.Update", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	listing := req.toDomain(userID)
	listing.ID = listingID

	updated, err := h.listings.Update(ctx, listing, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		case errors.Is(err, domain.ErrAccessDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		case errors.Is(err, domain.ErrInvalidArgument):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update listing"})
	}

	if errCache := h.cache.SetListing(ctx, updated); errCache != nil {
		h.logger.Warn("ListingHandler.Update: cache set failed", "listing_id", updated.ID, "error", errCache.Error())
	}

	_, natsSpan := tracer.Start(ctx, "NATS.Publish.listing.updated")
	if errPub := h.publisher.PublishListingEvent(ctx, nats.SubjectListingUpdated, updated.ID, updated.OwnerID, updated.Make, updated.Model); errPub != nil {
		h.logger.Warn("ListingHandler.Update: publish failed", "listing_id", updated.ID, "error", errPub.Error())
	}
	natsSpan.End()

	return c.JSON(toListingResponse(updated))
}

// Delete deactivates a listing. The record survives but disappears from
// public reads.
func (h *ListingHandler) Delete(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "ListingHandler.Delete", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	owner, err := h.listings.IsOwner(ctx, listingID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete listing"})
	}
	if !owner {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}

	ok, err := h.listings.SoftDelete(ctx, listingID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete listing"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}

	if errCache := h.cache.DeleteListing(ctx, listingID); errCache != nil {
		h.logger.Warn("ListingHandler.Delete: cache invalidation failed", "listing_id", listingID, "error", errCache.Error())
	}

	_, natsSpan := tracer.Start(ctx, "NATS.Publish.listing.deactivated")
	if errPub := h.publisher.PublishListingEvent(ctx, nats.SubjectListingDeactivated, listingID, userID, "", ""); errPub != nil {
		h.logger.Warn("ListingHandler.Delete: publish failed", "listing_id", listingID, "error", errPub.Error())
	}
	natsSpan.End()

	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID is the public single-listing read, cache-aside over redis.
func (h *ListingHandler) GetByID(c fiber.Ctx) error {
	listingID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetByID", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
	))
	defer span.End()

	cached, errCache := h.cache.GetListing(ctx, listingID)
	if errCache == nil && cached != nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return c.JSON(toListingResponse(cached))
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))
	if errCache != nil {
		h.logger.Warn("ListingHandler.GetByID: cache read failed", "listing_id", listingID, "error", errCache.Error())
	}

	listing, err := h.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load listing"})
	}

	if errSet := h.cache.SetListing(ctx, listing); errSet != nil {
		h.logger.Warn("ListingHandler.GetByID: cache set failed", "listing_id", listingID, "error", errSet.Error())
	}
	return c.JSON(toListingResponse(listing))
}

// Search is the public filtered, paginated, sorted query over active
// listings.
func (h *ListingHandler) Search(c fiber.Ctx) error {
	filter := parseSearchFilter(c)
	page := parsePageRequest(c)
	sortBy := c.Query("sort_by")
	sortOrder := c.Query("sort_order")

	ctx, span := tracer.Start(c.Context(), "ListingHandler.Search", oteltrace.WithAttributes(
		attribute.String("make", filter.Make),
		attribute.String("model", filter.Model),
		attribute.Int("page", page.Page),
		attribute.Int("page_size", page.PageSize),
		attribute.String("sort_by", sortBy),
		attribute.String("sort_order", sortOrder),
	))
	defer span.End()

	listings, total, err := h.listings.Paginate(ctx, filter, page, sortBy, sortOrder)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to search listings"})
	}
	span.SetAttributes(attribute.Int("result_count", len(listings)), attribute.Int64("total", total))

	return c.JSON(fiber.Map{
		"listings":  toListingResponses(listings),
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

func (h *ListingHandler) GetMyListings(c fiber.Ctx) error {
	userID := authenticatedUserID(c)

	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetMyListings", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	listings, err := h.listings.GetUserListings(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load listings"})
	}
	return c.JSON(fiber.Map{"listings": toListingResponses(listings)})
}

func (h *ListingHandler) GetRecent(c fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetRecent")
	defer span.End()

	listings, err := h.listings.GetRecent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load listings"})
	}
	return c.JSON(fiber.Map{"listings": toListingResponses(listings)})
}

func (h *ListingHandler) GetFeatured(c fiber.Ctx) error {
	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetFeatured")
	defer span.End()

	listings, err := h.listings.GetFeatured(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load listings"})
	}
	return c.JSON(fiber.Map{"listings": toListingResponses(listings)})
}

func (h *ListingHandler) GetMakes(c fiber.Ctx) error {
	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetMakes")
	defer span.End()

	makes, err := h.listings.AvailableMakes(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load makes"})
	}
	return c.JSON(fiber.Map{"makes": makes})
}

func (h *ListingHandler) GetModels(c fiber.Ctx) error {
	make := c.Params("make")

	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetModels", oteltrace.WithAttributes(
		attribute.String("make", make),
	))
	defer span.End()

	models, err := h.listings.AvailableModels(ctx, make)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load models"})
	}
	return c.JSON(fiber.Map{"make": make, "models": models})
}

// GetStats is the public marketplace overview: counts, averages and
// per-category distributions.
func (h *ListingHandler) GetStats(c fiber.Ctx) error {
	ctx, span := tracer.Start(c.Context(), "ListingHandler.GetStats")
	defer span.End()

	total, err := h.listings.CountActive(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load statistics"})
	}
	avgPrice, err := h.listings.AveragePrice(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load statistics"})
	}
	byMake, err := h.listings.MakeStatistics(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load statistics"})
	}
	byBodyType, err := h.listings.BodyTypeStatistics(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load statistics"})
	}
	byYear, err := h.listings.YearStatistics(ctx)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load statistics"})
	}

	return c.JSON(fiber.Map{
		"total_active":  total,
		"average_price": avgPrice,
		"by_make":       byMake,
		"by_body_type":  byBodyType,
		"by_year":       byYear,
	})
}
