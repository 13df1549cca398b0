package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/car/usecase"
	"github.com/autozona/car-service/internal/platform/logger"
)

// FavoriteHandler serves the private favorite-list API. Every route here
// sits behind the auth middleware.
type FavoriteHandler struct {
	favorites *usecase.FavoriteUsecase
	logger    *logger.Logger
}

func NewFavoriteHandler(favorites *usecase.FavoriteUsecase, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: log}
}

type favoriteListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *FavoriteHandler) CreateList(c fiber.Ctx) error {
	userID := authenticatedUserID(c)

	var req favoriteListRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.CreateList", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	list, err := h.favorites.CreateList(ctx, userID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "list name must not be blank"})
		case errors.Is(err, domain.ErrDuplicateFavorite):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a list with this name already exists"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create list"})
	}
	return c.Status(fiber.StatusCreated).JSON(toFavoriteListResponse(list))
}

func (h *FavoriteHandler) GetMyLists(c fiber.Ctx) error {
	userID := authenticatedUserID(c)

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.GetMyLists", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	lists, err := h.favorites.GetUserLists(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load lists"})
	}
	return c.JSON(fiber.Map{"lists": toFavoriteListResponses(lists)})
}

// GetDefaultList returns the user's default list, creating it on first use.
func (h *FavoriteHandler) GetDefaultList(c fiber.Ctx) error {
	userID := authenticatedUserID(c)

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.GetDefaultList", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	list, err := h.favorites.GetOrCreateDefault(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load default list"})
	}
	return c.JSON(toFavoriteListResponse(list))
}

func (h *FavoriteHandler) GetList(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.GetList", oteltrace.WithAttributes(
		attribute.String("list_id", listID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	list, err := h.favorites.GetList(ctx, listID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load list"})
	}
	if list == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "list not found"})
	}
	return c.JSON(toFavoriteListResponse(list))
}

func (h *FavoriteHandler) UpdateList(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listID := c.Params("id")

	var req favoriteListRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.UpdateList", oteltrace.WithAttributes(
		attribute.String("list_id", listID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	ok, err := h.favorites.UpdateList(ctx, listID, userID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "list name must not be blank"})
		case errors.Is(err, domain.ErrDuplicateFavorite):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a list with this name already exists"})
		}
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update list"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "list not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FavoriteHandler) DeleteList(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.DeleteList", oteltrace.WithAttributes(
		attribute.String("list_id", listID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	ok, err := h.favorites.DeleteList(ctx, listID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete list"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "list not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem reports success as a boolean: false covers a missing list, a
// missing listing and an already-present membership alike.
func (h *FavoriteHandler) AddItem(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listID := c.Params("id")
	listingID := c.Params("listingId")

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.AddItem", oteltrace.WithAttributes(
		attribute.String("list_id", listID),
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	ok, err := h.favorites.AddItem(ctx, listID, listingID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add favorite"})
	}
	status := fiber.StatusOK
	if ok {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"added": ok})
}

func (h *FavoriteHandler) RemoveItem(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listID := c.Params("id")
	listingID := c.Params("listingId")

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.RemoveItem", oteltrace.WithAttributes(
		attribute.String("list_id", listID),
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	ok, err := h.favorites.RemoveItem(ctx, listID, listingID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to remove favorite"})
	}
	return c.JSON(fiber.Map{"removed": ok})
}

// GetListListings resolves the list to its active listings.
func (h *FavoriteHandler) GetListListings(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listID := c.Params("id")

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.GetListListings", oteltrace.WithAttributes(
		attribute.String("list_id", listID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	listings, err := h.favorites.GetListListings(ctx, listID, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load listings"})
	}
	if listings == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "list not found"})
	}
	return c.JSON(fiber.Map{"listings": toListingResponses(listings)})
}

// Contains reports whether the listing sits in any of the user's lists, and
// which ones.
func (h *FavoriteHandler) Contains(c fiber.Ctx) error {
	userID := authenticatedUserID(c)
	listingID := c.Params("listingId")

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.Contains", oteltrace.WithAttributes(
		attribute.String("listing_id", listingID),
		attribute.String("user_id", userID),
	))
	defer span.End()

	lists, err := h.favorites.ListsContaining(ctx, userID, listingID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to check favorites"})
	}
	return c.JSON(fiber.Map{
		"in_favorites": len(lists) > 0,
		"lists":        toFavoriteListResponses(lists),
	})
}

func (h *FavoriteHandler) Count(c fiber.Ctx) error {
	userID := authenticatedUserID(c)

	ctx, span := tracer.Start(c.Context(), "FavoriteHandler.Count", oteltrace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	total, err := h.favorites.TotalFavoritesForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count favorites"})
	}
	return c.JSON(fiber.Map{"total": total})
}
