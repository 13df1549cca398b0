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

const (
	defaultFavoriteListName        = "My Favorites"
	defaultFavoriteListDescription = "My favorite cars"
)

// FavoriteUsecase manages a user's named favorite lists and their
// memberships. Lists are strictly private: every read and write is scoped to
// the owner, and a foreign list behaves exactly like a missing one.
type FavoriteUsecase struct {
	listRepo    domain.FavoriteListRepository
	itemRepo    domain.FavoriteItemRepository
	listingRepo domain.ListingRepository
	tx          domain.Transactor
	logger      *logger.Logger
}

func NewFavoriteUsecase(listRepo domain.FavoriteListRepository, itemRepo domain.FavoriteItemRepository, listingRepo domain.ListingRepository, tx domain.Transactor, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		listRepo:    listRepo,
		itemRepo:    itemRepo,
		listingRepo: listingRepo,
		tx:          tx,
		logger:      log,
	}
}

// ownedList loads a list when it exists and belongs to userID, nil otherwise.
func (uc *FavoriteUsecase) ownedList(ctx context.Context, listID, userID string) (*domain.FavoriteList, error) {
	list, err := uc.listRepo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if list.OwnerID != userID {
		return nil, nil
	}
	return list, nil
}

// CreateList creates a named list for the user. Name and description are
// trimmed; name and owner id must not be blank.
func (uc *FavoriteUsecase) CreateList(ctx context.Context, ownerID, name, description string) (*domain.FavoriteList, error) {
	if strings.TrimSpace(ownerID) == "" {
		uc.logger.Warn("FavoriteUsecase.CreateList: blank owner id rejected")
		return nil, domain.ErrInvalidArgument
	}
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		uc.logger.Warn("FavoriteUsecase.CreateList: blank name rejected", "owner_id", ownerID)
		return nil, domain.ErrInvalidArgument
	}

	list := &domain.FavoriteList{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.listRepo.Create(ctx, list); err != nil {
		uc.logger.Error("FavoriteUsecase.CreateList: failed to create list", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("FavoriteUsecase.CreateList: list created", "list_id", list.ID, "owner_id", ownerID)
	return list, nil
}

// GetList returns the list with its items attached, or nil without error when
// the list is absent or owned by someone else.
func (uc *FavoriteUsecase) GetList(ctx context.Context, listID, userID string) (*domain.FavoriteList, error) {
	list, err := uc.ownedList(ctx, listID, userID)
	if err != nil || list == nil {
		return nil, err
	}

	items, err := uc.itemRepo.FindByList(ctx, listID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetList: failed to load items", "list_id", listID, "error", err.Error())
		return nil, err
	}
	list.Items = items
	return list, nil
}

func (uc *FavoriteUsecase) GetUserLists(ctx context.Context, ownerID string) ([]*domain.FavoriteList, error) {
	lists, err := uc.listRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetUserLists: failed", "owner_id", ownerID, "error", err.Error())
	}
	return lists, err
}

// UpdateList renames a list and replaces its description. Returns false when
// the list is absent or not owned; a blank name is an ErrInvalidArgument.
func (uc *FavoriteUsecase) UpdateList(ctx context.Context, listID, userID, name, description string) (bool, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return false, domain.ErrInvalidArgument
	}

	list, err := uc.ownedList(ctx, listID, userID)
	if err != nil {
		return false, err
	}
	if list == nil {
		uc.logger.Warn("FavoriteUsecase.UpdateList: list not found or access denied", "list_id", listID, "user_id", userID)
		return false, nil
	}

	list.Name = name
	list.Description = description
	if err := uc.listRepo.Update(ctx, list); err != nil {
		uc.logger.Error("FavoriteUsecase.UpdateList: failed to update list", "list_id", listID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("FavoriteUsecase.UpdateList: list updated", "list_id", listID)
	return true, nil
}

// DeleteList removes a list and all of its items in one transaction.
func (uc *FavoriteUsecase) DeleteList(ctx context.Context, listID, userID string) (bool, error) {
	list, err := uc.ownedList(ctx, listID, userID)
	if err != nil {
		return false, err
	}
	if list == nil {
		uc.logger.Warn("FavoriteUsecase.DeleteList: list not found or access denied", "list_id", listID, "user_id", userID)
		return false, nil
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.itemRepo.DeleteByList(ctx, listID); err != nil {
			return err
		}
		return uc.listRepo.Delete(ctx, listID)
	})
	if err != nil {
		uc.logger.Error("FavoriteUsecase.DeleteList: failed", "list_id", listID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("FavoriteUsecase.DeleteList: list deleted", "list_id", listID)
	return true, nil
}

// AddItem puts a listing into a list. Returns false when the list is absent
// or not owned, when no active listing has the id, or when the listing is
// already in the list.
func (uc *FavoriteUsecase) AddItem(ctx context.Context, listID, listingID, userID string) (bool, error) {
	list, err := uc.ownedList(ctx, listID, userID)
	if err != nil {
		return false, err
	}
	if list == nil {
		uc.logger.Warn("FavoriteUsecase.AddItem: list not found or access denied", "list_id", listID, "user_id", userID)
		return false, nil
	}

	if _, err := uc.listingRepo.FindActiveByID(ctx, listingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("FavoriteUsecase.AddItem: listing not found", "listing_id", listingID)
			return false, nil
		}
		return false, err
	}

	if _, err := uc.itemRepo.Find(ctx, listID, listingID); err == nil {
		uc.logger.Warn("FavoriteUsecase.AddItem: already in list", "list_id", listID, "listing_id", listingID)
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	item := &domain.FavoriteItem{
		ID:        uuid.New().String(),
		ListID:    listID,
		ListingID: listingID,
		AddedAt:   time.Now().UTC(),
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, domain.ErrDuplicateFavorite) {
			return false, nil
		}
		uc.logger.Error("FavoriteUsecase.AddItem: failed to create item", "list_id", listID, "listing_id", listingID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("FavoriteUsecase.AddItem: listing added to list", "list_id", listID, "listing_id", listingID)
	return true, nil
}

// RemoveItem takes a listing out of a list. Returns false when the list is
// absent or not owned, or when the listing is not in it.
func (uc *FavoriteUsecase) RemoveItem(ctx context.Context, listID, listingID, userID string) (bool, error) {
	list, err := uc.ownedList(ctx, listID, userID)
	if err != nil {
		return false, err
	}
	if list == nil {
		uc.logger.Warn("FavoriteUsecase.RemoveItem: list not found or access denied", "list_id", listID, "user_id", userID)
		return false, nil
	}

	if _, err := uc.itemRepo.Find(ctx, listID, listingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := uc.itemRepo.Delete(ctx, listID, listingID); err != nil {
		uc.logger.Error("FavoriteUsecase.RemoveItem: failed to delete item", "list_id", listID, "listing_id", listingID, "error", err.Error())
		return false, err
	}
	uc.logger.Info("FavoriteUsecase.RemoveItem: listing removed from list", "list_id", listID, "listing_id", listingID)
	return true, nil
}

// IsInFavorites reports whether the listing appears in any of the user's
// lists.
func (uc *FavoriteUsecase) IsInFavorites(ctx context.Context, userID, listingID string) (bool, error) {
	lists, err := uc.ListsContaining(ctx, userID, listingID)
	if err != nil {
		return false, err
	}
	return len(lists) > 0, nil
}

// ListsContaining returns the user's lists that contain the listing.
func (uc *FavoriteUsecase) ListsContaining(ctx context.Context, userID, listingID string) ([]*domain.FavoriteList, error) {
	listIDs, err := uc.itemRepo.FindListIDsContaining(ctx, listingID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.ListsContaining: failed to find lists", "listing_id", listingID, "error", err.Error())
		return nil, err
	}
	if len(listIDs) == 0 {
		return nil, nil
	}

	owned, err := uc.listRepo.FindByOwner(ctx, userID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.ListsContaining: failed to load lists", "owner_id", userID, "error", err.Error())
		return nil, err
	}

	containing := make(map[string]bool, len(listIDs))
	for _, id := range listIDs {
		containing[id] = true
	}
	var result []*domain.FavoriteList
	for _, l := range owned {
		if containing[l.ID] {
			result = append(result, l)
		}
	}
	return result, nil
}

func (uc *FavoriteUsecase) CountInList(ctx context.Context, listID string) (int64, error) {
	return uc.itemRepo.CountByList(ctx, listID)
}

// TotalFavoritesForUser counts the items across all of the user's lists.
func (uc *FavoriteUsecase) TotalFavoritesForUser(ctx context.Context, ownerID string) (int64, error) {
	lists, err := uc.listRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if len(lists) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(lists))
	for _, l := range lists {
		ids = append(ids, l.ID)
	}
	return uc.itemRepo.CountByLists(ctx, ids)
}

// GetListListings resolves a list's items to their active listings. Listings
// deactivated since they were favorited drop out silently. Nil without error
// when the list is absent or not owned.
func (uc *FavoriteUsecase) GetListListings(ctx context.Context, listID, userID string) ([]*domain.Listing, error) {
	list, err := uc.ownedList(ctx, listID, userID)
	if err != nil || list == nil {
		return nil, err
	}

	items, err := uc.itemRepo.FindByList(ctx, listID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetListListings: failed to load items", "list_id", listID, "error", err.Error())
		return nil, err
	}
	if len(items) == 0 {
		return []*domain.Listing{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ListingID)
	}
	listings, err := uc.listingRepo.FindActiveByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetListListings: failed to load listings", "list_id", listID, "error", err.Error())
		return nil, err
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, nil
}

// GetOrCreateDefault returns the user's oldest list, creating the standard
// one when the user has none. The upsert keys on (owner, name) so concurrent
// first calls converge on a single list.
func (uc *FavoriteUsecase) GetOrCreateDefault(ctx context.Context, ownerID string) (*domain.FavoriteList, error) {
	list, err := uc.listRepo.FindFirstByOwner(ctx, ownerID)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		uc.logger.Error("FavoriteUsecase.GetOrCreateDefault: failed to load list", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}

	var created *domain.FavoriteList
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = uc.listRepo.UpsertByOwnerAndName(ctx, ownerID, defaultFavoriteListName, defaultFavoriteListDescription)
		return txErr
	})
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetOrCreateDefault: failed to create default list", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	uc.logger.Info("FavoriteUsecase.GetOrCreateDefault: default list ready", "list_id", created.ID, "owner_id", ownerID)
	return created, nil
}
