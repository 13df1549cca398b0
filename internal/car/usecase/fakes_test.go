package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/autozona/car-service/internal/car/domain"
	"github.com/autozona/car-service/internal/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger()
}

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeListingRepo keeps listings in memory and mirrors the query semantics
// of the persistent repository: case-insensitive substring text matching,
// inclusive ranges, exact categorical matching, active-only visibility.
type fakeListingRepo struct {
	listings    map[string]*domain.Listing
	ownerCities map[string]string
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings:    make(map[string]*domain.Listing),
		ownerCities: make(map[string]string),
	}
}

func (r *fakeListingRepo) Create(_ context.Context, l *domain.Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, l *domain.Listing) error {
	if _, ok := r.listings[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (r *fakeListingRepo) FindActiveByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := r.listings[id]
	if !ok || !l.IsActive {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (r *fakeListingRepo) FindActiveByIDs(_ context.Context, ids []string) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, id := range ids {
		if l, ok := r.listings[id]; ok && l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) FindAllActive(_ context.Context) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if l.IsActive {
			out = append(out, l)
		}
	}
	sortListings(out, domain.DefaultSort())
	return out, nil
}

func (r *fakeListingRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	sortListings(out, domain.DefaultSort())
	return out, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (r *fakeListingRepo) matches(l *domain.Listing, f domain.SearchFilter) bool {
	if !l.IsActive {
		return false
	}
	if f.Make != "" && !containsFold(l.Make, f.Make) {
		return false
	}
	if f.Model != "" && !containsFold(l.Model, f.Model) {
		return false
	}
	if f.City != "" && !containsFold(r.ownerCities[l.OwnerID], f.City) {
		return false
	}
	if f.YearFrom != nil && l.Year < *f.YearFrom {
		return false
	}
	if f.YearTo != nil && l.Year > *f.YearTo {
		return false
	}
	if f.PriceFrom != nil && l.Price < *f.PriceFrom {
		return false
	}
	if f.PriceTo != nil && l.Price > *f.PriceTo {
		return false
	}
	if f.MaxMileage != nil && l.Mileage > *f.MaxMileage {
		return false
	}
	if f.Fuel != "" && l.Fuel != f.Fuel {
		return false
	}
	if f.BodyType != "" && l.BodyType != f.BodyType {
		return false
	}
	if f.Transmission != "" && l.Transmission != f.Transmission {
		return false
	}
	if f.Color != "" && l.Color != f.Color {
		return false
	}
	return true
}

func sortListings(listings []*domain.Listing, spec domain.SortSpec) {
	less := func(a, b *domain.Listing) bool {
		switch spec.Field {
		case domain.SortByPrice:
			return a.Price < b.Price
		case domain.SortByYear:
			return a.Year < b.Year
		case domain.SortByMileage:
			return a.Mileage < b.Mileage
		case domain.SortByMake:
			return a.Make < b.Make
		case domain.SortByModel:
			return a.Model < b.Model
		case domain.SortByUpdated:
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(listings, func(i, j int) bool {
		if spec.Order == domain.SortDesc {
			return less(listings[j], listings[i])
		}
		return less(listings[i], listings[j])
	})
}

func (r *fakeListingRepo) FindByFilter(_ context.Context, f domain.SearchFilter, spec domain.SortSpec) ([]*domain.Listing, error) {
	var out []*domain.Listing
	for _, l := range r.listings {
		if r.matches(l, f) {
			out = append(out, l)
		}
	}
	sortListings(out, spec)
	return out, nil
}

func (r *fakeListingRepo) FindPage(ctx context.Context, f domain.SearchFilter, spec domain.SortSpec, page domain.PageRequest) ([]*domain.Listing, int64, error) {
	all, err := r.FindByFilter(ctx, f, spec)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	start := page.Offset()
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + page.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeListingRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, l := range r.listings {
		if l.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeListingRepo) CountActiveByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, l := range r.listings {
		if l.IsActive && l.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeListingRepo) DistinctMakes(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, l := range r.listings {
		if l.IsActive && !seen[l.Make] {
			seen[l.Make] = true
			out = append(out, l.Make)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeListingRepo) DistinctModels(_ context.Context, makeName string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, l := range r.listings {
		if l.IsActive && strings.EqualFold(l.Make, makeName) && !seen[l.Model] {
			seen[l.Model] = true
			out = append(out, l.Model)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeListingRepo) AveragePrice(_ context.Context) (float64, error) {
	var sum float64
	var n int
	for _, l := range r.listings {
		if l.IsActive && l.Price > 0 {
			sum += l.Price
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (r *fakeListingRepo) CountByMake(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, l := range r.listings {
		if l.IsActive {
			out[l.Make]++
		}
	}
	return out, nil
}

func (r *fakeListingRepo) CountByBodyType(_ context.Context) (map[domain.BodyType]int64, error) {
	out := make(map[domain.BodyType]int64)
	for _, l := range r.listings {
		if l.IsActive {
			out[l.BodyType]++
		}
	}
	return out, nil
}

func (r *fakeListingRepo) CountByYear(_ context.Context) (map[int]int64, error) {
	out := make(map[int]int64)
	for _, l := range r.listings {
		if l.IsActive {
			out[l.Year]++
		}
	}
	return out, nil
}

func (r *fakeListingRepo) FindRecent(ctx context.Context, limit int) ([]*domain.Listing, error) {
	all, err := r.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeImageRepo struct {
	images map[string]*domain.Image
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[string]*domain.Image)}
}

func (r *fakeImageRepo) Create(_ context.Context, img *domain.Image) error {
	r.images[img.ID] = img
	return nil
}

func (r *fakeImageRepo) CreateMany(ctx context.Context, images []*domain.Image) error {
	for _, img := range images {
		if err := r.Create(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeImageRepo) Update(_ context.Context, img *domain.Image) error {
	if _, ok := r.images[img.ID]; !ok {
		return domain.ErrNotFound
	}
	r.images[img.ID] = img
	return nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.images[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) FindByID(_ context.Context, id string) (*domain.Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return img, nil
}

func (r *fakeImageRepo) FindByListing(_ context.Context, listingID string) ([]*domain.Image, error) {
	var out []*domain.Image
	for _, img := range r.images {
		if img.ListingID == listingID {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeImageRepo) FindFirstByOrder(ctx context.Context, listingID string) (*domain.Image, error) {
	images, _ := r.FindByListing(ctx, listingID)
	if len(images) == 0 {
		return nil, domain.ErrNotFound
	}
	return images[0], nil
}

func (r *fakeImageRepo) FindPrimary(_ context.Context, listingID string) (*domain.Image, error) {
	for _, img := range r.images {
		if img.ListingID == listingID && img.IsPrimary {
			return img, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeImageRepo) ClearPrimaryExcept(_ context.Context, listingID, imageID string) error {
	for _, img := range r.images {
		if img.ListingID == listingID && img.ID != imageID {
			img.IsPrimary = false
		}
	}
	return nil
}

func (r *fakeImageRepo) CountByListing(_ context.Context, listingID string) (int64, error) {
	var n int64
	for _, img := range r.images {
		if img.ListingID == listingID {
			n++
		}
	}
	return n, nil
}

type fakeFavoriteListRepo struct {
	lists map[string]*domain.FavoriteList
	seq   int
}

func newFakeFavoriteListRepo() *fakeFavoriteListRepo {
	return &fakeFavoriteListRepo{lists: make(map[string]*domain.FavoriteList)}
}

func (r *fakeFavoriteListRepo) Create(_ context.Context, l *domain.FavoriteList) error {
	for _, existing := range r.lists {
		if existing.OwnerID == l.OwnerID && existing.Name == l.Name {
			return domain.ErrDuplicateFavorite
		}
	}
	r.lists[l.ID] = l
	return nil
}

func (r *fakeFavoriteListRepo) Update(_ context.Context, l *domain.FavoriteList) error {
	if _, ok := r.lists[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.lists[l.ID] = l
	return nil
}

func (r *fakeFavoriteListRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.lists[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.lists, id)
	return nil
}

func (r *fakeFavoriteListRepo) FindByID(_ context.Context, id string) (*domain.FavoriteList, error) {
	l, ok := r.lists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (r *fakeFavoriteListRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.FavoriteList, error) {
	var out []*domain.FavoriteList
	for _, l := range r.lists {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeFavoriteListRepo) FindFirstByOwner(ctx context.Context, ownerID string) (*domain.FavoriteList, error) {
	lists, _ := r.FindByOwner(ctx, ownerID)
	if len(lists) == 0 {
		return nil, domain.ErrNotFound
	}
	return lists[0], nil
}

func (r *fakeFavoriteListRepo) UpsertByOwnerAndName(ctx context.Context, ownerID, name, description string) (*domain.FavoriteList, error) {
	for _, l := range r.lists {
		if l.OwnerID == ownerID && l.Name == name {
			return l, nil
		}
	}
	r.seq++
	list := &domain.FavoriteList{
		ID:          "upserted-" + name + "-" + ownerID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	}
	r.lists[list.ID] = list
	return list, nil
}

type fakeFavoriteItemRepo struct {
	items map[string]*domain.FavoriteItem
}

func newFakeFavoriteItemRepo() *fakeFavoriteItemRepo {
	return &fakeFavoriteItemRepo{items: make(map[string]*domain.FavoriteItem)}
}

func itemKey(listID, listingID string) string {
	return listID + "|" + listingID
}

func (r *fakeFavoriteItemRepo) Create(_ context.Context, item *domain.FavoriteItem) error {
	key := itemKey(item.ListID, item.ListingID)
	if _, ok := r.items[key]; ok {
		return domain.ErrDuplicateFavorite
	}
	r.items[key] = item
	return nil
}

func (r *fakeFavoriteItemRepo) Delete(_ context.Context, listID, listingID string) error {
	key := itemKey(listID, listingID)
	if _, ok := r.items[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, key)
	return nil
}

func (r *fakeFavoriteItemRepo) DeleteByList(_ context.Context, listID string) error {
	for key, item := range r.items {
		if item.ListID == listID {
			delete(r.items, key)
		}
	}
	return nil
}

func (r *fakeFavoriteItemRepo) Find(_ context.Context, listID, listingID string) (*domain.FavoriteItem, error) {
	item, ok := r.items[itemKey(listID, listingID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (r *fakeFavoriteItemRepo) FindByList(_ context.Context, listID string) ([]*domain.FavoriteItem, error) {
	var out []*domain.FavoriteItem
	for _, item := range r.items {
		if item.ListID == listID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[j].AddedAt.Before(out[i].AddedAt) })
	return out, nil
}

func (r *fakeFavoriteItemRepo) FindListIDsContaining(_ context.Context, listingID string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, item := range r.items {
		if item.ListingID == listingID && !seen[item.ListID] {
			seen[item.ListID] = true
			out = append(out, item.ListID)
		}
	}
	return out, nil
}

func (r *fakeFavoriteItemRepo) CountByList(_ context.Context, listID string) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.ListID == listID {
			n++
		}
	}
	return n, nil
}

func (r *fakeFavoriteItemRepo) CountByLists(ctx context.Context, listIDs []string) (int64, error) {
	var n int64
	for _, id := range listIDs {
		c, _ := r.CountByList(ctx, id)
		n += c
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetEmailByID(_ context.Context, id string) (string, error) {
	u, ok := r.users[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return u.Email, nil
}

type fakeStorage struct {
	uploads int
}

func (s *fakeStorage) Upload(_ context.Context, fileName string, _ []byte) (string, error) {
	s.uploads++
	return "https://storage.example.com/photos/" + fileName, nil
}
