package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autozona/car-service/internal/car/domain"
)

type listingFixture struct {
	uc        *ListingUsecase
	repo      *fakeListingRepo
	imageRepo *fakeImageRepo
	userRepo  *fakeUserRepo
}

func newListingFixture() *listingFixture {
	repo := newFakeListingRepo()
	imageRepo := newFakeImageRepo()
	userRepo := newFakeUserRepo()
	return &listingFixture{
		uc:        NewListingUsecase(repo, imageRepo, userRepo, testLogger()),
		repo:      repo,
		imageRepo: imageRepo,
		userRepo:  userRepo,
	}
}

func (f *listingFixture) create(t *testing.T, ownerID, make, model string, year int, price float64) *domain.Listing {
	t.Helper()
	listing, err := f.uc.Create(context.Background(), &domain.Listing{
		OwnerID: ownerID,
		Make:    make,
		Model:   model,
		Year:    year,
		Price:   price,
		Mileage: 50000,
		Fuel:    domain.FuelPetrol,
	})
	require.NoError(t, err)
	return listing
}

func TestCreateListingAssignsIdentityAndActivates(t *testing.T) {
	f := newListingFixture()

	listing := f.create(t, "user-1", "Toyota", "Corolla", 2019, 15500)

	assert.NotEmpty(t, listing.ID)
	assert.True(t, listing.IsActive)
	assert.False(t, listing.CreatedAt.IsZero())
	assert.Equal(t, listing.CreatedAt, listing.UpdatedAt)
}

func TestCreateListingRejectsInvalid(t *testing.T) {
	f := newListingFixture()

	_, err := f.uc.Create(context.Background(), &domain.Listing{
		OwnerID: "user-1",
		Make:    "Toyota",
		Model:   "",
		Year:    2019,
		Price:   15500,
		Fuel:    domain.FuelPetrol,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestUpdateListingPreservesOwnershipAndCreation(t *testing.T) {
	f := newListingFixture()
	listing := f.create(t, "user-1", "Toyota", "Corolla", 2019, 15500)
	createdAt := listing.CreatedAt

	updated, err := f.uc.Update(context.Background(), &domain.Listing{
		ID:      listing.ID,
		OwnerID: "someone-else-entirely",
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2019,
		Price:   14900,
		Mileage: 52000,
		Fuel:    domain.FuelPetrol,
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", updated.OwnerID)
	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.Equal(t, 14900.0, updated.Price)
	assert.True(t, updated.UpdatedAt.After(createdAt) || updated.UpdatedAt.Equal(createdAt))
}

func TestUpdateListingByNonOwnerDenied(t *testing.T) {
	f := newListingFixture()
	listing := f.create(t, "user-1", "Toyota", "Corolla", 2019, 15500)

	_, err := f.uc.Update(context.Background(), &domain.Listing{
		ID:      listing.ID,
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2019,
		Price:   100,
		Fuel:    domain.FuelPetrol,
	}, "user-2")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestSoftDeleteHidesFromPublicReads(t *testing.T) {
	f := newListingFixture()
	listing := f.create(t, "user-1", "Toyota", "Corolla", 2019, 15500)

	ok, err := f.uc.SoftDelete(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.uc.GetByID(context.Background(), listing.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	results, err := f.uc.Search(context.Background(), domain.SearchFilter{})
	require.NoError(t, err)
	assert.Empty(t, results)

	// Still present in the owner's view and in storage.
	mine, err := f.uc.GetUserListings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].IsActive)
}

func TestSoftDeleteMissingListing(t *testing.T) {
	f := newListingFixture()
	ok, err := f.uc.SoftDelete(context.Background(), "no-such-id")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, _ = f.uc.SoftDelete(context.Background(), "no-such-id")
	assert.False(t, ok)
}

func TestGetByIDAttachesImagesAndOwner(t *testing.T) {
	f := newListingFixture()
	f.userRepo.users["user-1"] = &domain.User{ID: "user-1", FirstName: "Ada", City: "Almaty", Email: "ada@example.com"}
	listing := f.create(t, "user-1", "Toyota", "Corolla", 2019, 15500)

	f.imageRepo.images["img-1"] = &domain.Image{ID: "img-1", ListingID: listing.ID, URL: "https://cdn.example.com/1.jpg", DisplayOrder: 1}
	f.imageRepo.images["img-2"] = &domain.Image{ID: "img-2", ListingID: listing.ID, URL: "https://cdn.example.com/2.jpg", DisplayOrder: 0, IsPrimary: true}

	got, err := f.uc.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "img-2", got.Images[0].ID)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Ada", got.Owner.FirstName)
}

func TestSearchSubstringAndRangeFilter(t *testing.T) {
	f := newListingFixture()
	f.create(t, "u1", "Toyota", "Corolla", 2016, 15500)
	f.create(t, "u1", "Toyota", "Camry", 2013, 11000)
	f.create(t, "u2", "toyota", "RAV4", 2020, 24000)
	f.create(t, "u2", "Honda", "Civic", 2018, 17000)

	yearFrom := 2015
	results, err := f.uc.Search(context.Background(), domain.SearchFilter{
		Make:     "Toy",
		YearFrom: &yearFrom,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, l := range results {
		assert.GreaterOrEqual(t, l.Year, 2015)
		assert.Contains(t, []string{"Corolla", "RAV4"}, l.Model)
	}
}

func TestSearchNoMatchesIsEmptyNotError(t *testing.T) {
	f := newListingFixture()
	f.create(t, "u1", "Toyota", "Corolla", 2016, 15500)

	results, err := f.uc.Search(context.Background(), domain.SearchFilter{Make: "Lada"})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestPaginateTotalIsWindowIndependent(t *testing.T) {
	f := newListingFixture()
	for i := 0; i < 7; i++ {
		l := f.create(t, "u1", "Toyota", "Corolla", 2010+i, float64(10000+i*1000))
		// Spread creation times so ordering is deterministic.
		l.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}

	page1, total, err := f.uc.Paginate(context.Background(), domain.SearchFilter{}, domain.PageRequest{Page: 1, PageSize: 3}, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, page1, 3)

	page3, total, err := f.uc.Paginate(context.Background(), domain.SearchFilter{}, domain.PageRequest{Page: 3, PageSize: 3}, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, page3, 1)

	beyond, total, err := f.uc.Paginate(context.Background(), domain.SearchFilter{}, domain.PageRequest{Page: 9, PageSize: 3}, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Empty(t, beyond)
}

func TestPaginateSortFallbacks(t *testing.T) {
	f := newListingFixture()
	f.create(t, "u1", "Toyota", "Corolla", 2016, 30000)
	f.create(t, "u1", "Honda", "Civic", 2018, 10000)
	f.create(t, "u1", "Mazda", "3", 2020, 20000)

	// Explicit price ascending.
	asc, _, err := f.uc.Paginate(context.Background(), domain.SearchFilter{}, domain.PageRequest{Page: 1, PageSize: 10}, "price", "asc")
	require.NoError(t, err)
	assert.Equal(t, []float64{10000, 20000, 30000}, []float64{asc[0].Price, asc[1].Price, asc[2].Price})

	// Unknown sort order sorts ascending, not an error.
	weird, _, err := f.uc.Paginate(context.Background(), domain.SearchFilter{}, domain.PageRequest{Page: 1, PageSize: 10}, "price", "sideways")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, weird[0].Price)

	// Empty sort order means descending.
	desc, _, err := f.uc.Paginate(context.Background(), domain.SearchFilter{}, domain.PageRequest{Page: 1, PageSize: 10}, "price", "")
	require.NoError(t, err)
	assert.Equal(t, 30000.0, desc[0].Price)
}

func TestPaginateMatchesSearchTotals(t *testing.T) {
	f := newListingFixture()
	for i := 0; i < 5; i++ {
		f.create(t, "u1", "Toyota", "Corolla", 2015, 15000)
	}
	f.create(t, "u1", "Honda", "Civic", 2018, 17000)

	filter := domain.SearchFilter{Make: "Toyota"}
	results, err := f.uc.Search(context.Background(), filter)
	require.NoError(t, err)

	_, total, err := f.uc.Paginate(context.Background(), filter, domain.PageRequest{Page: 1, PageSize: 2}, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(len(results)), total)
}

func TestIsOwner(t *testing.T) {
	f := newListingFixture()
	listing := f.create(t, "user-1", "Toyota", "Corolla", 2019, 15500)

	ok, err := f.uc.IsOwner(context.Background(), listing.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.uc.IsOwner(context.Background(), listing.ID, "user-2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.uc.IsOwner(context.Background(), "missing", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogAndStatistics(t *testing.T) {
	f := newListingFixture()
	f.create(t, "u1", "Toyota", "Corolla", 2016, 10000)
	f.create(t, "u1", "Toyota", "Camry", 2018, 20000)
	f.create(t, "u2", "Honda", "Civic", 2018, 30000)
	deactivated := f.create(t, "u2", "Lada", "Niva", 2001, 3000)
	_, err := f.uc.SoftDelete(context.Background(), deactivated.ID)
	require.NoError(t, err)

	makes, err := f.uc.AvailableMakes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Honda", "Toyota"}, makes)

	models, err := f.uc.AvailableModels(context.Background(), "Toyota")
	require.NoError(t, err)
	assert.Equal(t, []string{"Camry", "Corolla"}, models)

	total, err := f.uc.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	avg, err := f.uc.AveragePrice(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 20000, avg, 0.01)

	byMake, err := f.uc.MakeStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), byMake["Toyota"])
	assert.NotContains(t, byMake, "Lada")

	byYear, err := f.uc.YearStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), byYear[2018])
}

func TestGetFeaturedRequiresImages(t *testing.T) {
	f := newListingFixture()
	withImages := f.create(t, "u1", "Toyota", "Corolla", 2019, 15500)
	f.create(t, "u1", "Honda", "Civic", 2018, 17000)

	f.imageRepo.images["img-1"] = &domain.Image{ID: "img-1", ListingID: withImages.ID, URL: "https://cdn.example.com/1.jpg", IsPrimary: true}

	featured, err := f.uc.GetFeatured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, withImages.ID, featured[0].ID)
}

func TestGetFeaturedCapped(t *testing.T) {
	f := newListingFixture()
	for i := 0; i < 10; i++ {
		l := f.create(t, "u1", "Toyota", "Corolla", 2019, 15500)
		f.imageRepo.images["img-"+l.ID] = &domain.Image{ID: "img-" + l.ID, ListingID: l.ID, URL: "https://cdn.example.com/x.jpg", IsPrimary: true}
	}

	featured, err := f.uc.GetFeatured(context.Background())
	require.NoError(t, err)
	assert.Len(t, featured, featuredListingCount)
}
