package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing() *Listing {
	return &Listing{
		OwnerID: "user-1",
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2019,
		Price:   15500,
		Mileage: 42000,
		Fuel:    FuelPetrol,
	}
}

func TestListingValidate(t *testing.T) {
	assert.NoError(t, validListing().Validate())

	l := validListing()
	l.Make = "   "
	assert.ErrorIs(t, l.Validate(), ErrInvalidArgument)

	l = validListing()
	l.Model = ""
	assert.ErrorIs(t, l.Validate(), ErrInvalidArgument)

	l = validListing()
	l.Year = 0
	assert.ErrorIs(t, l.Validate(), ErrInvalidArgument)

	l = validListing()
	l.Price = 0
	assert.ErrorIs(t, l.Validate(), ErrInvalidArgument)

	l = validListing()
	l.Mileage = -1
	assert.ErrorIs(t, l.Validate(), ErrInvalidArgument)

	l = validListing()
	l.Fuel = "steam"
	assert.ErrorIs(t, l.Validate(), ErrInvalidArgument)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, FuelDiesel.IsValid())
	assert.False(t, FuelType("nuclear").IsValid())

	assert.True(t, TransmissionCVT.IsValid())
	assert.False(t, Transmission("telepathic").IsValid())

	assert.True(t, BodyWagon.IsValid())
	assert.False(t, BodyType("spaceship").IsValid())

	assert.True(t, ColorBeige.IsValid())
	assert.False(t, Color("chartreuse").IsValid())
}

func TestValidImageURL(t *testing.T) {
	assert.True(t, ValidImageURL("https://cdn.example.com/photos/car.jpg"))
	assert.True(t, ValidImageURL("http://example.com/a.png"))

	assert.False(t, ValidImageURL(""))
	assert.False(t, ValidImageURL("   "))
	assert.False(t, ValidImageURL("ftp://example.com/a.png"))
	assert.False(t, ValidImageURL("/relative/path.jpg"))
	assert.False(t, ValidImageURL("https://"))
	assert.False(t, ValidImageURL("not a url at all ://"))
}
