package domain

import (
	"net/url"
	"strings"
	"time"
)

type FuelType string

const (
	FuelPetrol        FuelType = "petrol"
	FuelDiesel        FuelType = "diesel"
	FuelElectric      FuelType = "electric"
	FuelHybrid        FuelType = "hybrid"
	FuelPluginHybrid  FuelType = "plugin_hybrid"
	FuelLPG           FuelType = "lpg"
	FuelCNG           FuelType = "cng"
	FuelHydrogen      FuelType = "hydrogen"
	FuelEthanol       FuelType = "ethanol"
)

type Transmission string

const (
	TransmissionManual        Transmission = "manual"
	TransmissionAutomatic     Transmission = "automatic"
	TransmissionSemiAutomatic Transmission = "semi_automatic"
	TransmissionCVT           Transmission = "cvt"
)

type BodyType string

const (
	BodySedan       BodyType = "sedan"
	BodyHatchback   BodyType = "hatchback"
	BodyWagon       BodyType = "wagon"
	BodyCoupe       BodyType = "coupe"
	BodyConvertible BodyType = "convertible"
	BodySUV         BodyType = "suv"
	BodyPickup      BodyType = "pickup"
	BodyVan         BodyType = "van"
	BodyMinivan     BodyType = "minivan"
)

type Color string

const (
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
	ColorSilver Color = "silver"
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorBrown  Color = "brown"
	ColorBeige  Color = "beige"
	ColorGold   Color = "gold"
	ColorPurple Color = "purple"
)

var validFuelTypes = map[FuelType]bool{
	FuelPetrol: true, FuelDiesel: true, FuelElectric: true, FuelHybrid: true,
	FuelPluginHybrid: true, FuelLPG: true, FuelCNG: true, FuelHydrogen: true,
	FuelEthanol: true,
}

var validTransmissions = map[Transmission]bool{
	TransmissionManual: true, TransmissionAutomatic: true,
	TransmissionSemiAutomatic: true, TransmissionCVT: true,
}

var validBodyTypes = map[BodyType]bool{
	BodySedan: true, BodyHatchback: true, BodyWagon: true, BodyCoupe: true,
	BodyConvertible: true, BodySUV: true, BodyPickup: true, BodyVan: true,
	BodyMinivan: true,
}

var validColors = map[Color]bool{
	ColorBlack: true, ColorWhite: true, ColorSilver: true, ColorGray: true,
	ColorRed: true, ColorBlue: true, ColorGreen: true, ColorYellow: true,
	ColorOrange: true, ColorBrown: true, ColorBeige: true, ColorGold: true,
	ColorPurple: true,
}

func (f FuelType) IsValid() bool     { return validFuelTypes[f] }
func (t Transmission) IsValid() bool { return validTransmissions[t] }
func (b BodyType) IsValid() bool     { return validBodyTypes[b] }
func (c Color) IsValid() bool        { return validColors[c] }

// Listing is a single car advertisement. Deleting a listing only flips
// IsActive; rows are never removed by the normal flow.
type Listing struct {
	ID           string
	OwnerID      string
	Make         string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	Fuel         FuelType
	Color        Color
	Transmission Transmission
	BodyType     BodyType
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Attached by usecases for detail views, never persisted with the listing.
	Images []*Image
	Owner  *User
}

// Validate checks the fields required before a listing may be persisted.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Make) == "" || strings.TrimSpace(l.Model) == "" {
		return ErrInvalidArgument
	}
	if l.Year <= 0 || l.Price <= 0 || l.Mileage < 0 {
		return ErrInvalidArgument
	}
	if !l.Fuel.IsValid() {
		return ErrInvalidArgument
	}
	return nil
}

// Image is one photo of a listing. DisplayOrder is the zero-based gallery
// rank; at most one image per listing carries IsPrimary.
type Image struct {
	ID           string
	ListingID    string
	URL          string
	Description  string
	IsPrimary    bool
	DisplayOrder int
	CreatedAt    time.Time
}

// FavoriteList is a named, user-owned collection of listing references.
type FavoriteList struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time

	Items []*FavoriteItem
}

// FavoriteItem links a listing into a favorite list. The (ListID, ListingID)
// pair is unique within a list.
type FavoriteItem struct {
	ID        string
	ListID    string
	ListingID string
	AddedAt   time.Time

	Listing *Listing
}

// User is the projection of the external identity entity this service needs:
// profile fields for listing detail views and the city used by search.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	City      string
	IsActive  bool
}

// ValidImageURL reports whether s is an absolute http(s) URL. Parse failures
// degrade to false rather than propagating.
func ValidImageURL(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
