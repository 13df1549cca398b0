package domain

import "strings"

// SearchFilter narrows the set of active listings. Every field is optional;
// present fields combine with logical AND. Text fields match as
// case-insensitive substrings, range bounds are inclusive, categorical
// fields match exactly.
type SearchFilter struct {
	Make         string
	Model        string
	City         string
	YearFrom     *int
	YearTo       *int
	PriceFrom    *float64
	PriceTo      *float64
	MaxMileage   *int
	Fuel         FuelType
	BodyType     BodyType
	Transmission Transmission
	Color        Color
}

type SortField string

const (
	SortByCreated SortField = "created"
	SortByUpdated SortField = "updated"
	SortByPrice   SortField = "price"
	SortByYear    SortField = "year"
	SortByMileage SortField = "mileage"
	SortByMake    SortField = "make"
	SortByModel   SortField = "model"
)

// ParseSortField maps a free-form sort key onto the closed enumeration.
// Unrecognized values fall back to creation date.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortByPrice:
		return SortByPrice
	case SortByYear:
		return SortByYear
	case SortByMileage:
		return SortByMileage
	case SortByMake:
		return SortByMake
	case SortByModel:
		return SortByModel
	case SortByUpdated:
		return SortByUpdated
	default:
		return SortByCreated
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder: empty means the default (descending); otherwise only a
// case-insensitive "desc" sorts descending and any other value sorts
// ascending. The lax fallback is deliberate, not an error.
func ParseSortOrder(s string) SortOrder {
	if strings.TrimSpace(s) == "" {
		return SortDesc
	}
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDesc
	}
	return SortAsc
}

type SortSpec struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is newest-first, the ordering of plain search results.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortByCreated, Order: SortDesc}
}

// PageRequest is a 1-indexed pagination window. Page values below 1 are the
// caller's responsibility; the core does not correct them.
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
