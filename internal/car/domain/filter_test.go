package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortField(t *testing.T) {
	assert.Equal(t, SortByPrice, ParseSortField("price"))
	assert.Equal(t, SortByPrice, ParseSortField("  PRICE "))
	assert.Equal(t, SortByYear, ParseSortField("year"))
	assert.Equal(t, SortByMileage, ParseSortField("mileage"))
	assert.Equal(t, SortByMake, ParseSortField("make"))
	assert.Equal(t, SortByModel, ParseSortField("model"))
	assert.Equal(t, SortByUpdated, ParseSortField("updated"))

	// Unknown keys fall back to creation date instead of failing.
	assert.Equal(t, SortByCreated, ParseSortField(""))
	assert.Equal(t, SortByCreated, ParseSortField("horsepower"))
	assert.Equal(t, SortByCreated, ParseSortField("created"))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortDesc, ParseSortOrder(""))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder("DESC"))
	assert.Equal(t, SortDesc, ParseSortOrder(" Desc "))

	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortAsc, ParseSortOrder("ascending"))
	assert.Equal(t, SortAsc, ParseSortOrder("anything-else"))
}

func TestDefaultSort(t *testing.T) {
	sort := DefaultSort()
	assert.Equal(t, SortByCreated, sort.Field)
	assert.Equal(t, SortDesc, sort.Order)
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 2, PageSize: 20}.Offset())
	assert.Equal(t, 35, PageRequest{Page: 8, PageSize: 5}.Offset())
}
