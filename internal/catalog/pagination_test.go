package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateDefaults(t *testing.T) {
	window := Paginate(25, PageRequest{}, 10)

	assert.Equal(t, int64(1), window.Page)
	assert.Equal(t, int64(10), window.Limit)
	assert.Equal(t, int64(0), window.Skip)
	assert.Equal(t, int64(3), window.TotalPages)
	assert.Equal(t, int64(25), window.Total)
}

func TestPaginateClampsInvalidValues(t *testing.T) {
	window := Paginate(25, PageRequest{Page: -3, Limit: -1}, 20)

	assert.Equal(t, int64(1), window.Page)
	assert.Equal(t, int64(20), window.Limit)
	assert.Equal(t, int64(0), window.Skip)
}

func TestPaginateMaxPageSize(t *testing.T) {
	window := Paginate(1000, PageRequest{Page: 1, Limit: 5000}, 20)

	assert.Equal(t, int64(MaxPageSize), window.Limit)
	assert.Equal(t, int64(10), window.TotalPages)
}

func TestPaginateEmptyCollection(t *testing.T) {
	window := Paginate(0, PageRequest{Page: 7, Limit: 10}, 10)

	assert.Equal(t, int64(0), window.TotalPages)
	assert.Equal(t, int64(0), window.Total)
	assert.Equal(t, int64(60), window.Skip)
}

func TestPaginatePastTheEndIsValid(t *testing.T) {
	// total=25, limit=10 : la page 4 est une fenêtre vide, pas une erreur.
	window := Paginate(25, PageRequest{Page: 4, Limit: 10}, 10)

	assert.Equal(t, int64(30), window.Skip)
	assert.Equal(t, int64(3), window.TotalPages)
	assert.Equal(t, int64(4), window.Page)
}

func TestPaginateExactDivision(t *testing.T) {
	window := Paginate(30, PageRequest{Page: 2, Limit: 10}, 10)

	assert.Equal(t, int64(3), window.TotalPages)
	assert.Equal(t, int64(10), window.Skip)
}
