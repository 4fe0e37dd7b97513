package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"CONFLICT", http.StatusConflict},
		{"ILLEGAL_TRANSITION", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"DEPENDENT_CHILDREN_EXIST", http.StatusConflict},
		{"EXTERNAL_DEPENDENCY_FAILURE", http.StatusBadGateway},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestListRequestToFilter(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
		assert.Equal(t, "desc", filter.OrderDir)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		filter := ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "brake"}.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "name", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
		assert.Equal(t, "brake", filter.Search)
	})
}
