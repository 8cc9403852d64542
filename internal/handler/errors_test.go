package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"consumables/internal/catalog"
	"consumables/internal/repository"
	"consumables/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: line required", service.ErrInvalidInput), http.StatusBadRequest},
		{catalog.ErrEmptyFile, http.StatusBadRequest},
		{catalog.ErrNoValidRows, http.StatusBadRequest},
		{service.ErrInvalidSecret, http.StatusUnauthorized},
		{fmt.Errorf("request x: %w", repository.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: item A1 already exists", repository.ErrDuplicate), http.StatusConflict},
		{fmt.Errorf("%w: catalog of 90000 items cannot be imported at once", repository.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFromError(tt.err), tt.err.Error())
	}
}
