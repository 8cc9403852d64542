package handler

import (
	"errors"
	"log"
	"net/http"

	"consumables/internal/catalog"
	"consumables/internal/repository"
	"consumables/internal/service"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, catalog.ErrEmptyFile),
		errors.Is(err, catalog.ErrNoValidRows):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidSecret):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, repository.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// fail writes err with the status it maps to. Store failures are logged and
// reported with a generic message.
func fail(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, response.Error(status, "Internal server error"))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}
