package handlers

import (
	"errors"
	"net/http"

	"partygames/models"
	"partygames/services"
	"partygames/store"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors onto HTTP statuses. Nothing here is fatal:
// every failure leaves the caller free to retry or proceed manually.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var stateErr *models.InvalidStateError
	var externalErr *services.ExternalServiceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.As(err, &externalErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": externalErr.Error()})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
