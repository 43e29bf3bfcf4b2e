package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"license-plate-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrNoCompletedJob),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrJobFinished),
		errors.Is(err, domain.ErrOutputAlreadySet):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyPayload),
		errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrUnsupportedFramework):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Backpressure and unavailable dependencies
	case errors.Is(err, domain.ErrQueueFull),
		errors.Is(err, domain.ErrDeployerUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
