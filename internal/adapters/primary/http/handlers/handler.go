package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"license-plate-service/internal/core/services"
)

type Handler struct {
	pipelineSvc *services.PipelineService
	jobSvc      *services.JobService
	registrySvc *services.RegistryService
	deliverySvc *services.DeliveryService
	pingDB      func(ctx context.Context) error
}

func New(
	pipelineSvc *services.PipelineService,
	jobSvc *services.JobService,
	registrySvc *services.RegistryService,
	deliverySvc *services.DeliveryService,
	pingDB func(ctx context.Context) error,
) *Handler {
	return &Handler{
		pipelineSvc: pipelineSvc,
		jobSvc:      jobSvc,
		registrySvc: registrySvc,
		deliverySvc: deliverySvc,
		pingDB:      pingDB,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Inference jobs
	r.POST("/inference", h.SubmitInference)
	r.GET("/inference", h.ListJobs)
	r.GET("/inference/latest", h.LatestInference)
	r.GET("/inference/:id", h.GetInference)
	r.DELETE("/inference/:id", h.DeleteInference)

	// Finished artifacts
	r.GET("/videos/:id", h.GetVideo)

	// Jobs of any kind
	r.GET("/jobs/:id", h.GetJob)

	// Model registry
	r.POST("/models", h.UploadModel)
	r.GET("/models", h.ListModels)
	r.GET("/models/:id", h.GetModel)
	r.DELETE("/models/:id", h.DeleteModel)
	r.POST("/models/:id/register", h.RegisterModel)
	r.GET("/registrations/:id", h.GetRegistration)
	r.DELETE("/registrations/:id", h.DeleteRegistration)
}

// Health answers the liveness probe with a DB round trip.
func (h *Handler) Health(c *gin.Context) {
	if err := h.pingDB(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
