package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"license-plate-service/internal/adapters/primary/http/dto"
)

// UploadModel accepts a model archive plus its framework tag and queues a
// model-upload job.
func (h *Handler) UploadModel(c *gin.Context) {
	file, err := c.FormFile("model")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing model file"})
		return
	}
	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}
	framework := c.PostForm("framework")

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable model file"})
		return
	}
	defer src.Close()

	job, err := h.registrySvc.SubmitUpload(c.Request.Context(), name, framework, src)
	if err != nil {
		log.WithError(err).Error("submit model upload failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.JobAcceptedResponse{JobID: job.ID})
}

// RegisterModel queues a model-registration job that deploys a serving
// endpoint for an uploaded model.
func (h *Handler) RegisterModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	job, err := h.registrySvc.SubmitRegistration(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("model_id", id).Error("submit model registration failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.JobAcceptedResponse{JobID: job.ID})
}

func (h *Handler) ListModels(c *gin.Context) {
	models, err := h.registrySvc.ListModels(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToModelResponse(m))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	model, err := h.registrySvc.GetModel(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) DeleteModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	if err := h.registrySvc.DeleteModel(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) GetRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	reg, err := h.registrySvc.GetRegistration(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *Handler) DeleteRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	if err := h.registrySvc.DeleteRegistration(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
