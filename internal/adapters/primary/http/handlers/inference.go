package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"license-plate-service/internal/adapters/primary/http/dto"
)

// SubmitInference accepts a multipart video upload and queues the pipeline.
// The client gets the job id back immediately; everything else is async.
func (h *Handler) SubmitInference(c *gin.Context) {
	file, err := c.FormFile("inference_data")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing inference_data file"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable inference_data file"})
		return
	}
	defer src.Close()

	job, err := h.pipelineSvc.Submit(c.Request.Context(), src)
	if err != nil {
		log.WithError(err).Error("submit inference failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.JobAcceptedResponse{JobID: job.ID})
}

func (h *Handler) GetInference(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	res, err := h.jobSvc.GetResult(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInferenceResultResponse(res))
}

func (h *Handler) LatestInference(c *gin.Context) {
	res, err := h.jobSvc.Latest(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInferenceResultResponse(res))
}

func (h *Handler) ListJobs(c *gin.Context) {
	jobs, err := h.jobSvc.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list jobs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, dto.ToJobResponse(job))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteInference(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err := h.jobSvc.DeleteInference(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}
