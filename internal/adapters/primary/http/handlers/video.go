package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GetVideo streams the finished artifact, honoring byte-range requests so
// players can seek. A Range request that the store satisfied partially comes
// back as 206 with the store's Content-Range echoed through.
func (h *Handler) GetVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	content, err := h.deliverySvc.FetchVideo(c.Request.Context(), id, c.GetHeader("Range"))
	if err != nil {
		log.WithError(err).WithField("job_id", id).Warn("fetch video failed")
		mapDomainError(c, err)
		return
	}
	defer content.Body.Close()

	contentType := content.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}

	status := http.StatusOK
	extraHeaders := map[string]string{
		"Accept-Ranges":       "bytes",
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s.mp4"`, id),
	}
	if content.ContentRange != "" {
		status = http.StatusPartialContent
		extraHeaders["Content-Range"] = content.ContentRange
	}

	c.DataFromReader(status, content.ContentLength, contentType, content.Body, extraHeaders)
}
