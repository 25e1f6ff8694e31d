// Package server is the HTTP boundary: it translates request bodies into
// critique service calls and service results or errors into JSON responses.
package server

import (
	"encoding/base64"
	"net/http"

	"github.com/critiqlabs/critiq/internal/critique"
	"github.com/critiqlabs/critiq/internal/extract"
	"github.com/gin-gonic/gin"
)

// Handler serves critique requests for one deployment-fixed category.
type Handler struct {
	svc              *critique.Service
	category         extract.Category
	defaultBluntness int
}

// NewHandler creates a handler around the critique service.
func NewHandler(svc *critique.Service, category extract.Category, defaultBluntness int) *Handler {
	return &Handler{
		svc:              svc,
		category:         category,
		defaultBluntness: defaultBluntness,
	}
}

type critiqueRequest struct {
	FileBufferBase64 string `json:"fileBufferBase64"`
	Bluntness        *int   `json:"bluntness"`
	FollowUpQuestion string `json:"followUpQuestion"`
}

// HandleCritique runs the full flow: decode payload, critique (or answer a
// follow-up), respond. Any service failure maps to a 500 carrying the
// error's message.
func (h *Handler) HandleCritique(c *gin.Context) {
	var req critiqueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.FileBufferBase64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileBufferBase64 is required"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileBufferBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileBufferBase64 is not valid base64"})
		return
	}

	bluntness := h.defaultBluntness
	if req.Bluntness != nil {
		bluntness = *req.Bluntness
	}

	result, err := h.svc.GenerateWithContext(c.Request.Context(), h.category, data, bluntness, req.FollowUpQuestion)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleHealthz is a liveness probe.
func (h *Handler) HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
