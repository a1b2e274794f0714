package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type ContentHandler struct {
	log      *logger.Logger
	contents services.ContentService
}

func NewContentHandler(log *logger.Logger, contents services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:      log.With("handler", "ContentHandler"),
		contents: contents,
	}
}

// PATCH /api/contents/:id
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var patch services.ContentPatch
	if !bindJSON(c, &patch) {
		return
	}
	content, err := h.contents.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_content_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"content": content})
}

// DELETE /api/contents/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.contents.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, "delete_content_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
