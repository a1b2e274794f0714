package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type ModuleHandler struct {
	log      *logger.Logger
	modules  services.ModuleService
	contents services.ContentService
}

func NewModuleHandler(log *logger.Logger, modules services.ModuleService, contents services.ContentService) *ModuleHandler {
	return &ModuleHandler{
		log:      log.With("handler", "ModuleHandler"),
		modules:  modules,
		contents: contents,
	}
}

// PATCH /api/modules/:id
func (h *ModuleHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var patch services.ModulePatch
	if !bindJSON(c, &patch) {
		return
	}
	module, err := h.modules.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_module_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"module": module})
}

// DELETE /api/modules/:id
func (h *ModuleHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.modules.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, "delete_module_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/modules/:id/contents
func (h *ModuleHandler) Contents(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	contents, err := h.contents.ListByModule(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_contents_failed", err)
		return
	}
	if contents == nil {
		contents = []*types.Content{}
	}
	response.RespondOK(c, gin.H{"contents": contents})
}

// GET /api/modules/:id/contents/counts
func (h *ModuleHandler) ContentCounts(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	counts, err := h.contents.CountByType(c.Request.Context(), []uuid.UUID{id})
	if err != nil {
		response.RespondServiceError(c, "count_contents_failed", err)
		return
	}
	if counts == nil {
		counts = map[types.ContentType]int{}
	}
	response.RespondOK(c, gin.H{"counts": counts})
}

// POST /api/modules/:id/contents
func (h *ModuleHandler) CreateContent(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in services.ContentInput
	if !bindJSON(c, &in) {
		return
	}
	content, err := h.contents.Create(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, "create_content_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"content": content})
}
