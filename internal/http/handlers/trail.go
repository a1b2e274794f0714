package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type TrailHandler struct {
	log     *logger.Logger
	trails  services.TrailService
	modules services.ModuleService
}

func NewTrailHandler(log *logger.Logger, trails services.TrailService, modules services.ModuleService) *TrailHandler {
	return &TrailHandler{
		log:     log.With("handler", "TrailHandler"),
		trails:  trails,
		modules: modules,
	}
}

// GET /api/trails
func (h *TrailHandler) List(c *gin.Context) {
	trails, err := h.trails.List(c.Request.Context())
	if err != nil {
		h.log.Error("List trails failed", "error", err)
		response.RespondServiceError(c, "load_trails_failed", err)
		return
	}
	if trails == nil {
		trails = []*types.Trail{}
	}
	response.RespondOK(c, gin.H{"trails": trails})
}

// POST /api/trails
func (h *TrailHandler) Create(c *gin.Context) {
	var in services.TrailInput
	if !bindJSON(c, &in) {
		return
	}
	trail, err := h.trails.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, "create_trail_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"trail": trail})
}

// GET /api/trails/:id/modules
func (h *TrailHandler) Modules(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	modules, err := h.modules.ListByTrail(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_modules_failed", err)
		return
	}
	if modules == nil {
		modules = []*types.Module{}
	}
	response.RespondOK(c, gin.H{"modules": modules})
}

// POST /api/trails/:id/modules
func (h *TrailHandler) CreateModule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in services.ModuleInput
	if !bindJSON(c, &in) {
		return
	}
	module, err := h.modules.Create(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, "create_module_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"module": module})
}

type reorderRequest struct {
	ModuleIDs []uuid.UUID `json:"module_ids"`
}

// PUT /api/trails/:id/modules/order
func (h *TrailHandler) ReorderModules(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	modules, err := h.modules.Reorder(c.Request.Context(), id, req.ModuleIDs)
	if err != nil {
		response.RespondServiceError(c, "reorder_modules_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"modules": modules})
}
