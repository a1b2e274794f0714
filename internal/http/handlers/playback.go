package handlers

import (
	"github.com/gin-gonic/gin"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

type PlaybackHandler struct {
	log      *logger.Logger
	registry *tracking.Registry
	progress services.ProgressService
}

func NewPlaybackHandler(log *logger.Logger, registry *tracking.Registry, progress services.ProgressService) *PlaybackHandler {
	return &PlaybackHandler{
		log:      log.With("handler", "PlaybackHandler"),
		registry: registry,
		progress: progress,
	}
}

type playheadRequest struct {
	Position float64 `json:"position_seconds"`
	Duration float64 `json:"duration_seconds"`
}

// POST /api/contents/:id/playback/start
func (h *PlaybackHandler) Start(c *gin.Context) {
	contentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req playheadRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.registry.Start(c.Request.Context(), callerID(c), contentID, req.Position, req.Duration)
	if err != nil {
		response.RespondServiceError(c, "playback_start_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"playback": st})
}

// POST /api/contents/:id/playback/heartbeat
func (h *PlaybackHandler) Heartbeat(c *gin.Context) {
	contentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req playheadRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.registry.Heartbeat(c.Request.Context(), callerID(c), contentID, req.Position, req.Duration)
	if err != nil {
		h.log.Warn("Playback heartbeat failed", "error", err, "content_id", contentID)
		response.RespondServiceError(c, "playback_heartbeat_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"playback": st})
}

// POST /api/contents/:id/playback/stop
func (h *PlaybackHandler) Stop(c *gin.Context) {
	contentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	h.registry.Stop(callerID(c), contentID)
	response.RespondOK(c, gin.H{"ok": true})
}

type endedRequest struct {
	Duration float64 `json:"duration_seconds"`
}

// POST /api/contents/:id/playback/ended
func (h *PlaybackHandler) Ended(c *gin.Context) {
	contentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req endedRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.registry.Ended(c.Request.Context(), callerID(c), contentID, req.Duration)
	if err != nil {
		h.log.Warn("Playback ended failed", "error", err, "content_id", contentID)
		response.RespondServiceError(c, "playback_ended_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"playback": st})
}

// GET /api/progress?content_ids=a,b
func (h *PlaybackHandler) Progress(c *gin.Context) {
	contentIDs, ok := uuidListQuery(c, "content_ids")
	if !ok {
		return
	}
	rows, err := h.progress.ForUser(c.Request.Context(), callerID(c), contentIDs)
	if err != nil {
		response.RespondServiceError(c, "load_progress_failed", err)
		return
	}
	if rows == nil {
		rows = []*types.UserProgress{}
	}
	response.RespondOK(c, gin.H{"progress": rows})
}
