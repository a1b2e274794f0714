package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type MeetingHandler struct {
	log      *logger.Logger
	meetings services.MeetingService
	now      func() time.Time
}

func NewMeetingHandler(log *logger.Logger, meetings services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		log:      log.With("handler", "MeetingHandler"),
		meetings: meetings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GET /api/meetings/upcoming?class_ids=a,b
func (h *MeetingHandler) Upcoming(c *gin.Context) {
	classIDs, ok := uuidListQuery(c, "class_ids")
	if !ok {
		return
	}
	meetings, err := h.meetings.Upcoming(c.Request.Context(), h.now(), classIDs)
	if err != nil {
		h.log.Error("Upcoming meetings failed", "error", err)
		response.RespondServiceError(c, "load_meetings_failed", err)
		return
	}
	if meetings == nil {
		meetings = []*types.Meeting{}
	}
	response.RespondOK(c, gin.H{"meetings": meetings})
}

// POST /api/meetings
func (h *MeetingHandler) Create(c *gin.Context) {
	var in services.MeetingInput
	if !bindJSON(c, &in) {
		return
	}
	meeting, err := h.meetings.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, "create_meeting_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"meeting": meeting})
}

// PATCH /api/meetings/:id
func (h *MeetingHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var patch services.MeetingPatch
	if !bindJSON(c, &patch) {
		return
	}
	meeting, err := h.meetings.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_meeting_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"meeting": meeting})
}

type meetingStatusRequest struct {
	Status types.MeetingStatus `json:"status"`
}

// POST /api/meetings/:id/status
func (h *MeetingHandler) Transition(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req meetingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	meeting, err := h.meetings.TransitionStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondServiceError(c, "meeting_status_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"meeting": meeting})
}

// DELETE /api/meetings/:id
func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.meetings.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, "delete_meeting_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
