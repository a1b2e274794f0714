package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
)

// DemoHandler exposes the in-process store for the local demo build.
type DemoHandler struct {
	log     *logger.Logger
	store   *store.Store
	metrics *observability.Metrics
}

func NewDemoHandler(log *logger.Logger, st *store.Store, metrics *observability.Metrics) *DemoHandler {
	return &DemoHandler{
		log:     log.With("handler", "DemoHandler"),
		store:   st,
		metrics: metrics,
	}
}

// GET /api/demo/state
func (h *DemoHandler) State(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"state":     h.store.Snapshot(),
		"authority": h.store.Authority(),
		"journal":   len(h.store.Journal()),
	})
}

type commandRequest struct {
	Name    store.CommandName `json:"name"`
	Payload json.RawMessage   `json:"payload"`
}

// POST /api/demo/commands
// Commands from the client are always local; mirror commands only come from
// confirmed remote writes.
func (h *DemoHandler) Dispatch(c *gin.Context) {
	var req commandRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("missing command name"))
		return
	}
	cmd, err := store.DecodeCommand(req.Name, store.OriginLocal, req.Payload)
	if err != nil {
		h.metrics.IncStoreCommand(string(req.Name), string(store.OriginLocal), err)
		response.RespondServiceError(c, "dispatch_failed", err)
		return
	}
	err = h.store.Dispatch(c.Request.Context(), cmd)
	h.metrics.IncStoreCommand(string(cmd.Name), string(cmd.Origin), err)
	if err != nil {
		response.RespondServiceError(c, "dispatch_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"state": h.store.Snapshot()})
}

// GET /api/demo/classes/legacy
func (h *DemoHandler) LegacyClasses(c *gin.Context) {
	response.RespondOK(c, gin.H{"classes": h.store.LegacyClasses()})
}
