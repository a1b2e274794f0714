package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/session"
	"github.com/yungbote/classroom-backend/internal/store"
)

type SessionHandler struct {
	bus      session.Bus
	resolver *session.Resolver
	store    *store.Store
}

func NewSessionHandler(bus session.Bus, resolver *session.Resolver, st *store.Store) *SessionHandler {
	return &SessionHandler{bus: bus, resolver: resolver, store: st}
}

// POST /api/session
// Publishes the caller's identity; resolution happens on the bus consumer.
func (h *SessionHandler) Establish(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.bus.Publish(c.Request.Context(), session.Established(rd.UserID, rd.Email, rd.Name)); err != nil {
		response.RespondError(c, http.StatusServiceUnavailable, "session_publish_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

// DELETE /api/session
// Only the user holding a session-owned slot may clear it.
func (h *SessionHandler) Clear(c *gin.Context) {
	if !h.ownsSlot(c) {
		response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("current session belongs to another user"))
		return
	}
	if err := h.bus.Publish(c.Request.Context(), session.Cleared()); err != nil {
		response.RespondError(c, http.StatusServiceUnavailable, "session_publish_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

// GET /api/session/current
func (h *SessionHandler) Current(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"current_user": nil, "owner": ""})
		return
	}
	cu, owner := h.store.CurrentUser()
	if owner == store.OwnerSession && cu != nil && cu.ID != callerID(c) {
		cu = nil
	}
	c.JSON(http.StatusOK, gin.H{"current_user": cu, "owner": owner})
}

func (h *SessionHandler) ownsSlot(c *gin.Context) bool {
	if h.store == nil {
		return true
	}
	cu, owner := h.store.CurrentUser()
	if owner != store.OwnerSession || cu == nil {
		return true
	}
	return cu.ID == callerID(c)
}

// GET /api/me
// Resolves synchronously, creating the profile on first sight.
func (h *SessionHandler) Me(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	cu, err := h.resolver.Resolve(c.Request.Context(), session.Identity{UserID: rd.UserID, Email: rd.Email, Name: rd.Name})
	if err != nil {
		response.RespondServiceError(c, "resolve_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"me": cu})
}
