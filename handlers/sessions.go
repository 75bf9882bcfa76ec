package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ArchiveSessionHandler archives the current conversation
// @Summary      Archive and start a new conversation
// @Description  Saves the current conversation to history (unless empty) and resets the session
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "Archived session ID, empty when nothing was saved"
// @Failure      500  {object}  map[string]string  "Failed to persist the archive"
// @Router       /api/sessions/archive [post]
func (h *Handlers) ArchiveSessionHandler(c *gin.Context) {
	uid := userID(c)
	sess := h.store.Get(uid)
	sess.Lock()
	defer sess.Unlock()

	archived := sess.Archive(h.store.Greeting())
	if archived == nil {
		c.JSON(http.StatusOK, gin.H{"archived_id": ""})
		return
	}
	if err := h.db.StoreHistorySession(uid, archived); err != nil {
		h.log.Errorw("failed to store history session", "user", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save conversation"})
		return
	}

	h.log.Infow("conversation archived", "user", uid, "session_id", archived.ID)
	c.JSON(http.StatusOK, gin.H{"archived_id": archived.ID})
}

// ListSessionsHandler lists archived conversations
// @Summary      List conversation history
// @Tags         Sessions
// @Produce      json
// @Success      200  {array}   models.HistorySession  "Archived conversations, newest first"
// @Failure      500  {object}  map[string]string      "Database error"
// @Router       /api/sessions [get]
func (h *Handlers) ListSessionsHandler(c *gin.Context) {
	sessions, err := h.db.ListHistorySessions(userID(c))
	if err != nil {
		h.log.Errorw("failed to list history sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSessionHandler loads one archived conversation
// @Summary      Get an archived conversation
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string                 true  "Session ID"
// @Success      200  {object}  models.HistorySession  "The archived conversation"
// @Failure      404  {object}  map[string]string      "Unknown session"
// @Router       /api/sessions/{id} [get]
func (h *Handlers) GetSessionHandler(c *gin.Context) {
	sess, err := h.db.GetHistorySession(userID(c), c.Param("id"))
	if err != nil {
		h.log.Errorw("failed to load history session", "session_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// DeleteSessionHandler removes one archived conversation
// @Summary      Delete an archived conversation
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string             true  "Session ID"
// @Success      200  {object}  map[string]string  "Deletion confirmation"
// @Failure      500  {object}  map[string]string  "Database error"
// @Router       /api/sessions/{id} [delete]
func (h *Handlers) DeleteSessionHandler(c *gin.Context) {
	if err := h.db.DeleteHistorySession(userID(c), c.Param("id")); err != nil {
		h.log.Errorw("failed to delete history session", "session_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}
