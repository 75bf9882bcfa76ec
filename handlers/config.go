package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"superai/config"
	"superai/models"
	"superai/validation"
)

// SessionStateHandler summarizes the live session
// @Summary      Get session state
// @Tags         Session
// @Produce      json
// @Success      200  {object}  models.SessionState  "Current mode, data source and message count"
// @Router       /api/session [get]
func (h *Handlers) SessionStateHandler(c *gin.Context) {
	sess := h.store.Get(userID(c))
	sess.Lock()
	defer sess.Unlock()
	c.JSON(http.StatusOK, sess.State())
}

// GetConfigHandler returns the session's model configuration
// @Summary      Get model configuration
// @Tags         Session
// @Produce      json
// @Success      200  {object}  map[string]any  "Current configuration plus the selectable bounds"
// @Router       /api/session/config [get]
func (h *Handlers) GetConfigHandler(c *gin.Context) {
	sess := h.store.Get(userID(c))
	sess.Lock()
	defer sess.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"config":           sess.Config,
		"supported_models": config.SupportedModels,
		"temperature_min":  config.TemperatureMin,
		"temperature_max":  config.TemperatureMax,
		"max_tokens_min":   config.MaxTokensMin,
		"max_tokens_max":   config.MaxTokensMax,
	})
}

// UpdateConfigHandler replaces the session's model configuration
// @Summary      Update model configuration
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request  body      models.ModelConfig  true  "New configuration"
// @Success      200      {object}  models.ModelConfig  "Applied configuration"
// @Failure      400      {object}  map[string]string   "Out-of-range or unsupported values"
// @Router       /api/session/config [put]
func (h *Handlers) UpdateConfigHandler(c *gin.Context) {
	var cfg models.ModelConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := validation.ValidateModelConfig(cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := h.store.Get(userID(c))
	sess.Lock()
	defer sess.Unlock()
	sess.Config = cfg

	h.log.Infow("model config updated", "user", sess.UserID, "model", cfg.Model)
	c.JSON(http.StatusOK, cfg)
}

// ResetMemoryHandler clears conversation memory without touching data
// @Summary      Reset conversation memory
// @Description  Clears the transcript and memory while keeping the uploaded data and configuration
// @Tags         Session
// @Produce      json
// @Success      200  {object}  map[string]string  "Reset confirmation"
// @Router       /api/session/reset [post]
func (h *Handlers) ResetMemoryHandler(c *gin.Context) {
	sess := h.store.Get(userID(c))
	sess.Lock()
	defer sess.Unlock()
	sess.ResetMemory(h.store.Greeting())

	c.JSON(http.StatusOK, gin.H{"message": "对话已重置"})
}
