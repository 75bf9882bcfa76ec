package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"superai/ai"
	"superai/charts"
	"superai/models"
	"superai/validation"
)

// chartKeywords gates chart rendering: an agent reply's chart instructions
// are only honored when the user actually asked for a visual.
var chartKeywords = []string{
	"图表", "柱状图", "折线图", "饼图", "可视化", "展示图",
	"散点图", "箱线图", "直方图", "面积图", "月度销售额",
}

func wantsChart(message string) bool {
	for _, kw := range chartKeywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// ChatHandler runs one conversation turn through the active assistant backend
// @Summary      Send a chat message
// @Description  Routes the message to the plain chat, data analysis or document Q&A backend depending on what data the session holds
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest  true  "Chat request with message"
// @Header       200      {string}  X-User-ID           "Optional user ID, defaults to admin"
// @Success      200      {object}  models.ChatResponse "Assistant reply"
// @Failure      400      {object}  map[string]string   "Invalid request"
// @Router       /api/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := validation.ValidatePrompt(req.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := userID(c)
	sess := h.store.Get(uid)
	sess.Lock()
	defer sess.Unlock()

	sess.Append(models.RoleHuman, req.Message)

	// Whatever goes wrong below, the turn must end with an assistant
	// message and a well-formed response body.
	answered := false
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorw("chat turn panicked", "user", uid, "panic", r)
			if !answered {
				sess.Append(models.RoleAI, ai.ChatFallbackAnswer)
				c.JSON(http.StatusOK, models.ChatResponse{
					Response: ai.ChatFallbackAnswer,
					Mode:     sess.Mode,
					Error:    "internal error",
				})
			}
		}
	}()

	result, mode := h.router.Route(c.Request.Context(), sess, req.Message)

	answer := result.Answer
	if strings.TrimSpace(answer) == "" {
		answer = ai.EmptyAnswer
	}

	var chartSpecs []models.ChartSpec
	var chartFiles []string
	if wantsChart(req.Message) {
		for _, spec := range result.Charts {
			filename, err := charts.Render(spec, h.productsDir)
			if err != nil {
				h.log.Warnw("chart render failed", "user", uid, "type", spec.Type, "error", err)
				answer += "\n\n图表生成失败: " + err.Error()
				continue
			}
			chartSpecs = append(chartSpecs, spec)
			chartFiles = append(chartFiles, filename)
		}
	}

	sess.Remember(req.Message, answer)
	sess.Append(models.RoleAI, answer)
	answered = true

	h.log.Infow("chat turn", "user", uid, "mode", mode, "charts", len(chartFiles))
	c.JSON(http.StatusOK, models.ChatResponse{
		Response:   answer,
		Mode:       mode,
		Charts:     chartSpecs,
		ChartFiles: chartFiles,
		Error:      result.Error,
	})
}
