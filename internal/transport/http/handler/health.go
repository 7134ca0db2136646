package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ipodeck/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "IPO Readiness PDF Analyzer API",
		"status":  "active",
	})
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	llmStatus := dependencyStatus{OK: h.app.Config.LLM.APIKey != ""}
	if !llmStatus.OK {
		llmStatus.Message = "api key not configured"
	}

	deps := gin.H{"llm": llmStatus}
	allOK := llmStatus.OK

	if h.app.Redis != nil {
		redisStatus := dependencyStatus{OK: true}
		if err := h.app.Redis.Ping(ctx).Err(); err != nil {
			redisStatus = dependencyStatus{OK: false, Message: err.Error()}
		}
		deps["redis"] = redisStatus
		allOK = allOK && redisStatus.OK
	}

	statusCode := http.StatusOK
	if !allOK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"app":          h.app.Config.App.Name,
		"env":          h.app.Config.App.Env,
		"uptime_sec":   int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": deps,
	})
}
