package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "ipodeck/internal/app"
	"ipodeck/internal/bootstrap"
	"ipodeck/internal/transport/http/handler"
	"ipodeck/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(app.Logger))
	router.Use(cors.New(corsConfig(app.Config.CORS.Origins)))

	analysisService := appsvc.NewAnalysisService(
		app.Analyses,
		app.LLM,
		nil,
		app.Config.LLM.Model,
		app.Config.MaxUploadBytes(),
		app.Logger,
	)

	var historyCache appsvc.HistoryCache
	if app.HistoryCache != nil {
		historyCache = app.HistoryCache
	}
	chatService := appsvc.NewChatService(
		app.Analyses,
		app.Conversations,
		historyCache,
		app.LLM,
		appsvc.ChatOptions{
			ChatModel:      app.Config.LLM.Model,
			SummaryModel:   app.Config.LLM.SummaryModel,
			SummarizeEvery: app.Config.Chat.SummarizeEvery,
			KeepRecent:     app.Config.Chat.KeepRecent,
			RecentWindow:   app.Config.Chat.RecentWindow,
			MaxReplyTokens: app.Config.Chat.MaxReplyTokens,
		},
		app.Logger,
	)

	healthHandler := handler.NewHealthHandler(app)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	chatHandler := handler.NewChatHandler(chatService)

	router.GET("/", healthHandler.Root)
	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")
	v1.POST("/analyses", analysisHandler.Analyze)
	v1.GET("/analyses", analysisHandler.List)
	v1.GET("/analyses/:id", analysisHandler.Get)
	v1.GET("/criteria", analysisHandler.Criteria)

	chatGroup := v1.Group("/chat")
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.POST("/messages/stream", chatHandler.StreamMessage)
	chatGroup.GET("/conversations", chatHandler.ListConversations)
	chatGroup.GET("/history", chatHandler.GetHistory)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
