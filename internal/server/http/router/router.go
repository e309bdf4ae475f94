package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/dsmirnov/coursegate/internal/config"
	"github.com/dsmirnov/coursegate/internal/server/http/handlers"
	"github.com/dsmirnov/coursegate/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PlatformFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade, cfg.GatewayWebhookSecret)
	enrollmentHandler := handlers.NewEnrollmentHandler(facade)
	examHandler := handlers.NewExamHandler(facade)

	api := engine.Group("/api")

	// the gateway authenticates with a body signature, not a bearer token
	api.POST("/gateway/webhook", webhookHandler.Handle)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/checkout", checkoutHandler.Checkout)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:number", orderHandler.Get)
	authed.GET("/enrollments", enrollmentHandler.List)
	authed.POST("/exams/:id/start", examHandler.Start)
	authed.POST("/exams/:id/submit", examHandler.Submit)
	authed.GET("/exams/:id/attempts", examHandler.Attempts)
	authed.POST("/lessons/:id/watched", examHandler.LessonWatched)
	authed.GET("/modules/:id/progress", examHandler.Progress)

	return engine
}
