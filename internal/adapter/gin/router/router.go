package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog-service/internal/adapter/gin/handler"
	"book-catalog-service/internal/adapter/gin/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Auth *handler.AuthHandler
	Book *handler.BookHandler
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil, which disables rate limiting.
func SetupRouter(
	h Handlers,
	authn middleware.Authenticator,
	rateLimiter *middleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(rateLimiter.Handler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", h.Auth.SignUp)
			authRoutes.POST("/login", h.Auth.Login)
		}

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)

			protected := books.Group("", middleware.Auth(authn, log))
			protected.POST("", h.Book.CreateBook)
			protected.PUT("/:id", h.Book.UpdateBook)
			protected.DELETE("/:id", h.Book.DeleteBook)
		}
	}

	return router
}
