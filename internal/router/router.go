package router

import (
	"net/http"

	"github.com/nirajkr26/linkly/config"
	"github.com/nirajkr26/linkly/internal/handler"
	"github.com/nirajkr26/linkly/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func Router(cfg *config.Config, linkHandler *handler.LinkHandler, userHandler *handler.UserHandler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.POST("/google/callback", userHandler.GoogleCallback)
		auth.GET("/me", middleware.JWTAuth(&cfg.JWT), userHandler.Me)
	}

	api := r.Group("/api")
	{
		api.POST("/create", middleware.OptionalJWTAuth(&cfg.JWT), linkHandler.Create)
		api.POST("/verify-password", linkHandler.VerifyPassword)

		api.GET("/urls", middleware.JWTAuth(&cfg.JWT), linkHandler.List)
		api.PATCH("/urls/:id", middleware.JWTAuth(&cfg.JWT), linkHandler.Update)
		api.DELETE("/urls/:id", middleware.JWTAuth(&cfg.JWT), linkHandler.Delete)
		api.GET("/analytics/:alias", middleware.JWTAuth(&cfg.JWT), linkHandler.Analytics)
	}

	r.GET("/:alias", linkHandler.Redirect)

	return r
}
