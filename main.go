package main

import (
	"net/http"
	"os"

	"articles-admin/config"
	"articles-admin/handlers"
	"articles-admin/middleware"
	"articles-admin/policies"
	"articles-admin/repositories"
	"articles-admin/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	config.InitLogger()

	db := config.InitDB()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)

	// Policy and services
	articlePolicy := policies.NewArticlePolicy(nil)
	authService := services.NewAuthService(userRepo)
	articleService := services.NewArticleService(db, articleRepo, articlePolicy, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService, articlePolicy)

	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)

			articles := protected.Group("/articles")
			{
				articles.GET("", articleHandler.GetArticles)
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.UpdateArticle)
				articles.DELETE("/:id", articleHandler.DeleteArticle)
				articles.POST("/:id/restore", articleHandler.RestoreArticle)
			}

			// Bulk actions live on their own prefix; gin does not allow a
			// static segment next to the :id wildcard.
			bulk := protected.Group("/articles-bulk")
			{
				bulk.POST("/delete", articleHandler.BulkDeleteArticles)
				bulk.POST("/restore", articleHandler.BulkRestoreArticles)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
