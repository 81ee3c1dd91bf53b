package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type RouterDeps struct {
	JWT     *auth.JWTService
	Logger  logger.Logger
	Metrics *Metrics
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins []string

	Auth    *AuthHandler
	User    *UserHandler
	Profile *ProfileHandler
	Post    *PostHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(d.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Content-Length", "Authorization", headerAuthToken, "Accept", "Origin"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", d.Metrics.Handler())
	}
	router.Use(RequestLogger(d.Logger))
	router.Use(ErrorMiddleware(d.Logger))

	authMiddleware := AuthMiddleware(d.JWT, d.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "OK"})
		})

		api.POST("/users", d.Auth.Register)
		api.POST("/auth", d.Auth.Login)
		api.GET("/auth", authMiddleware, d.Auth.Me)
		api.PUT("/users/me/avatar", authMiddleware, d.User.UploadAvatar)

		profile := api.Group("/profile")
		{
			profile.GET("", d.Profile.ListProfiles)
			profile.GET("/user/:user_id", d.Profile.GetProfileByUserID)

			private := profile.Group("")
			private.Use(authMiddleware)
			{
				private.GET("/me", d.Profile.GetMyProfile)
				private.POST("", d.Profile.UpsertProfile)
				private.DELETE("", d.Profile.DeleteAccount)

				private.PUT("/experience", d.Profile.AddExperience)
				private.PUT("/experience/:exp_id", d.Profile.UpdateExperience)
				private.DELETE("/experience/:exp_id", d.Profile.DeleteExperience)

				private.PUT("/education", d.Profile.AddEducation)
				private.PUT("/education/:edu_id", d.Profile.UpdateEducation)
				private.DELETE("/education/:edu_id", d.Profile.DeleteEducation)
			}
		}

		posts := api.Group("/posts")
		posts.Use(authMiddleware)
		{
			posts.POST("", d.Post.CreatePost)
			posts.GET("", d.Post.ListPosts)
			posts.GET("/:id", d.Post.GetPost)
			posts.DELETE("/:id", d.Post.DeletePost)
		}
	}

	return router
}
