package api

import (
	"alcyxob/fitness-admin/internal/guard"
	"alcyxob/fitness-admin/internal/service"
	"alcyxob/fitness-admin/internal/storage"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Guard      *guard.Guard
	Auth       service.AuthService
	Dashboard  service.DashboardService
	Categories service.CategoryService
	Exercises  service.ExerciseService
	Workouts   service.WorkoutService
	Videos     service.VideoService
	Profiles   service.ProfileService

	// MediaFiles, when set, is served under /media for the in-memory storage driver.
	MediaFiles *storage.MemoryStorage
	// Metrics, when set, is mounted on /metrics.
	Metrics http.Handler

	SecureCookies bool
}

// NewRouter builds the gin engine with templates, logging and every route.
func NewRouter(svc Services, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	router.MaxMultipartMemory = maxUploadBytes
	router.SetHTMLTemplate(loadTemplates())
	SetupRoutes(router, svc)
	return router
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.SecureCookies)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)
	categoryHandler := NewCategoryHandler(svc.Categories)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	videoHandler := NewVideoHandler(svc.Videos)
	userHandler := NewUserHandler(svc.Profiles)

	requireAdmin := RequireAdmin(svc.Guard)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if svc.Metrics != nil {
		router.GET("/metrics", gin.WrapH(svc.Metrics))
	}
	if svc.MediaFiles != nil {
		router.GET("/media/*path", serveMemoryMedia(svc.MediaFiles))
	}

	// --- Public pages ---
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/register", authHandler.RegisterPage)
	router.POST("/register", authHandler.Register)
	router.POST("/logout", authHandler.Logout)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.APILogin)
		apiV1.GET("/me", requireAdmin, authHandler.Me)
	}

	// --- Console (admin only) ---
	console := router.Group("")
	console.Use(requireAdmin)
	{
		console.GET("/", dashboardHandler.Show)

		categories := console.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/new", categoryHandler.New)
			categories.POST("/new", categoryHandler.Create)
			categories.GET("/:id", categoryHandler.Edit)
			categories.POST("/:id", categoryHandler.Update)
			categories.POST("/:id/delete", categoryHandler.Delete)
		}

		exercises := console.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.List)
			exercises.GET("/new", exerciseHandler.New)
			exercises.POST("/new", exerciseHandler.Create)
			exercises.GET("/:id", exerciseHandler.Edit)
			exercises.POST("/:id", exerciseHandler.Update)
			exercises.POST("/:id/delete", exerciseHandler.Delete)
		}

		workouts := console.Group("/workouts")
		{
			workouts.GET("", workoutHandler.List)
			workouts.GET("/new", workoutHandler.New)
			workouts.POST("/new", workoutHandler.Create)
			workouts.GET("/:id", workoutHandler.Edit)
			workouts.POST("/:id", workoutHandler.Update)
			workouts.POST("/:id/delete", workoutHandler.Delete)
			workouts.POST("/:id/exercises", workoutHandler.AddExercise)
			workouts.POST("/:id/exercises/:linkId/delete", workoutHandler.RemoveExercise)
		}

		videos := console.Group("/videos")
		{
			videos.GET("", videoHandler.List)
			videos.GET("/new", videoHandler.New)
			videos.POST("/new", videoHandler.Create)
			videos.GET("/:id", videoHandler.Edit)
			videos.POST("/:id", videoHandler.Update)
			videos.POST("/:id/delete", videoHandler.Delete)
		}

		users := console.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("/:id/role", userHandler.ToggleRole)
			users.POST("/:id/ban", userHandler.ToggleBan)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		notFound(c)
	})
}

// serveMemoryMedia exposes objects held by the in-memory storage driver.
func serveMemoryMedia(files *storage.MemoryStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, ok := files.Get(c.Param("path"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		contentType := obj.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(obj.Data)
		}
		c.Data(http.StatusOK, contentType, obj.Data)
	}
}
