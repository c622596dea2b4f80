package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/controllers"
	"github.com/yigit/academy/internal/middleware"
	"github.com/yigit/academy/internal/pkg/websocket"
)

// Controllers groups every HTTP handler mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Course  *controllers.CourseController
	Class   *controllers.ClassController
	Video   *controllers.VideoController
	Comment *controllers.CommentController
	EBook   *controllers.EBookController
	Health  *controllers.HealthController
	Live    *websocket.Handler
}

// SetupCORS applies the CORS policy. An origin of "*" allows any origin.
func SetupCORS(router *gin.Engine, allowedOrigins []string) {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range allowedOrigins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}

	router.Use(cors.New(cfg))
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Controllers, authMiddleware *middleware.AuthMiddleware, uploadsDir string) {
	router.Static("/uploads", uploadsDir)

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", h.Auth.Me)
	authenticated.POST("/auth/logout", h.Auth.Logout)
	authenticated.GET("/auth/route", h.User.Route)

	me := authenticated.Group("/me")
	{
		me.PUT("/push-token", h.User.RegisterPushToken)
		me.DELETE("/push-token", h.User.DeletePushToken)
	}

	staff := authMiddleware.StaffRequired()
	admin := authMiddleware.AdminRequired()

	courses := authenticated.Group("/courses")
	{
		courses.GET("", h.Course.ListCourses)
		courses.POST("", admin, h.Course.CreateCourse)
		courses.GET("/:id", h.Course.GetCourse)
		courses.DELETE("/:id", admin, h.Course.DeleteCourse)

		// Enrollment
		courses.GET("/:id/students", staff, h.Course.ListStudents)
		courses.POST("/:id/enroll", h.Course.RequestEnrollment)
		courses.POST("/:id/students/:userId/approve", admin, h.Course.ApproveEnrollment)

		// Weekly schedule and completion
		courses.GET("/:id/schedule", h.Course.GetSchedule)
		courses.PUT("/:id/schedule", admin, h.Course.UpdateSchedule)
		courses.POST("/:id/complete", admin, h.Course.MarkCompleted)

		// Live classes
		courses.POST("/:id/classes", staff, h.Class.ScheduleClass)
		courses.POST("/:id/classes/:classId/toggle", staff, h.Class.ToggleClassStatus)
		courses.DELETE("/:id/classes/:classId", staff, h.Class.DeleteScheduledClass)
		courses.GET("/:id/live/ws", h.Live.HandleConnection)

		// Recorded classes and their comments
		courses.GET("/:id/videos", h.Video.ListVideos)
		courses.POST("/:id/videos", staff, h.Video.AddVideo)
		courses.DELETE("/:id/videos/:videoId", staff, h.Video.DeleteVideo)

		comments := courses.Group("/:id/videos/:videoId/comments")
		{
			comments.GET("", h.Comment.ListComments)
			comments.POST("", h.Comment.AddComment)
			comments.DELETE("/:commentId", h.Comment.DeleteComment)
			comments.POST("/:commentId/replies", h.Comment.AddReply)
			comments.POST("/:commentId/like", h.Comment.ToggleLike)
		}

		// eBooks
		courses.GET("/:id/ebooks", h.EBook.ListEBooks)
		courses.POST("/:id/ebooks", staff, h.EBook.UploadEBook)
		courses.DELETE("/:id/ebooks/:ebookId", staff, h.EBook.DeleteEBook)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}
