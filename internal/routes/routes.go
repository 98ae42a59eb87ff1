package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneacademy/internal/authz"
	"oneacademy/internal/handlers"
	"oneacademy/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	registerHandler *handlers.RegisterHandler,
	userHandler *handlers.UserHandler,
	roleHandler *handlers.RoleHandler,
	courseHandler *handlers.CourseHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/login", authHandler.Login)
	r.POST("/register", registerHandler.Register)
	r.POST("/register/confirm", registerHandler.ConfirmOTP)
	r.POST("/register/resend", registerHandler.ResendOTP)
	r.POST("/password/forgot", authHandler.ForgotPassword)
	r.POST("/password/reset", authHandler.ResetPassword)

	// catalog browsing is public; a bearer token, when present, attaches the
	// caller's purchase state to the detail view
	catalog := r.Group("/courses", middleware.OptionalAuth(jwtSecret))
	{
		catalog.GET("/", courseHandler.ListCourses)
		catalog.GET("/:courseId", courseHandler.GetCourse)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	users := r.Group("/users")
	{
		users.GET("/me", userHandler.GetMe)
		users.PUT("/me", userHandler.UpdateMe)
		users.PUT("/me/password", userHandler.ChangePassword)
		users.GET("/me/transactions", userHandler.MyTransactions)
	}

	roles := r.Group("/roles")
	{
		roles.GET("/", roleHandler.ListRoles)
		roles.POST("/", middleware.RequireRoles(authz.RoleAdmin), roleHandler.CreateRole)
	}

	admin := r.Group("/courses", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.POST("/", courseHandler.CreateCourse)
		admin.PUT("/:courseId", courseHandler.UpdateCourse)
		admin.DELETE("/:courseId", courseHandler.DeleteCourse)
	}

	return r
}
