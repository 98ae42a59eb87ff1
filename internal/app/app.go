package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"oneacademy/internal/cache"
	"oneacademy/internal/config"
	"oneacademy/internal/handlers"
	"oneacademy/internal/repositories"
	"oneacademy/internal/routes"
	"oneacademy/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "oneacademy/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Cache (optional) ===
	courseCache := cache.New(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.CourseTTLSeconds)*time.Second,
	)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	courseRepo := repositories.NewCourseRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	otpGen := services.NewOTPGenerator(time.Now().UnixNano())
	tokenService := services.NewTokenService(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	accountService := services.NewAccountService(
		userRepo,
		profileRepo,
		authService,
		otpGen,
		tokenService,
		emailService,
		time.Duration(cfg.Auth.OTPTTLMinutes)*time.Minute,
		cfg.App.ResetBaseURL,
	)
	userService := services.NewUserService(userRepo, profileRepo, courseRepo, authService)
	roleService := services.NewRoleService(roleRepo)
	courseService := services.NewCourseService(courseRepo, courseCache)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService)
	registerHandler := handlers.NewRegisterHandler(accountService)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	courseHandler := handlers.NewCourseHandler(courseService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		cfg.Auth.JWTSecret,
		authHandler,
		registerHandler,
		userHandler,
		roleHandler,
		courseHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
