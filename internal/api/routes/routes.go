package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"alertautec-backend/internal/api/handlers"
	"alertautec-backend/internal/api/middleware"
	"alertautec-backend/internal/auth"
	"alertautec-backend/internal/config"
	"alertautec-backend/internal/logger"
	"alertautec-backend/internal/notify"
	"alertautec-backend/internal/realtime"
	"alertautec-backend/internal/repository"
	"alertautec-backend/internal/service"
)

// SetupRoutes configures all the routes for the application. The
// returned hub is handed back so main can attach the cross-instance
// bridge and close it on shutdown.
func SetupRoutes(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*gin.Engine, *realtime.Hub) {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Initialize validator
	validate := validator.New()

	// Initialize repositories
	incidentRepo := repository.NewIncidentRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)

	// Realtime hub and side-channel email publisher
	hub := realtime.NewHub(connectionRepo, log)
	var emailer service.EmailPublisher
	if cfg.EmailTopicURL != "" {
		emailer = notify.NewTopicPublisher(cfg.EmailTopicURL, log)
	}
	fanout := service.NewFanout(hub, emailer, notificationRepo, log)

	// Initialize services
	incidentService := service.NewIncidentService(incidentRepo, userRepo, fanout, validate)
	notificationService := service.NewNotificationService(notificationRepo, subscriptionRepo, userRepo, validate)
	authService := auth.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiresHours)*time.Hour)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	incidentHandler := handlers.NewIncidentHandler(incidentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	// Websocket entry point
	router.GET("/ws", hub.HandleConnection)

	// Auth routes
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/profile", authMiddleware.RequireAuth(), authHandler.Profile)
		authGroup.POST("/validate", authMiddleware.RequireAuth(), authHandler.Validate)
		authGroup.GET("/admins", authMiddleware.RequireAuth(), authMiddleware.RequireCapability(auth.CapListAdmins), authHandler.ListAdmins)
	}

	// API v1 routes, all behind authentication
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// Incident routes
		incidents := v1.Group("/incidents")
		{
			incidents.POST("", incidentHandler.Create)
			incidents.GET("", incidentHandler.List)
			incidents.GET("/admins-workload", incidentHandler.AdminsWorkload)
			incidents.GET("/:id", incidentHandler.GetByID)
			incidents.PUT("/:id", incidentHandler.Update)
			incidents.PUT("/:id/assign", incidentHandler.Assign)
			incidents.PUT("/:id/status", incidentHandler.UpdateStatus)
			incidents.DELETE("/:id", incidentHandler.Delete)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.POST("", notificationHandler.Create)
			notifications.GET("/user/:userId", notificationHandler.ListByUser)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.GET("/subscriptions", notificationHandler.ListSubscriptions)
			notifications.POST("/subscribe", notificationHandler.Subscribe)
			notifications.POST("/unsubscribe", notificationHandler.Unsubscribe)
		}
	}

	return router, hub
}
