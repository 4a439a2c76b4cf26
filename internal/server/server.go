package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Alisl001/EMS/internal/auth"
	"github.com/Alisl001/EMS/internal/category"
	"github.com/Alisl001/EMS/internal/config"
	"github.com/Alisl001/EMS/internal/email"
	"github.com/Alisl001/EMS/internal/equipment"
	"github.com/Alisl001/EMS/internal/event"
	"github.com/Alisl001/EMS/internal/user"
	"github.com/Alisl001/EMS/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, redisClient *redis.Client) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	userRepo := user.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	equipmentRepo := equipment.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	eventRepo := event.NewRepository(db)

	userService := user.NewService(userRepo, walletRepo, redisClient, emailService, cfg.JWTSecret)
	eventService := event.NewService(db, eventRepo, equipmentRepo, categoryRepo,
		walletRepo, userRepo, emailService, cfg.Location)

	userHandler := user.NewHandler(userService)
	walletHandler := wallet.NewHandler(db)
	equipmentHandler := equipment.NewHandler(db)
	categoryHandler := category.NewHandler(db)
	eventHandler := event.NewHandler(eventService)

	api := router.Group("/api")

	public := api.Group("/")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register/", userHandler.Register)
		public.POST("/login/", userHandler.Login)
		public.POST("/token-refresh/", userHandler.Refresh)
		public.POST("/password-reset-request/", userHandler.PasswordResetRequest)
		public.POST("/password-reset-code-check/", userHandler.PasswordResetCheck)
		public.POST("/password-reset-confirm/", userHandler.PasswordResetConfirm)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/my-profile/", userHandler.MyProfile)
		protected.PUT("/my-profile/", userHandler.UpdateProfile)

		protected.GET("/wallets/my-wallet/", walletHandler.GetBalance)
		protected.POST("/wallets/add-funds/", walletHandler.AddFunds)
		protected.GET("/wallets/my-transactions/", walletHandler.ListTransactions)

		protected.GET("/categories/list/", categoryHandler.List)
		protected.GET("/equipment/list/", equipmentHandler.List)

		protected.POST("/events/create/", eventHandler.Create)
		protected.PUT("/events/update/:id/", eventHandler.Update)
		protected.POST("/events/cancel/:id/", eventHandler.Cancel)
		protected.GET("/events/details/:id/", eventHandler.Get)
		protected.GET("/events/my-events/", eventHandler.ListMine)
	}

	admin := api.Group("/")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/categories/create/", categoryHandler.Create)
		admin.PUT("/categories/update/:id/", categoryHandler.Update)
		admin.DELETE("/categories/delete/:id/", categoryHandler.Delete)

		admin.POST("/equipment/create/", equipmentHandler.Create)
		admin.PUT("/equipment/update/:id/", equipmentHandler.Update)
		admin.DELETE("/equipment/delete/:id/", equipmentHandler.Delete)

		admin.GET("/events/list/", eventHandler.ListAll)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
