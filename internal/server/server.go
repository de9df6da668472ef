package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"seatflow/internal/auth"
	"seatflow/internal/availability"
	"seatflow/internal/config"
	"seatflow/internal/facility"
	"seatflow/internal/logger"
	"seatflow/internal/notify"
	"seatflow/internal/reservation"
	"seatflow/internal/suggestion"
	"seatflow/internal/user"
)

type Server struct {
	router       *gin.Engine
	http         *http.Server
	db           *sqlx.DB
	config       *config.Config
	reservations reservation.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service, cache *redis.Client) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	facilityRepo := facility.NewRepository(db)
	reservationRepo := reservation.NewRepository(db)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	facilityHandler := facility.NewHandler(facility.NewService(facilityRepo))
	availabilityHandler := availability.NewHandler(availability.NewService(facilityRepo, reservationRepo))
	suggestionHandler := suggestion.NewHandler(suggestion.NewService(facilityRepo, reservationRepo, cache))

	var asNotifier reservation.Notifier
	if notifier != nil {
		asNotifier = notifier
	}
	reservationService := reservation.NewService(reservationRepo, facilityRepo, userRepo, reservation.DefaultPolicy(), asNotifier)
	reservationHandler := reservation.NewHandler(reservationService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/facilities", facilityHandler.ListFacilities)
		protected.GET("/facilities/:facilityID", facilityHandler.GetFacility)
		protected.GET("/facilities/:facilityID/blocks", facilityHandler.ListBlocks)
		protected.GET("/blocks/:blockID/desks", facilityHandler.ListDesks)
		protected.GET("/desks/:deskID/seats", facilityHandler.ListSeats)

		protected.GET("/facilities/:facilityID/availability", availabilityHandler.BlockAvailability)
		protected.GET("/blocks/:blockID/availability", availabilityHandler.DeskAvailability)
		protected.GET("/desks/:deskID/occupied", availabilityHandler.OccupiedSeats)

		protected.GET("/facilities/:facilityID/suggestion", suggestionHandler.BestSlot)

		protected.POST("/reservations", reservationHandler.Create)
		protected.GET("/reservations", reservationHandler.List)
		protected.PATCH("/reservations/:reservationID", reservationHandler.Update)
		protected.POST("/reservations/:reservationID/cancel", reservationHandler.Cancel)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/facilities", facilityHandler.CreateFacility)
		admin.PUT("/facilities/:facilityID/schedule", facilityHandler.UpsertSchedule)
		admin.POST("/facilities/:facilityID/blocks", facilityHandler.CreateBlock)
		admin.POST("/blocks/:blockID/desks", facilityHandler.CreateDesk)
		admin.POST("/maintenance/complete-expired", reservationHandler.CompleteExpired)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics(notifier))

	return &Server{
		router:       router,
		db:           db,
		config:       cfg,
		reservations: reservationService,
	}
}

// RunCompletionSweep periodically marks reservations whose end time has
// passed as COMPLETED. Blocks until ctx is cancelled.
func (s *Server) RunCompletionSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.reservations.CompleteExpired(ctx)
			if err != nil {
				logger.Errorf("Completion sweep failed: %v", err)
				continue
			}
			if n > 0 {
				logger.Infof("Completion sweep marked %d reservations completed", n)
			}
		}
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
