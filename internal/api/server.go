package api

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/farmlog/farmlog-api/docs"
	v1 "github.com/farmlog/farmlog-api/internal/api/handler/v1"
	"github.com/farmlog/farmlog-api/internal/api/middleware"
	"github.com/farmlog/farmlog-api/internal/config"
	"github.com/farmlog/farmlog-api/internal/repository"
	"github.com/farmlog/farmlog-api/internal/repository/dao"
	"github.com/farmlog/farmlog-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	auth  *v1.AuthHandler
	user  *v1.UserHandler
	farm  *v1.FarmHandler
	stats *v1.StatsHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	farmRepo := repository.NewFarmRepository(dao.NewFarmDAO(db))
	uSvc := service.NewUserService(userRepo)

	s.MountHandlers(handlers{
		auth:  s.initAuthHandler(userRepo),
		user:  v1.NewUserHandler(uSvc),
		farm:  s.initFarmHandler(farmRepo, userRepo, uSvc),
		stats: s.initStatsHandler(db, farmRepo, uSvc),
	})

	return s
}

func (s *Server) initAuthHandler(userRepo *repository.UserRepository) *v1.AuthHandler {
	svc := service.NewAuthService(userRepo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initFarmHandler(farmRepo *repository.FarmRepository, userRepo *repository.UserRepository, uSvc *service.UserService) *v1.FarmHandler {
	svc := service.NewFarmService(farmRepo, userRepo)
	handler := v1.NewFarmHandler(svc, uSvc)

	return handler
}

func (s *Server) initStatsHandler(db *gorm.DB, farmRepo *repository.FarmRepository, uSvc *service.UserService) *v1.StatsHandler {
	statsDAO := dao.NewStatsDAO(db, s.Config.Stats.MaxRows)
	repo := repository.NewStatsRepository(statsDAO)
	svc := service.NewStatsService(repo, farmRepo)
	handler := v1.NewStatsHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Prometheus())
	s.Router.Use(middleware.NewRateLimiter(s.Config.API.RateLimitRPS, s.Config.API.RateLimitBurst).Limit())
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/register", h.auth.HandleRegister)
		auth.POST("/auth/login", h.auth.HandleLogin)
		auth.POST("/auth/password-reset-secret", h.auth.HandleSecretQuestion)
		auth.PUT("/auth/password-reset-secret", h.auth.HandleResetPassword)
	}

	private := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		private.GET("/users/profile", h.user.HandleGetProfile)
		private.PUT("/users/profile", h.user.HandleUpdateProfile)
		private.DELETE("/users/profile", h.user.HandleDeleteProfile)

		private.GET("/games", h.farm.HandleListGames)
		private.POST("/games", h.farm.HandleCreateGame)
		private.GET("/games/:game", h.farm.HandleGetGame)
		private.DELETE("/games/:game", h.farm.HandleDeleteGame)

		private.GET("/games/:game/farm-sources", h.farm.HandleListSources)
		private.POST("/games/:game/farm-sources", h.farm.HandleCreateSource)
		private.GET("/games/:game/farm-sources/:source/rewards", h.farm.HandleListRewards)

		private.GET("/games/:game/farm-events", h.farm.HandleListEvents)
		private.POST("/games/:game/farm-events", h.farm.HandleCreateEvent)
		private.GET("/games/:game/farm-events/history", h.farm.HandleHistory)
		private.GET("/games/:game/farm-events/:event", h.farm.HandleGetEvent)
		private.DELETE("/games/:game/farm-events/:event", h.farm.HandleDeleteEvent)

		private.GET("/user-stats", h.stats.HandleUserStats)
		private.GET("/games/:game/farm-stats", h.stats.HandleFarmStats)
		private.GET("/games/:game/stats/drop-rate", h.stats.HandleDropRate)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		pprof.Register(s.Router)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "FarmLog API"
	docs.SwaggerInfo.Description = "Farming runs, drops and drop statistics."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
