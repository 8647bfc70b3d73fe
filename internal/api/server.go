package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/ojass-festival/ojass-api/docs"
	v1 "github.com/ojass-festival/ojass-api/internal/api/handler/v1"
	"github.com/ojass-festival/ojass-api/internal/api/middleware"
	"github.com/ojass-festival/ojass-api/internal/config"
	"github.com/ojass-festival/ojass-api/internal/metrics"
	"github.com/ojass-festival/ojass-api/internal/pkg/cookiepolicy"
	"github.com/ojass-festival/ojass-api/internal/repository"
	"github.com/ojass-festival/ojass-api/internal/repository/dao"
	"github.com/ojass-festival/ojass-api/internal/service"
)

const loginURL = "/auth/login"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	cookies := cookiepolicy.NewResolver(conf.API.ApexDomain, conf.API.IsProduction())

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	regRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db), userRepo)

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo, regRepo)
	regSvc := service.NewRegistrationService(regRepo, eventRepo, userRepo)
	paymentSvc := service.NewPaymentService(userRepo, conf.Stripe)

	authHandler := v1.NewAuthHandler(conf.API, cookies, authSvc)
	userHandler := v1.NewUserHandler(userSvc)
	eventHandler := v1.NewEventHandler(eventSvc, userSvc)
	regHandler := v1.NewRegistrationHandler(regSvc, paymentSvc, userSvc)

	guard := middleware.NewAuthenticator(conf.API.JWTSigningKey, cookies, loginURL)

	s.MountHandlers(guard, userSvc, authHandler, userHandler, eventHandler, regHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(metrics.Middleware())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	guard *middleware.Authenticator,
	userSvc middleware.UserGetter,
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	regHandler *v1.RegistrationHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.POST("/auth/logout", authHandler.HandleLogout)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	authed := s.Router.Group(basePath, guard.VerifyJWT())
	{
		authed.GET("/users/me", userHandler.HandleGetMe)
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.GET("/users/code/:ojassID", userHandler.HandleGetUserByCode)
		authed.GET("/registrations", regHandler.HandleListMine)
		authed.POST("/payments/confirm", regHandler.HandleConfirmPayment)
	}

	paid := s.Router.Group(basePath, guard.VerifyJWT(), guard.RequirePaid(userSvc))
	{
		paid.POST("/registrations", regHandler.HandleRegister)
	}

	admin := s.Router.Group(basePath+"/admin", guard.VerifyJWT(), guard.RequireAdmin())
	{
		admin.POST("/events", eventHandler.HandleCreateEvent)
		admin.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		admin.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		admin.GET("/events/:eventID/registrations", regHandler.HandleListForEvent)
		admin.POST("/registrations/:registrationID/verify", regHandler.HandleVerify)
		admin.POST("/registrations/:registrationID/reject", regHandler.HandleReject)
		admin.GET("/users/:userID/referrals", regHandler.HandleReferrals)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "OJASS API"
	docs.SwaggerInfo.Description = "Festival platform API: auth, events and team registrations."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
