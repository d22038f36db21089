package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/unidrl/campus-connect/docs"
	v1 "github.com/unidrl/campus-connect/internal/api/handler/v1"
	"github.com/unidrl/campus-connect/internal/api/middleware"
	"github.com/unidrl/campus-connect/internal/config"
	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/kvstore"
	"github.com/unidrl/campus-connect/internal/repository"
	"github.com/unidrl/campus-connect/internal/repository/dao"
	"github.com/unidrl/campus-connect/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	Events   *service.EventService
	Auth     *service.AuthService
	Checkout *service.CheckoutService
	Live     *v1.LiveHandler
}

type repositories struct {
	users         *repository.UserRepository
	events        *repository.EventRepository
	registrations *repository.RegistrationRepository
	checkoutQRs   *repository.CheckoutQRRepository
	badgeConfigs  *repository.BadgeConfigRepository
}

func newRepositories(store kvstore.Store) repositories {
	return repositories{
		users:         repository.NewUserRepository(dao.NewUserDAO(store)),
		events:        repository.NewEventRepository(dao.NewEventDAO(store)),
		registrations: repository.NewRegistrationRepository(dao.NewRegistrationDAO(store)),
		checkoutQRs:   repository.NewCheckoutQRRepository(dao.NewCheckoutQRDAO(store)),
		badgeConfigs:  repository.NewBadgeConfigRepository(dao.NewBadgeConfigDAO(store)),
	}
}

// NewServer wires every layer on top of store. Live.Run must be started
// for the live feed to deliver anything.
func NewServer(conf *config.AppConfig, store kvstore.Store) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	repos := newRepositories(store)

	s := &Server{
		Config:   conf,
		Router:   engine,
		Events:   service.NewEventService(repos.events, repos.registrations),
		Auth:     service.NewAuthService(repos.users),
		Checkout: service.NewCheckoutService(repos.checkoutQRs, repos.registrations, repos.events, repos.badgeConfigs),
		Live:     v1.NewLiveHandler(conf.API.AllowedCORSDomains),
	}
	s.Checkout.SetDefaultValidity(conf.Checkout.DefaultValidity())
	s.Checkout.SetNotifier(s.Live)

	registrationSvc := service.NewRegistrationService(repos.registrations, repos.events)
	registrationSvc.SetNotifier(s.Live)

	userSvc := service.NewUserService(repos.users)
	badgeSvc := service.NewBadgeService(repos.badgeConfigs, repos.events)

	s.MountMiddlewares()
	s.MountHandlers(handlers{
		auth:         v1.NewAuthHandler(conf.API, s.Auth),
		user:         v1.NewUserHandler(userSvc),
		event:        v1.NewEventHandler(s.Events),
		registration: v1.NewRegistrationHandler(registrationSvc, userSvc, conf.Checkout.QRImageURL),
		checkout:     v1.NewCheckoutHandler(s.Checkout, userSvc, conf.Checkout.QRImageURL),
		badge:        v1.NewBadgeHandler(badgeSvc),
		live:         s.Live,
	})

	return s
}

type handlers struct {
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	event        *v1.EventHandler
	registration *v1.RegistrationHandler
	checkout     *v1.CheckoutHandler
	badge        *v1.BadgeHandler
	live         *v1.LiveHandler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", h.auth.HandleSignup)
		public.POST("/auth/login", h.auth.HandleLogin)
		public.GET("/events", h.event.HandleListEvents)
		public.GET("/events/:eventID", h.event.HandleGetEvent)
	}

	users := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		users.GET("/users/me", h.user.HandleGetMe)
		users.POST("/events/:eventID/registrations", h.registration.HandleRegister)
		users.GET("/registrations/me", h.registration.HandleListMyRegistrations)
		users.POST("/checkout/verify", h.checkout.HandleVerifyQR)
		users.POST("/checkout", h.checkout.HandleCheckout)
		users.POST("/checkout/quiz", h.checkout.HandleSubmitQuiz)
	}

	admins := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireRole(domain.RoleAdmin))
	{
		admins.POST("/events", h.event.HandleCreateEvent)
		admins.PUT("/events/:eventID", h.event.HandleUpdateEvent)
		admins.GET("/events/:eventID/registrations", h.registration.HandleListEventRegistrations)
		admins.POST("/events/:eventID/registrations/:mssv/absent", h.registration.HandleMarkAbsent)
		admins.DELETE("/events/:eventID/registrations/:mssv", h.registration.HandleCancel)
		admins.GET("/events/:eventID/statistics", h.registration.HandleEventStatistics)
		admins.GET("/statistics", h.registration.HandleStatistics)
		admins.POST("/registrations/check-in", h.registration.HandleCheckIn)
		admins.POST("/events/:eventID/checkout-qr", h.checkout.HandleIssueQR)
		admins.GET("/events/:eventID/checkout-qr", h.checkout.HandleGetQR)
		admins.DELETE("/events/:eventID/checkout-qr", h.checkout.HandleDeleteQR)
		admins.GET("/events/:eventID/badge-config", h.badge.HandleGetBadgeConfig)
		admins.PUT("/events/:eventID/badge-config", h.badge.HandleSetBadgeConfig)
		admins.GET("/events/:eventID/live", h.live.HandleLiveFeed)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus Connect API"
	docs.SwaggerInfo.Description = "Event registration, check-in and checkout for VNUK students."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
