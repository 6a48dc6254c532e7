package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventpulse/eventpulse-api/docs"
	v1 "github.com/eventpulse/eventpulse-api/internal/api/handler/v1"
	"github.com/eventpulse/eventpulse-api/internal/api/middleware"
	"github.com/eventpulse/eventpulse-api/internal/cache"
	"github.com/eventpulse/eventpulse-api/internal/config"
	"github.com/eventpulse/eventpulse-api/internal/repository"
	"github.com/eventpulse/eventpulse-api/internal/repository/dao"
	"github.com/eventpulse/eventpulse-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	eventSvc *service.EventService
}

func NewServer(conf *config.AppConfig, db *gorm.DB, redisClient *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	// The typed nil matters here: a (*cache.Cache)(nil) wrapped in the
	// interface would not compare equal to nil inside the services.
	var store service.Cache
	if redisClient != nil {
		store = cache.New(redisClient, conf.Redis.StatsTTL)
	}

	eventHandler := s.initEventHandler(db, store)
	checkInHandler, attendeeHandler := s.initCheckInHandlers(db, store)
	s.MountHandlers(eventHandler, checkInHandler, attendeeHandler)

	return s
}

// EventService exposes the event service for the status sweeper.
func (s *Server) EventService() *service.EventService {
	return s.eventSvc
}

func (s *Server) initEventHandler(db *gorm.DB, store service.Cache) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo, store)
	statsSvc := service.NewStatsService(repo, store)
	handler := v1.NewEventHandler(svc, statsSvc)

	s.eventSvc = svc

	return handler
}

func (s *Server) initCheckInHandlers(db *gorm.DB, store service.Cache) (*v1.CheckInHandler, *v1.AttendeeHandler) {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db), eventRepo)
	svc := service.NewCheckInService(eventRepo, attendeeRepo, store)
	eventSvc := service.NewEventService(eventRepo, store)

	return v1.NewCheckInHandler(svc, eventSvc), v1.NewAttendeeHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(eventHandler *v1.EventHandler, checkInHandler *v1.CheckInHandler, attendeeHandler *v1.AttendeeHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/checkin/:code", checkInHandler.HandleGetPublicEvent)
		public.POST("/checkin/:code", checkInHandler.HandleCheckIn)
	}

	organizer := s.Router.Group(basePath, middleware.RequireOrganizer())
	{
		organizer.POST("/events", eventHandler.HandleCreateEvent)
		organizer.GET("/events", eventHandler.HandleListEvents)
		organizer.GET("/events/:eventID", eventHandler.HandleGetEvent)
		organizer.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		organizer.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)

		organizer.GET("/events/:eventID/attendees", attendeeHandler.HandleListAttendees)
		organizer.POST("/events/:eventID/attendees", attendeeHandler.HandleRegisterAttendee)
		organizer.POST("/events/:eventID/attendees/:attendeeID/checkin", attendeeHandler.HandleMarkCheckedIn)

		organizer.GET("/stats", eventHandler.HandleGetStats)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EventPulse API"
	docs.SwaggerInfo.Description = "Event registration and attendance tracking API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
