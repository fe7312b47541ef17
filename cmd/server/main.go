package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/config"
	"github.com/teamleaf/teamops/internal/gateway"
	"github.com/teamleaf/teamops/internal/handler"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/internal/router"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/constant"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Initialize services
	userService := service.NewUserService(repos.User)
	teamService := service.NewTeamService(repos)
	convService := service.NewConversationService(repos)
	msgService := service.NewMessageService(repos, cfg)
	typingService := service.NewTypingService(repos.Redis, cfg.Sync.TypingWindow)
	presenceService := service.NewPresenceService(repos.Redis)
	timeOffService := service.NewTimeOffService(repos.TimeOff)
	timesheetService := service.NewTimesheetService(repos.Timesheet)
	holidayService := service.NewHolidayService(repos.Holiday)
	meetingService := service.NewMeetingService(repos.Meeting)

	// Initialize the change stream server and wire it as the event
	// publisher for every service that produces change events
	streamServer := gateway.NewStreamServer(cfg, repos, presenceService)
	convService.SetPublisher(streamServer)
	msgService.SetPublisher(streamServer)
	typingService.SetPublisher(streamServer)
	presenceService.SetPublisher(streamServer)
	timeOffService.SetPublisher(streamServer)
	timesheetService.SetPublisher(streamServer)
	holidayService.SetPublisher(streamServer)
	meetingService.SetPublisher(streamServer)

	// Start stream server
	go func() {
		if err := streamServer.Run(); err != nil {
			log.CtxError(ctx, "stream server error: %v", err)
		}
	}()
	log.CtxInfo(ctx, "stream server started on port %d", cfg.Stream.Port)

	// Initialize handlers
	handlers := &router.Handlers{
		User:         handler.NewUserHandler(userService),
		Team:         handler.NewTeamHandler(teamService),
		Conversation: handler.NewConversationHandler(convService),
		Message:      handler.NewMessageHandler(msgService),
		Typing:       handler.NewTypingHandler(typingService),
		Presence:     handler.NewPresenceHandler(presenceService),
		TimeOff:      handler.NewTimeOffHandler(timeOffService),
		Timesheet:    handler.NewTimesheetHandler(timesheetService),
		Holiday:      handler.NewHolidayHandler(holidayService),
		Meeting:      handler.NewMeetingHandler(meetingService),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if err := streamServer.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "stream server shutdown error: %v", err)
	}
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
