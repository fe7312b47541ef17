package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/teamleaf/teamops/internal/handler"
	"github.com/teamleaf/teamops/internal/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	User         *handler.UserHandler
	Team         *handler.TeamHandler
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Typing       *handler.TypingHandler
	Presence     *handler.PresenceHandler
	TimeOff      *handler.TimeOffHandler
	Timesheet    *handler.TimesheetHandler
	Holiday      *handler.HolidayHandler
	Meeting      *handler.MeetingHandler
}

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers) {
	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Directory routes (auth required)
	userGroup := h.Group("/users", middleware.JWTAuth())
	{
		userGroup.GET("/me", handlers.User.GetMe)
		userGroup.GET("/batch", handlers.User.GetUsers)
		userGroup.GET("/:user_id", handlers.User.GetUser)
		userGroup.PUT("/me", handlers.User.UpdateProfile)
	}

	// Team routes (auth required)
	teamGroup := h.Group("/teams", middleware.JWTAuth())
	{
		teamGroup.POST("", handlers.Team.CreateTeam)
		teamGroup.GET("/:team_id", handlers.Team.GetTeam)
		teamGroup.POST("/:team_id/members", handlers.Team.AddMember)
	}

	// Conversation routes (auth required)
	convGroup := h.Group("/conversations", middleware.JWTAuth())
	{
		convGroup.GET("", handlers.Conversation.ListConversations)
		convGroup.POST("/direct", handlers.Conversation.StartDirect)
		convGroup.GET("/:conversation_id", handlers.Conversation.GetConversation)
		convGroup.POST("/:conversation_id/read", handlers.Conversation.MarkRead)
		convGroup.PUT("/:conversation_id/archive", handlers.Conversation.SetArchived)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/messages", middleware.JWTAuth())
	{
		msgGroup.POST("", handlers.Message.SendMessage)
		msgGroup.GET("", handlers.Message.ListMessages)
		msgGroup.PUT("/:message_id", handlers.Message.EditMessage)
		msgGroup.DELETE("/:message_id", handlers.Message.DeleteMessage)
	}

	// Typing routes (auth required)
	typingGroup := h.Group("/typing", middleware.JWTAuth())
	{
		typingGroup.POST("", handlers.Typing.Announce)
		typingGroup.GET("", handlers.Typing.ActiveTypists)
	}

	// Presence routes (auth required)
	presenceGroup := h.Group("/presence", middleware.JWTAuth())
	{
		presenceGroup.POST("", handlers.Presence.SetOnline)
		presenceGroup.GET("", handlers.Presence.QueryOnline)
	}

	// Leave calendar routes (auth required)
	timeOffGroup := h.Group("/time_off", middleware.JWTAuth())
	{
		timeOffGroup.POST("", handlers.TimeOff.CreateEntry)
		timeOffGroup.GET("", handlers.TimeOff.ListEntries)
		timeOffGroup.PUT("/:entry_id", handlers.TimeOff.UpdateEntry)
		timeOffGroup.DELETE("/:entry_id", handlers.TimeOff.DeleteEntry)
	}

	// Timesheet routes (auth required)
	timesheetGroup := h.Group("/timesheets", middleware.JWTAuth())
	{
		timesheetGroup.POST("", handlers.Timesheet.LogTime)
		timesheetGroup.GET("", handlers.Timesheet.ListEntries)
		timesheetGroup.PUT("/:entry_id", handlers.Timesheet.UpdateEntry)
		timesheetGroup.DELETE("/:entry_id", handlers.Timesheet.DeleteEntry)
	}

	// Holiday routes (auth required)
	holidayGroup := h.Group("/holidays", middleware.JWTAuth())
	{
		holidayGroup.POST("", handlers.Holiday.CreateHoliday)
		holidayGroup.GET("", handlers.Holiday.ListHolidays)
		holidayGroup.DELETE("/:holiday_id", handlers.Holiday.DeleteHoliday)
	}

	// Meeting routes (auth required)
	meetingGroup := h.Group("/meetings", middleware.JWTAuth())
	{
		meetingGroup.POST("", handlers.Meeting.ScheduleMeeting)
		meetingGroup.GET("", handlers.Meeting.ListMeetings)
		meetingGroup.DELETE("/:meeting_id", handlers.Meeting.CancelMeeting)
	}
}
