package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// MeetingHandler handles meeting requests
type MeetingHandler struct {
	meetingService *service.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler
func NewMeetingHandler(meetingService *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// ScheduleMeeting handles schedule meeting request
func (h *MeetingHandler) ScheduleMeeting(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.ScheduleMeetingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	meeting, err := h.meetingService.ScheduleMeeting(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, meeting.ToMeetingInfo())
}

// ListMeetings handles list meetings request. from / to are unix-milli
// bounds on the meeting start time.
func (h *MeetingHandler) ListMeetings(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	from, _ := strconv.ParseInt(c.Query("from"), 10, 64)
	to, _ := strconv.ParseInt(c.Query("to"), 10, 64)

	meetings, err := h.meetingService.ListMeetings(ctx, from, to)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	infos := make([]interface{}, 0, len(meetings))
	for _, m := range meetings {
		infos = append(infos, m.ToMeetingInfo())
	}

	response.Success(ctx, c, map[string]interface{}{
		"meetings": infos,
	})
}

// CancelMeeting handles cancel meeting request
func (h *MeetingHandler) CancelMeeting(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	meetingId := c.Param("meeting_id")
	if meetingId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.meetingService.CancelMeeting(ctx, userId, meetingId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
