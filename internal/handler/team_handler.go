package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// TeamHandler handles team requests
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam handles create team request
func (h *TeamHandler) CreateTeam(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateTeamRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	team, err := h.teamService.CreateTeam(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, team)
}

// GetTeam handles get team request
func (h *TeamHandler) GetTeam(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	teamId := c.Param("team_id")
	if teamId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	team, err := h.teamService.GetTeam(ctx, teamId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, team)
}

// AddMemberRequest represents add team member request
type AddMemberRequest struct {
	UserId string `json:"user_id"`
}

// AddMember handles add team member request. The new member also joins the
// team conversation.
func (h *TeamHandler) AddMember(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	teamId := c.Param("team_id")
	if teamId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req AddMemberRequest
	if err := c.BindAndValidate(&req); err != nil || req.UserId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.teamService.AddMember(ctx, teamId, req.UserId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
