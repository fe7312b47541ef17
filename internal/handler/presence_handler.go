package handler

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// PresenceHandler handles presence requests
type PresenceHandler struct {
	presenceService *service.PresenceService
}

// NewPresenceHandler creates a new PresenceHandler
func NewPresenceHandler(presenceService *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// SetOnlineRequest represents an explicit presence announcement
type SetOnlineRequest struct {
	Online bool `json:"online"`
}

// SetOnline handles an explicit online / offline announcement from a client
// that does not hold a stream connection.
func (h *PresenceHandler) SetOnline(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req SetOnlineRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.presenceService.SetOnline(ctx, userId, req.Online); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// QueryOnline returns the online flag for a batch of users. ids is comma
// separated.
func (h *PresenceHandler) QueryOnline(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	raw := c.Query("ids")
	if raw == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	online, err := h.presenceService.QueryOnline(ctx, ids)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"online": online,
	})
}
