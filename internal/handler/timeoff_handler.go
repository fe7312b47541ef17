package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// TimeOffHandler handles leave calendar requests
type TimeOffHandler struct {
	timeOffService *service.TimeOffService
}

// NewTimeOffHandler creates a new TimeOffHandler
func NewTimeOffHandler(timeOffService *service.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOffService: timeOffService}
}

// CreateEntry handles create leave entry request
func (h *TimeOffHandler) CreateEntry(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateTimeOffRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	entry, err := h.timeOffService.CreateEntry(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, entry)
}

// ListEntries handles list leave entries request. from / to bound the date
// range, user_id optionally narrows to one person.
func (h *TimeOffHandler) ListEntries(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	entries, err := h.timeOffService.ListEntries(ctx, c.Query("from"), c.Query("to"), c.Query("user_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"entries": entries,
	})
}

// UpdateEntry handles update leave entry request
func (h *TimeOffHandler) UpdateEntry(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	entryId := c.Param("entry_id")
	if entryId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.UpdateTimeOffRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	entry, err := h.timeOffService.UpdateEntry(ctx, userId, entryId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, entry)
}

// DeleteEntry handles delete leave entry request
func (h *TimeOffHandler) DeleteEntry(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	entryId := c.Param("entry_id")
	if entryId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.timeOffService.DeleteEntry(ctx, userId, entryId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
