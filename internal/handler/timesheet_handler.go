package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// TimesheetHandler handles timesheet requests
type TimesheetHandler struct {
	timesheetService *service.TimesheetService
}

// NewTimesheetHandler creates a new TimesheetHandler
func NewTimesheetHandler(timesheetService *service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetService: timesheetService}
}

// LogTime handles log time request
func (h *TimesheetHandler) LogTime(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.LogTimeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	entry, err := h.timesheetService.LogTime(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, entry)
}

// ListEntries handles list timesheet entries request, including the total
// logged minutes over the range.
func (h *TimesheetHandler) ListEntries(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	from, to := c.Query("from"), c.Query("to")

	entries, err := h.timesheetService.ListEntries(ctx, userId, from, to)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	total, err := h.timesheetService.TotalMinutes(ctx, userId, from, to)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"entries":       entries,
		"total_minutes": total,
	})
}

// UpdateEntry handles update timesheet entry request
func (h *TimesheetHandler) UpdateEntry(ctx context.Context, c *app.RequestContext) {
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

	var req service.LogTimeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	entry, err := h.timesheetService.UpdateEntry(ctx, userId, entryId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, entry)
}

// DeleteEntry handles delete timesheet entry request
func (h *TimesheetHandler) DeleteEntry(ctx context.Context, c *app.RequestContext) {
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

	if err := h.timesheetService.DeleteEntry(ctx, userId, entryId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
