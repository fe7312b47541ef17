package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/teamleaf/teamops/internal/middleware"
	"github.com/teamleaf/teamops/internal/service"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/response"
)

// HolidayHandler handles company holiday requests
type HolidayHandler struct {
	holidayService *service.HolidayService
}

// NewHolidayHandler creates a new HolidayHandler
func NewHolidayHandler(holidayService *service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidayService: holidayService}
}

// CreateHoliday handles create holiday request
func (h *HolidayHandler) CreateHoliday(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateHolidayRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	holiday, err := h.holidayService.CreateHoliday(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, holiday)
}

// ListHolidays handles list holidays request over a date range
func (h *HolidayHandler) ListHolidays(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	holidays, err := h.holidayService.ListHolidays(ctx, c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"holidays": holidays,
	})
}

// DeleteHoliday handles delete holiday request
func (h *HolidayHandler) DeleteHoliday(ctx context.Context, c *app.RequestContext) {
	if middleware.GetUserId(c) == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	holidayId := c.Param("holiday_id")
	if holidayId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.holidayService.DeleteHoliday(ctx, holidayId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
