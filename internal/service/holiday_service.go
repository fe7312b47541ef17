package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/mbeoliero/kit/log"
	"github.com/teamleaf/teamops/internal/entity"
	"github.com/teamleaf/teamops/internal/repository"
	"github.com/teamleaf/teamops/pkg/constant"
	"github.com/teamleaf/teamops/pkg/errcode"
	"github.com/teamleaf/teamops/pkg/idgen"
)

// HolidayService handles company-wide holidays
type HolidayService struct {
	repo      *repository.HolidayRepo
	validate  *validator.Validate
	publisher EventPublisher
}

// NewHolidayService creates a new HolidayService
func NewHolidayService(repo *repository.HolidayRepo) *HolidayService {
	return &HolidayService{
		repo:      repo,
		validate:  validator.New(),
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *HolidayService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// CreateHolidayRequest represents a create holiday request
type CreateHolidayRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Region string `json:"region" validate:"omitempty,max=60"`
}

// CreateHoliday creates a holiday and broadcasts the change
func (s *HolidayService) CreateHoliday(ctx context.Context, userId string, req *CreateHolidayRequest) (*entity.Holiday, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate holiday id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	h := &entity.Holiday{
		Id:        id,
		Name:      req.Name,
		Date:      req.Date,
		Region:    req.Region,
		CreatedBy: userId,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		log.CtxError(ctx, "create holiday failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}

	s.publisher.Publish(&entity.ChangeEvent{
		Type:       constant.EventInsert,
		Collection: constant.CollectionHolidays,
		Record:     h,
	})
	return h, nil
}

// ListHolidays lists holidays in a date range
func (s *HolidayService) ListHolidays(ctx context.Context, from, to string) ([]*entity.Holiday, error) {
	if from == "" || to == "" || to < from {
		return nil, errcode.ErrInvalidParam
	}
	holidays, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		log.CtxError(ctx, "list holidays failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}
	return holidays, nil
}

// DeleteHoliday removes a holiday
func (s *HolidayService) DeleteHoliday(ctx context.Context, holidayId string) error {
	h, err := s.repo.GetById(ctx, holidayId)
	if err != nil {
		log.CtxError(ctx, "get holiday failed: holiday_id=%s, error=%v", holidayId, err)
		return errcode.ErrInternalServer
	}
	if h == nil {
		return errcode.ErrEntryNotFound
	}

	if err := s.repo.Delete(ctx, holidayId); err != nil {
		log.CtxError(ctx, "delete holiday failed: holiday_id=%s, error=%v", holidayId, err)
		return errcode.ErrInternalServer
	}

	s.publisher.Publish(&entity.ChangeEvent{
		Type:       constant.EventDelete,
		Collection: constant.CollectionHolidays,
		Record:     h,
	})
	return nil
}
