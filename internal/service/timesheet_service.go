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

// TimesheetService handles logged working time
type TimesheetService struct {
	repo      *repository.TimesheetRepo
	validate  *validator.Validate
	publisher EventPublisher
}

// NewTimesheetService creates a new TimesheetService
func NewTimesheetService(repo *repository.TimesheetRepo) *TimesheetService {
	return &TimesheetService{
		repo:      repo,
		validate:  validator.New(),
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *TimesheetService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// LogTimeRequest represents a timesheet log request
type LogTimeRequest struct {
	WorkDate string  `json:"work_date" validate:"required,datetime=2006-01-02"`
	Minutes  int64   `json:"minutes" validate:"required,min=1,max=1440"`
	Project  string  `json:"project" validate:"omitempty,max=120"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// LogTime creates a timesheet entry for the caller
func (s *TimesheetService) LogTime(ctx context.Context, userId string, req *LogTimeRequest) (*entity.TimesheetEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate entry id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	e := &entity.TimesheetEntry{
		Id:       id,
		UserId:   userId,
		WorkDate: req.WorkDate,
		Minutes:  req.Minutes,
		Project:  req.Project,
		Note:     req.Note,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.CtxError(ctx, "create timesheet entry failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	s.publish(constant.EventInsert, e)
	return e, nil
}

// ListEntries lists the caller's entries over a date range
func (s *TimesheetService) ListEntries(ctx context.Context, userId, from, to string) ([]*entity.TimesheetEntry, error) {
	if from == "" || to == "" || to < from {
		return nil, errcode.ErrInvalidParam
	}
	entries, err := s.repo.ListRange(ctx, userId, from, to)
	if err != nil {
		log.CtxError(ctx, "list timesheet entries failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return entries, nil
}

// TotalMinutes totals the caller's logged minutes over a date range
func (s *TimesheetService) TotalMinutes(ctx context.Context, userId, from, to string) (int64, error) {
	if from == "" || to == "" || to < from {
		return 0, errcode.ErrInvalidParam
	}
	total, err := s.repo.SumMinutes(ctx, userId, from, to)
	if err != nil {
		log.CtxError(ctx, "sum minutes failed: user_id=%s, error=%v", userId, err)
		return 0, errcode.ErrInternalServer
	}
	return total, nil
}

// UpdateEntry updates an entry owned by the caller
func (s *TimesheetService) UpdateEntry(ctx context.Context, userId, entryId string, req *LogTimeRequest) (*entity.TimesheetEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}

	e, err := s.getOwnEntry(ctx, userId, entryId)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"work_date": req.WorkDate,
		"minutes":   req.Minutes,
		"project":   req.Project,
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if err := s.repo.Update(ctx, entryId, updates); err != nil {
		log.CtxError(ctx, "update timesheet entry failed: entry_id=%s, error=%v", entryId, err)
		return nil, errcode.ErrInternalServer
	}

	e.WorkDate = req.WorkDate
	e.Minutes = req.Minutes
	e.Project = req.Project
	if req.Note != nil {
		e.Note = req.Note
	}
	s.publish(constant.EventUpdate, e)
	return e, nil
}

// DeleteEntry deletes an entry owned by the caller
func (s *TimesheetService) DeleteEntry(ctx context.Context, userId, entryId string) error {
	e, err := s.getOwnEntry(ctx, userId, entryId)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, entryId); err != nil {
		log.CtxError(ctx, "delete timesheet entry failed: entry_id=%s, error=%v", entryId, err)
		return errcode.ErrInternalServer
	}

	s.publish(constant.EventDelete, e)
	return nil
}

func (s *TimesheetService) getOwnEntry(ctx context.Context, userId, entryId string) (*entity.TimesheetEntry, error) {
	e, err := s.repo.GetById(ctx, entryId)
	if err != nil {
		log.CtxError(ctx, "get timesheet entry failed: entry_id=%s, error=%v", entryId, err)
		return nil, errcode.ErrInternalServer
	}
	if e == nil {
		return nil, errcode.ErrEntryNotFound
	}
	if e.UserId != userId {
		return nil, errcode.ErrNotEntryOwner
	}
	return e, nil
}

func (s *TimesheetService) publish(eventType string, e *entity.TimesheetEntry) {
	s.publisher.Publish(&entity.ChangeEvent{
		Type:       eventType,
		Collection: constant.CollectionTimesheets,
		Record:     e,
		UserIds:    []string{e.UserId},
	})
}
