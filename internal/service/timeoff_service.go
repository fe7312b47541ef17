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

// TimeOffService handles leave entries on the shared calendar
type TimeOffService struct {
	repo      *repository.TimeOffRepo
	validate  *validator.Validate
	publisher EventPublisher
}

// NewTimeOffService creates a new TimeOffService
func NewTimeOffService(repo *repository.TimeOffRepo) *TimeOffService {
	return &TimeOffService{
		repo:      repo,
		validate:  validator.New(),
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *TimeOffService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// CreateTimeOffRequest represents a create time-off request
type CreateTimeOffRequest struct {
	Kind      string  `json:"kind" validate:"required,oneof=vacation sick personal other"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	HalfDay   bool    `json:"half_day"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// CreateEntry validates and creates a leave entry for the caller. Overlapping
// entries for the same user are rejected.
func (s *TimeOffService) CreateEntry(ctx context.Context, userId string, req *CreateTimeOffRequest) (*entity.TimeOffEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}
	if req.EndDate < req.StartDate {
		return nil, errcode.ErrInvalidDateSpan
	}

	overlapping, err := s.repo.CountOverlapping(ctx, userId, req.StartDate, req.EndDate, "")
	if err != nil {
		log.CtxError(ctx, "count overlapping failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if overlapping > 0 {
		return nil, errcode.ErrEntryOverlap
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate entry id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	e := &entity.TimeOffEntry{
		Id:        id,
		UserId:    userId,
		Kind:      req.Kind,
		Status:    constant.TimeOffApproved,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		HalfDay:   req.HalfDay,
		Note:      req.Note,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.CtxError(ctx, "create time-off entry failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	s.publish(constant.EventInsert, e)
	return e, nil
}

// ListEntries lists entries overlapping the date range, optionally for one user
func (s *TimeOffService) ListEntries(ctx context.Context, from, to, userId string) ([]*entity.TimeOffEntry, error) {
	if from == "" || to == "" || to < from {
		return nil, errcode.ErrInvalidParam
	}
	entries, err := s.repo.ListRange(ctx, from, to, userId)
	if err != nil {
		log.CtxError(ctx, "list time-off entries failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}
	return entries, nil
}

// UpdateTimeOffRequest represents an update to an existing entry
type UpdateTimeOffRequest struct {
	Kind   *string `json:"kind,omitempty" validate:"omitempty,oneof=vacation sick personal other"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// UpdateEntry updates an entry owned by the caller
func (s *TimeOffService) UpdateEntry(ctx context.Context, userId, entryId string, req *UpdateTimeOffRequest) (*entity.TimeOffEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}

	e, err := s.getOwnEntry(ctx, userId, entryId)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Kind != nil {
		updates["kind"] = *req.Kind
		e.Kind = *req.Kind
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		e.Status = *req.Status
	}
	if req.Note != nil {
		updates["note"] = *req.Note
		e.Note = req.Note
	}
	if len(updates) == 0 {
		return e, nil
	}

	if err := s.repo.Update(ctx, entryId, updates); err != nil {
		log.CtxError(ctx, "update time-off entry failed: entry_id=%s, error=%v", entryId, err)
		return nil, errcode.ErrInternalServer
	}

	s.publish(constant.EventUpdate, e)
	return e, nil
}

// DeleteEntry deletes an entry owned by the caller
func (s *TimeOffService) DeleteEntry(ctx context.Context, userId, entryId string) error {
	e, err := s.getOwnEntry(ctx, userId, entryId)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, entryId); err != nil {
		log.CtxError(ctx, "delete time-off entry failed: entry_id=%s, error=%v", entryId, err)
		return errcode.ErrInternalServer
	}

	s.publish(constant.EventDelete, e)
	return nil
}

func (s *TimeOffService) getOwnEntry(ctx context.Context, userId, entryId string) (*entity.TimeOffEntry, error) {
	e, err := s.repo.GetById(ctx, entryId)
	if err != nil {
		log.CtxError(ctx, "get time-off entry failed: entry_id=%s, error=%v", entryId, err)
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

func (s *TimeOffService) publish(eventType string, e *entity.TimeOffEntry) {
	s.publisher.Publish(&entity.ChangeEvent{
		Type:       eventType,
		Collection: constant.CollectionTimeOff,
		Record:     e,
	})
}
