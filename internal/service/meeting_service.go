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

// MeetingService handles scheduled meetings
type MeetingService struct {
	repo      *repository.MeetingRepo
	validate  *validator.Validate
	publisher EventPublisher
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(repo *repository.MeetingRepo) *MeetingService {
	return &MeetingService{
		repo:      repo,
		validate:  validator.New(),
		publisher: nopPublisher{},
	}
}

// SetPublisher sets the change event publisher
func (s *MeetingService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// ScheduleMeetingRequest represents a schedule meeting request
type ScheduleMeetingRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	AttendeeIds []string `json:"attendee_ids" validate:"omitempty,dive,required"`
	StartsAt    int64    `json:"starts_at" validate:"required,gt=0"`
	EndsAt      int64    `json:"ends_at" validate:"required,gt=0"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
}

// ScheduleMeeting validates and creates a meeting. The organizer is always
// on the attendee list.
func (s *MeetingService) ScheduleMeeting(ctx context.Context, organizerId string, req *ScheduleMeetingRequest) (*entity.Meeting, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}
	if req.EndsAt <= req.StartsAt {
		return nil, errcode.ErrInvalidDateSpan
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate meeting id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	attendees := dedupeWith(req.AttendeeIds, organizerId)
	m := &entity.Meeting{
		Id:          id,
		Title:       req.Title,
		Description: req.Description,
		OrganizerId: organizerId,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
	}
	if err := m.SetAttendees(attendees); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		log.CtxError(ctx, "create meeting failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}

	s.publish(constant.EventInsert, m)
	return m, nil
}

// ListMeetings lists meetings starting within [from, to) unix-milli bounds
func (s *MeetingService) ListMeetings(ctx context.Context, from, to int64) ([]*entity.Meeting, error) {
	if from <= 0 || to <= from {
		return nil, errcode.ErrInvalidParam
	}
	meetings, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		log.CtxError(ctx, "list meetings failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}
	return meetings, nil
}

// CancelMeeting removes a meeting. Only the organizer can cancel.
func (s *MeetingService) CancelMeeting(ctx context.Context, userId, meetingId string) error {
	m, err := s.repo.GetById(ctx, meetingId)
	if err != nil {
		log.CtxError(ctx, "get meeting failed: meeting_id=%s, error=%v", meetingId, err)
		return errcode.ErrInternalServer
	}
	if m == nil {
		return errcode.ErrEntryNotFound
	}
	if m.OrganizerId != userId {
		return errcode.ErrNotEntryOwner
	}

	if err := s.repo.Delete(ctx, meetingId); err != nil {
		log.CtxError(ctx, "delete meeting failed: meeting_id=%s, error=%v", meetingId, err)
		return errcode.ErrInternalServer
	}

	s.publish(constant.EventDelete, m)
	return nil
}

func (s *MeetingService) publish(eventType string, m *entity.Meeting) {
	s.publisher.Publish(&entity.ChangeEvent{
		Type:       eventType,
		Collection: constant.CollectionMeetings,
		Record:     m.ToMeetingInfo(),
		UserIds:    m.GetAttendees(),
	})
}
