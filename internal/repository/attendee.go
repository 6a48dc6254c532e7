package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventpulse/eventpulse-api/internal/domain"
	"github.com/eventpulse/eventpulse-api/internal/repository/dao"
)

type AttendeeDAO interface {
	CheckIn(ctx context.Context, eventID, name, email string, now time.Time) (dao.Attendee, dao.Event, error)
	Register(ctx context.Context, eventID, name, email string, now time.Time) (dao.Attendee, error)
	MarkCheckedIn(ctx context.Context, attendeeID string, now time.Time) (dao.Attendee, error)
	FindByID(ctx context.Context, id string) (dao.Attendee, error)
	ListByEvent(ctx context.Context, eventID string) ([]dao.Attendee, error)
}

type AttendeeRepository struct {
	dao   AttendeeDAO
	eRepo *EventRepository
}

func NewAttendeeRepository(dao AttendeeDAO, eRepo *EventRepository) *AttendeeRepository {
	return &AttendeeRepository{
		dao:   dao,
		eRepo: eRepo,
	}
}

func (r *AttendeeRepository) daoToDomain(a dao.Attendee) domain.Attendee {
	return domain.Attendee{
		ID:               a.ID,
		EventID:          a.EventID,
		Name:             a.Name,
		Email:            a.Email,
		CheckedIn:        a.CheckedIn,
		CheckInTime:      a.CheckInTime,
		RegistrationTime: a.RegistrationTime,
	}
}

func (r *AttendeeRepository) CheckIn(ctx context.Context, eventID, name, email string, now time.Time) (domain.Attendee, domain.Event, error) {
	attendee, event, err := r.dao.CheckIn(ctx, eventID, name, email, now)
	if err != nil {
		return domain.Attendee{}, domain.Event{}, err
	}

	return r.daoToDomain(attendee), r.eRepo.daoToDomain(event), nil
}

func (r *AttendeeRepository) Register(ctx context.Context, eventID, name, email string, now time.Time) (domain.Attendee, error) {
	attendee, err := r.dao.Register(ctx, eventID, name, email, now)
	if err != nil {
		return domain.Attendee{}, err
	}

	return r.daoToDomain(attendee), nil
}

func (r *AttendeeRepository) MarkCheckedIn(ctx context.Context, attendeeID string, now time.Time) (domain.Attendee, error) {
	attendee, err := r.dao.MarkCheckedIn(ctx, attendeeID, now)
	if err != nil {
		return domain.Attendee{}, err
	}

	return r.daoToDomain(attendee), nil
}

func (r *AttendeeRepository) FindByID(ctx context.Context, id string) (domain.Attendee, error) {
	attendee, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, err
	}

	return r.daoToDomain(attendee), nil
}

func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	attendees, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	out := make([]domain.Attendee, len(attendees))
	for i, a := range attendees {
		out[i] = r.daoToDomain(a)
	}

	return out, nil
}
