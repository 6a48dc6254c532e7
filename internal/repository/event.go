package repository

import (
	"context"
	"fmt"

	"github.com/eventpulse/eventpulse-api/internal/domain"
	"github.com/eventpulse/eventpulse-api/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrEventEnded            = dao.ErrEventEnded
	ErrEventFull             = dao.ErrEventFull
	ErrCapacityTooSmall      = dao.ErrCapacityTooSmall
	ErrAttendeeNotFound      = dao.ErrAttendeeNotFound
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	FindByCheckInCode(ctx context.Context, code string) (dao.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID string) ([]dao.Event, error)
	FindUnfinished(ctx context.Context) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	AdvanceStatus(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string) error
	StatsByOrganizer(ctx context.Context, organizerID string) (dao.EventStats, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		StartsAt:         e.StartsAt,
		MaxAttendees:     e.MaxAttendees,
		CurrentAttendees: e.CurrentAttendees,
		Status:           string(e.Status),
		CheckInCode:      e.CheckInCode,
		OrganizerID:      e.OrganizerID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		StartsAt:         e.StartsAt,
		MaxAttendees:     e.MaxAttendees,
		CurrentAttendees: e.CurrentAttendees,
		Status:           domain.EventStatus(e.Status),
		CheckInCode:      e.CheckInCode,
		OrganizerID:      e.OrganizerID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (r *EventRepository) daosToDomain(events []dao.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[i] = r.daoToDomain(e)
	}

	return out
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) FindByCheckInCode(ctx context.Context, code string) (domain.Event, error) {
	event, err := r.dao.FindByCheckInCode(ctx, code)
	if err != nil {
		return domain.Event{}, err
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) FindByOrganizerID(ctx context.Context, organizerID string) ([]domain.Event, error) {
	events, err := r.dao.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizerID -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *EventRepository) FindUnfinished(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.FindUnfinished(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUnfinished -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, err
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) AdvanceStatus(ctx context.Context, id string, from, to domain.EventStatus) error {
	return r.dao.AdvanceStatus(ctx, id, string(from), string(to))
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.dao.Delete(ctx, id)
}

func (r *EventRepository) StatsByOrganizer(ctx context.Context, organizerID string) (domain.EventStats, error) {
	stats, err := r.dao.StatsByOrganizer(ctx, organizerID)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("r.dao.StatsByOrganizer -> %w", err)
	}

	rate := 0
	if stats.Registered > 0 {
		rate = stats.CheckedIn * 100 / stats.Registered
	}

	return domain.EventStats{
		TotalEvents:    stats.TotalEvents,
		ActiveEvents:   stats.ActiveEvents,
		TotalAttendees: stats.TotalAttendees,
		CheckInRate:    rate,
	}, nil
}
