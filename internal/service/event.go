package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse-api/internal/domain"
	"github.com/eventpulse/eventpulse-api/internal/repository"
)

var (
	ErrEventNotFound         = repository.ErrEventNotFound
	ErrEventEnded            = repository.ErrEventEnded
	ErrEventFull             = repository.ErrEventFull
	ErrAttendeeNotFound      = repository.ErrAttendeeNotFound
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrCapacityTooSmall      = repository.ErrCapacityTooSmall

	ErrNotOwner      = errors.New("event does not belong to this organizer")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrStoreUnavailable wraps any unexpected persistence failure. The
	// transaction boundaries in the store guarantee no partial write happened,
	// so callers may safely retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

const maxCapacity = 100_000

// Cache is the optional read-path cache. A nil Cache disables caching.
type Cache interface {
	GetStats(ctx context.Context, organizerID string) (domain.EventStats, error)
	SetStats(ctx context.Context, organizerID string, stats domain.EventStats) error
	InvalidateStats(ctx context.Context, organizerID string) error
	GetPublicEvent(ctx context.Context, code string) (domain.Event, error)
	SetPublicEvent(ctx context.Context, event domain.Event) error
	InvalidatePublicEvent(ctx context.Context, code string) error
}

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id string) (domain.Event, error)
	FindByCheckInCode(ctx context.Context, code string) (domain.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID string) ([]domain.Event, error)
	FindUnfinished(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	AdvanceStatus(ctx context.Context, id string, from, to domain.EventStatus) error
	Delete(ctx context.Context, id string) error
	StatsByOrganizer(ctx context.Context, organizerID string) (domain.EventStats, error)
}

// EventUpdate carries the fields an organizer may change; nil means keep.
type EventUpdate struct {
	Title        *string
	Description  *string
	Location     *string
	StartsAt     *time.Time
	MaxAttendees *int
	Status       *domain.EventStatus
}

type EventService struct {
	repo  EventRepository
	cache Cache
	now   func() time.Time
}

func NewEventService(repo EventRepository, cache Cache) *EventService {
	return &EventService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// CreateEvent validates the draft, stamps identifiers and derives the
// initial status from the event date.
func (s *EventService) CreateEvent(ctx context.Context, organizerID string, event domain.Event) (domain.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	event.Location = strings.TrimSpace(event.Location)

	switch {
	case organizerID == "":
		return domain.Event{}, fmt.Errorf("%w: organizer id is required", ErrInvalidInput)
	case event.Title == "":
		return domain.Event{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case event.Location == "":
		return domain.Event{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	case event.StartsAt.IsZero():
		return domain.Event{}, fmt.Errorf("%w: event date is required", ErrInvalidInput)
	case event.MaxAttendees <= 0 || event.MaxAttendees > maxCapacity:
		return domain.Event{}, fmt.Errorf("%w: max attendees must be between 1 and %d", ErrInvalidInput, maxCapacity)
	}

	event.ID = uuid.NewString()
	event.CheckInCode = uuid.NewString()
	event.OrganizerID = organizerID
	event.CurrentAttendees = 0
	event.Status = domain.StatusUpcoming
	event.Status = event.EffectiveStatus(s.now())

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, storeErr("s.repo.Create", err)
	}

	return created, nil
}

func (s *EventService) ListEvents(ctx context.Context, organizerID string) ([]domain.Event, error) {
	events, err := s.repo.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, storeErr("s.repo.FindByOrganizerID", err)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, organizerID, id string) (domain.Event, error) {
	event, err := s.ownedEvent(ctx, organizerID, id)
	if err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

// GetEventByCheckInCode resolves a scanned code for the public check-in
// page. Served cache-aside: the snapshot may be seconds stale, which is fine
// for display; check-in itself always goes to the store.
func (s *EventService) GetEventByCheckInCode(ctx context.Context, code string) (domain.Event, error) {
	if s.cache != nil {
		event, err := s.cache.GetPublicEvent(ctx, code)
		if err == nil {
			return event, nil
		}
	}

	event, err := s.repo.FindByCheckInCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, storeErr("s.repo.FindByCheckInCode", err)
	}

	event.Status = event.EffectiveStatus(s.now())

	if s.cache != nil {
		if err := s.cache.SetPublicEvent(ctx, event); err != nil {
			zap.L().Warn("failed to cache public event", zap.Error(err))
		}
	}

	return event, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, organizerID, id string, update EventUpdate) (domain.Event, error) {
	event, err := s.ownedEvent(ctx, organizerID, id)
	if err != nil {
		return domain.Event{}, err
	}

	if update.Title != nil {
		event.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Location != nil {
		event.Location = strings.TrimSpace(*update.Location)
	}
	if update.StartsAt != nil {
		event.StartsAt = *update.StartsAt
	}
	if update.MaxAttendees != nil {
		event.MaxAttendees = *update.MaxAttendees
	}
	if update.Status != nil {
		if !update.Status.Valid() || update.Status.Before(event.Status) {
			return domain.Event{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, event.Status, *update.Status)
		}
		event.Status = *update.Status
	}

	switch {
	case event.Title == "":
		return domain.Event{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case event.Location == "":
		return domain.Event{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	case event.MaxAttendees <= 0 || event.MaxAttendees > maxCapacity:
		return domain.Event{}, fmt.Errorf("%w: max attendees must be between 1 and %d", ErrInvalidInput, maxCapacity)
	case event.MaxAttendees < event.CurrentAttendees:
		return domain.Event{}, ErrCapacityTooSmall
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		if knownErr(err) {
			return domain.Event{}, err
		}

		return domain.Event{}, storeErr("s.repo.Update", err)
	}

	s.invalidate(ctx, updated)

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, organizerID, id string) error {
	event, err := s.ownedEvent(ctx, organizerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if knownErr(err) {
			return err
		}

		return storeErr("s.repo.Delete", err)
	}

	s.invalidate(ctx, event)

	return nil
}

// SweepStatuses persists every forward lifecycle transition that is due at
// the given instant. Called periodically by the status worker. Returns the
// number of transitions applied.
func (s *EventService) SweepStatuses(ctx context.Context, now time.Time) (int, error) {
	events, err := s.repo.FindUnfinished(ctx)
	if err != nil {
		return 0, storeErr("s.repo.FindUnfinished", err)
	}

	transitions := 0
	for _, event := range events {
		derived := event.EffectiveStatus(now)
		if !event.Status.Before(derived) {
			continue
		}

		if err := s.repo.AdvanceStatus(ctx, event.ID, event.Status, derived); err != nil {
			return transitions, storeErr("s.repo.AdvanceStatus", err)
		}

		event.Status = derived
		s.invalidate(ctx, event)
		transitions++
	}

	return transitions, nil
}

func (s *EventService) ownedEvent(ctx context.Context, organizerID, id string) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, storeErr("s.repo.FindByID", err)
	}

	if event.OrganizerID != organizerID {
		return domain.Event{}, ErrNotOwner
	}

	return event, nil
}

// invalidate drops cached copies touched by an event mutation. Best effort:
// a failed invalidation only extends staleness by the cache TTL.
func (s *EventService) invalidate(ctx context.Context, event domain.Event) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePublicEvent(ctx, event.CheckInCode); err != nil {
		zap.L().Warn("failed to invalidate public event cache", zap.Error(err))
	}
	if err := s.cache.InvalidateStats(ctx, event.OrganizerID); err != nil {
		zap.L().Warn("failed to invalidate stats cache", zap.Error(err))
	}
}

func knownErr(err error) bool {
	for _, sentinel := range []error{
		ErrEventNotFound,
		ErrEventEnded,
		ErrEventFull,
		ErrAttendeeNotFound,
		ErrDuplicateRegistration,
		ErrCapacityTooSmall,
		ErrNotOwner,
		ErrInvalidInput,
		ErrInvalidStatus,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s -> %w: %w", op, ErrStoreUnavailable, err)
}
