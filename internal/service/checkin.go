package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse-api/internal/domain"
)

type AttendeeRepository interface {
	CheckIn(ctx context.Context, eventID, name, email string, now time.Time) (domain.Attendee, domain.Event, error)
	Register(ctx context.Context, eventID, name, email string, now time.Time) (domain.Attendee, error)
	MarkCheckedIn(ctx context.Context, attendeeID string, now time.Time) (domain.Attendee, error)
	FindByID(ctx context.Context, id string) (domain.Attendee, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Attendee, error)
}

// CheckInService is the only path through which an attendee becomes
// registered or checked in. The capacity and duplicate invariants are
// enforced by the store's conditional transaction; this service adds the
// lifecycle gate, input normalization and the idempotent re-scan policy.
type CheckInService struct {
	events    EventRepository
	attendees AttendeeRepository
	cache     Cache
	now       func() time.Time
}

func NewCheckInService(events EventRepository, attendees AttendeeRepository, cache Cache) *CheckInService {
	return &CheckInService{
		events:    events,
		attendees: attendees,
		cache:     cache,
		now:       time.Now,
	}
}

// CheckIn registers name/email for the event and marks them checked in.
// Re-scanning an already checked-in email is an idempotent success. A lost
// duplicate-insert race is retried once; with the attendee row now present
// the retry takes the update path, so the caller still sees success.
func (s *CheckInService) CheckIn(ctx context.Context, eventID, name, email string) (domain.Attendee, domain.Event, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return domain.Attendee{}, domain.Event{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	if err := s.gateEnded(ctx, eventID); err != nil {
		return domain.Attendee{}, domain.Event{}, err
	}

	attendee, event, err := s.attendees.CheckIn(ctx, eventID, name, email, s.now())
	if errors.Is(err, ErrDuplicateRegistration) {
		attendee, event, err = s.attendees.CheckIn(ctx, eventID, name, email, s.now())
	}
	if err != nil {
		if knownErr(err) {
			return domain.Attendee{}, domain.Event{}, err
		}

		return domain.Attendee{}, domain.Event{}, storeErr("s.attendees.CheckIn", err)
	}

	s.invalidate(ctx, event)

	return attendee, event, nil
}

// RegisterAttendee pre-registers someone without checking them in, e.g. an
// organizer entering a walk-up registration. Unlike CheckIn this is not
// idempotent: a duplicate email is surfaced as ErrDuplicateRegistration.
func (s *CheckInService) RegisterAttendee(ctx context.Context, organizerID, eventID, name, email string) (domain.Attendee, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return domain.Attendee{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	event, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return domain.Attendee{}, err
	}
	if event.EffectiveStatus(s.now()) == domain.StatusEnded {
		return domain.Attendee{}, ErrEventEnded
	}

	attendee, err := s.attendees.Register(ctx, eventID, name, email, s.now())
	if err != nil {
		if knownErr(err) {
			return domain.Attendee{}, err
		}

		return domain.Attendee{}, storeErr("s.attendees.Register", err)
	}

	event.CurrentAttendees++
	s.invalidate(ctx, event)

	return attendee, nil
}

// MarkCheckedIn is the organizer-initiated check-in of a registered
// attendee, no registration involved. Checking in twice is a no-op.
func (s *CheckInService) MarkCheckedIn(ctx context.Context, organizerID, attendeeID string) (domain.Attendee, error) {
	existing, err := s.attendees.FindByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, ErrAttendeeNotFound) {
			return domain.Attendee{}, ErrAttendeeNotFound
		}

		return domain.Attendee{}, storeErr("s.attendees.FindByID", err)
	}

	event, err := s.ownedEvent(ctx, organizerID, existing.EventID)
	if err != nil {
		return domain.Attendee{}, err
	}
	if event.EffectiveStatus(s.now()) == domain.StatusEnded {
		return domain.Attendee{}, ErrEventEnded
	}

	attendee, err := s.attendees.MarkCheckedIn(ctx, attendeeID, s.now())
	if err != nil {
		if knownErr(err) {
			return domain.Attendee{}, err
		}

		return domain.Attendee{}, storeErr("s.attendees.MarkCheckedIn", err)
	}

	s.invalidate(ctx, event)

	return attendee, nil
}

// ListAttendees returns every registration for one of the organizer's
// events, newest first.
func (s *CheckInService) ListAttendees(ctx context.Context, organizerID, eventID string) ([]domain.Attendee, error) {
	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}

	attendees, err := s.attendees.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr("s.attendees.ListByEvent", err)
	}

	return attendees, nil
}

// gateEnded rejects check-ins for events whose effective lifecycle state is
// ended, even when the stored status has not been swept yet.
func (s *CheckInService) gateEnded(ctx context.Context, eventID string) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return ErrEventNotFound
		}

		return storeErr("s.events.FindByID", err)
	}

	if event.EffectiveStatus(s.now()) == domain.StatusEnded {
		return ErrEventEnded
	}

	return nil
}

func (s *CheckInService) ownedEvent(ctx context.Context, organizerID, eventID string) (domain.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, storeErr("s.events.FindByID", err)
	}

	if event.OrganizerID != organizerID {
		return domain.Event{}, ErrNotOwner
	}

	return event, nil
}

func (s *CheckInService) invalidate(ctx context.Context, event domain.Event) {
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

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
