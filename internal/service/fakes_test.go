package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventpulse/eventpulse-api/internal/cache"
	"github.com/eventpulse/eventpulse-api/internal/domain"
)

// memStore is an in-memory stand-in for the persistence layer. A single
// mutex plays the role of the database row lock, so every conditional
// guard (capacity, duplicate email, ended gate) is checked and applied
// atomically, matching the contract of the real store.
type memStore struct {
	mu        sync.Mutex
	events    map[string]domain.Event
	attendees map[string]domain.Attendee
	order     []string

	// failWith, when set, makes every call fail with that error.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		events:    make(map[string]domain.Event),
		attendees: make(map[string]domain.Attendee),
	}
}

func (m *memStore) seedEvent(e domain.Event) domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CheckInCode == "" {
		e.CheckInCode = uuid.NewString()
	}
	m.events[e.ID] = e

	return e
}

func (m *memStore) event(id string) domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.events[id]
}

func (m *memStore) attendeeCount(eventID string) (total, checkedIn int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.attendees {
		if a.EventID != eventID {
			continue
		}
		total++
		if a.CheckedIn {
			checkedIn++
		}
	}

	return total, checkedIn
}

func (m *memStore) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Event{}, m.failWith
	}

	m.events[event.ID] = event

	return event, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Event{}, m.failWith
	}

	event, ok := m.events[id]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}

	return event, nil
}

func (m *memStore) FindByCheckInCode(_ context.Context, code string) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Event{}, m.failWith
	}

	for _, event := range m.events {
		if event.CheckInCode == code {
			return event, nil
		}
	}

	return domain.Event{}, ErrEventNotFound
}

func (m *memStore) FindByOrganizerID(_ context.Context, organizerID string) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	var events []domain.Event
	for _, event := range m.events {
		if event.OrganizerID == organizerID {
			events = append(events, event)
		}
	}

	return events, nil
}

func (m *memStore) FindUnfinished(_ context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	var events []domain.Event
	for _, event := range m.events {
		if event.Status != domain.StatusEnded {
			events = append(events, event)
		}
	}

	return events, nil
}

func (m *memStore) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Event{}, m.failWith
	}

	current, ok := m.events[event.ID]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}
	if event.MaxAttendees < current.CurrentAttendees {
		return domain.Event{}, ErrCapacityTooSmall
	}

	event.CurrentAttendees = current.CurrentAttendees
	m.events[event.ID] = event

	return event, nil
}

func (m *memStore) AdvanceStatus(_ context.Context, id string, from, to domain.EventStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	event, ok := m.events[id]
	if !ok || event.Status != from {
		return nil
	}

	event.Status = to
	m.events[id] = event

	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}

	if _, ok := m.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(m.events, id)

	for attendeeID, a := range m.attendees {
		if a.EventID == id {
			delete(m.attendees, attendeeID)
		}
	}

	return nil
}

func (m *memStore) StatsByOrganizer(_ context.Context, organizerID string) (domain.EventStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.EventStats{}, m.failWith
	}

	stats := domain.EventStats{}
	registered, checkedIn := 0, 0
	for _, event := range m.events {
		if event.OrganizerID != organizerID {
			continue
		}
		stats.TotalEvents++
		if event.Status == domain.StatusActive {
			stats.ActiveEvents++
		}
		stats.TotalAttendees += event.CurrentAttendees
		for _, a := range m.attendees {
			if a.EventID != event.ID {
				continue
			}
			registered++
			if a.CheckedIn {
				checkedIn++
			}
		}
	}
	if registered > 0 {
		stats.CheckInRate = checkedIn * 100 / registered
	}

	return stats, nil
}

func (m *memStore) CheckIn(_ context.Context, eventID, name, email string, now time.Time) (domain.Attendee, domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Attendee{}, domain.Event{}, m.failWith
	}

	event, ok := m.events[eventID]
	if !ok {
		return domain.Attendee{}, domain.Event{}, ErrEventNotFound
	}
	if event.Status == domain.StatusEnded {
		return domain.Attendee{}, domain.Event{}, ErrEventEnded
	}

	for id, a := range m.attendees {
		if a.EventID != eventID || a.Email != email {
			continue
		}
		if a.CheckedIn {
			return a, event, nil
		}
		checkedAt := now
		a.CheckedIn = true
		a.CheckInTime = &checkedAt
		m.attendees[id] = a

		return a, event, nil
	}

	if event.CurrentAttendees >= event.MaxAttendees {
		return domain.Attendee{}, domain.Event{}, ErrEventFull
	}

	checkedAt := now
	attendee := domain.Attendee{
		ID:               uuid.NewString(),
		EventID:          eventID,
		Name:             name,
		Email:            email,
		CheckedIn:        true,
		CheckInTime:      &checkedAt,
		RegistrationTime: now,
	}
	m.attendees[attendee.ID] = attendee
	m.order = append(m.order, attendee.ID)

	event.CurrentAttendees++
	m.events[eventID] = event

	return attendee, event, nil
}

func (m *memStore) Register(_ context.Context, eventID, name, email string, now time.Time) (domain.Attendee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Attendee{}, m.failWith
	}

	event, ok := m.events[eventID]
	if !ok {
		return domain.Attendee{}, ErrEventNotFound
	}
	if event.Status == domain.StatusEnded {
		return domain.Attendee{}, ErrEventEnded
	}

	for _, a := range m.attendees {
		if a.EventID == eventID && a.Email == email {
			return domain.Attendee{}, ErrDuplicateRegistration
		}
	}

	if event.CurrentAttendees >= event.MaxAttendees {
		return domain.Attendee{}, ErrEventFull
	}

	attendee := domain.Attendee{
		ID:               uuid.NewString(),
		EventID:          eventID,
		Name:             name,
		Email:            email,
		RegistrationTime: now,
	}
	m.attendees[attendee.ID] = attendee
	m.order = append(m.order, attendee.ID)

	event.CurrentAttendees++
	m.events[eventID] = event

	return attendee, nil
}

func (m *memStore) MarkCheckedIn(_ context.Context, attendeeID string, now time.Time) (domain.Attendee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Attendee{}, m.failWith
	}

	attendee, ok := m.attendees[attendeeID]
	if !ok {
		return domain.Attendee{}, ErrAttendeeNotFound
	}
	event, ok := m.events[attendee.EventID]
	if !ok {
		return domain.Attendee{}, ErrEventNotFound
	}
	if event.Status == domain.StatusEnded {
		return domain.Attendee{}, ErrEventEnded
	}
	if attendee.CheckedIn {
		return attendee, nil
	}

	checkedAt := now
	attendee.CheckedIn = true
	attendee.CheckInTime = &checkedAt
	m.attendees[attendeeID] = attendee

	return attendee, nil
}

func (m *memStore) FindByID2(_ context.Context, id string) (domain.Attendee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Attendee{}, m.failWith
	}

	attendee, ok := m.attendees[id]
	if !ok {
		return domain.Attendee{}, ErrAttendeeNotFound
	}

	return attendee, nil
}

func (m *memStore) ListByEvent(_ context.Context, eventID string) ([]domain.Attendee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	var attendees []domain.Attendee
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.attendees[m.order[i]]
		if a.EventID == eventID {
			attendees = append(attendees, a)
		}
	}

	return attendees, nil
}

// memAttendees adapts memStore to the AttendeeRepository interface, which
// names its lookup FindByID like the event side does.
type memAttendees struct {
	*memStore
}

func (m memAttendees) FindByID(ctx context.Context, id string) (domain.Attendee, error) {
	return m.memStore.FindByID2(ctx, id)
}

// memCache records cache traffic so tests can assert on hits and
// invalidations.
type memCache struct {
	mu     sync.Mutex
	stats  map[string]domain.EventStats
	events map[string]domain.Event

	statsHits   int
	statsMisses int
}

func newMemCache() *memCache {
	return &memCache{
		stats:  make(map[string]domain.EventStats),
		events: make(map[string]domain.Event),
	}
}

func (c *memCache) GetStats(_ context.Context, organizerID string) (domain.EventStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.stats[organizerID]
	if !ok {
		c.statsMisses++
		return domain.EventStats{}, cache.ErrMiss
	}
	c.statsHits++

	return stats, nil
}

func (c *memCache) SetStats(_ context.Context, organizerID string, stats domain.EventStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats[organizerID] = stats

	return nil
}

func (c *memCache) InvalidateStats(_ context.Context, organizerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.stats, organizerID)

	return nil
}

func (c *memCache) GetPublicEvent(_ context.Context, code string) (domain.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	event, ok := c.events[code]
	if !ok {
		return domain.Event{}, cache.ErrMiss
	}

	return event, nil
}

func (c *memCache) SetPublicEvent(_ context.Context, event domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events[event.CheckInCode] = event

	return nil
}

func (c *memCache) InvalidatePublicEvent(_ context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.events, code)

	return nil
}
