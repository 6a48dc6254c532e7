package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventpulse/eventpulse-api/internal/domain"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newCheckInFixture(t *testing.T, maxAttendees int) (*CheckInService, *memStore, domain.Event) {
	t.Helper()

	store := newMemStore()
	event := store.seedEvent(domain.Event{
		Title:        "Launch Party",
		Location:     "Main Hall",
		StartsAt:     testNow,
		MaxAttendees: maxAttendees,
		Status:       domain.StatusActive,
		OrganizerID:  "org-1",
	})

	svc := NewCheckInService(store, memAttendees{store}, nil)
	svc.now = func() time.Time { return testNow }

	return svc, store, event
}

func TestCheckIn(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	attendee, snapshot, err := svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")

	require.NoError(t, err)
	assert.True(t, attendee.CheckedIn)
	require.NotNil(t, attendee.CheckInTime)
	assert.Equal(t, testNow, *attendee.CheckInTime)
	assert.Equal(t, event.ID, attendee.EventID)
	assert.Equal(t, 1, snapshot.CurrentAttendees)
	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
}

func TestCheckInRescanIsIdempotent(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	first, _, err := svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")
	require.NoError(t, err)

	second, _, err := svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CheckedIn)
	require.NotNil(t, second.CheckInTime)
	assert.Equal(t, *first.CheckInTime, *second.CheckInTime)

	// The re-scan must not consume a second slot.
	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
	total, _ := store.attendeeCount(event.ID)
	assert.Equal(t, 1, total)
}

func TestCheckInNormalizesEmail(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	_, _, err := svc.CheckIn(context.Background(), event.ID, "Alice", "  Alice@Example.COM ")
	require.NoError(t, err)

	_, _, err = svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
}

func TestCheckInRegisteredAttendee(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	registered, err := svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bob", "bob@example.com")
	require.NoError(t, err)
	assert.False(t, registered.CheckedIn)
	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)

	attendee, _, err := svc.CheckIn(context.Background(), event.ID, "Bob", "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, registered.ID, attendee.ID)
	assert.True(t, attendee.CheckedIn)

	// Checking in an existing registration flips the flag without counting
	// a second registration.
	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
}

func TestCheckInFullEvent(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 1)

	_, _, err := svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")
	require.NoError(t, err)

	_, _, err = svc.CheckIn(context.Background(), event.ID, "Bob", "bob@example.com")
	require.ErrorIs(t, err, ErrEventFull)

	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
	total, _ := store.attendeeCount(event.ID)
	assert.Equal(t, 1, total)
}

func TestCheckInConcurrentLastSlot(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 1)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, _, err := svc.CheckIn(context.Background(), event.ID, "Guest", email)
			results <- err
		}(email)
	}
	wg.Wait()
	close(results)

	succeeded, full := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
}

func TestCheckInConcurrentOverCapacity(t *testing.T) {
	const capacity = 50
	const callers = 100

	svc, store, event := newCheckInFixture(t, capacity)

	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("guest%d@example.com", i)
			_, _, err := svc.CheckIn(context.Background(), event.ID, "Guest", email)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded, full := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, callers-capacity, full)

	// The counter equals the number of stored registrations exactly.
	assert.Equal(t, capacity, store.event(event.ID).CurrentAttendees)
	total, checkedIn := store.attendeeCount(event.ID)
	assert.Equal(t, capacity, total)
	assert.Equal(t, capacity, checkedIn)
}

func TestCheckInEndedEvent(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	// Ended by the organizer, stored status already swept.
	svc2, store2, ended := newCheckInFixture(t, 50)
	store2.mu.Lock()
	e := store2.events[ended.ID]
	e.Status = domain.StatusEnded
	store2.events[ended.ID] = e
	store2.mu.Unlock()

	_, _, err := svc2.CheckIn(context.Background(), ended.ID, "Alice", "alice@example.com")
	require.ErrorIs(t, err, ErrEventEnded)
	total, _ := store2.attendeeCount(ended.ID)
	assert.Zero(t, total)

	// Past its day but the sweeper has not caught up: the derived state
	// still blocks the check-in.
	svc.now = func() time.Time { return testNow.AddDate(0, 0, 2) }
	_, _, err = svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")
	require.ErrorIs(t, err, ErrEventEnded)
	total, _ = store.attendeeCount(event.ID)
	assert.Zero(t, total)
}

func TestCheckInUnknownEvent(t *testing.T) {
	svc, store, _ := newCheckInFixture(t, 50)

	_, _, err := svc.CheckIn(context.Background(), "no-such-event", "Alice", "alice@example.com")

	require.ErrorIs(t, err, ErrEventNotFound)
	assert.Empty(t, store.attendees)
}

func TestCheckInRejectsBlankIdentity(t *testing.T) {
	svc, _, event := newCheckInFixture(t, 50)

	tests := []struct {
		name     string
		attendee string
		email    string
	}{
		{name: "blank name", attendee: "   ", email: "alice@example.com"},
		{name: "blank email", attendee: "Alice", email: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CheckIn(context.Background(), event.ID, tt.attendee, tt.email)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCheckInStoreFailure(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)
	store.failWith = errors.New("connection refused")

	_, _, err := svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")

	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRegisterAttendee(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	attendee, err := svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bob", "bob@example.com")

	require.NoError(t, err)
	assert.False(t, attendee.CheckedIn)
	assert.Nil(t, attendee.CheckInTime)
	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
}

func TestRegisterAttendeeDuplicate(t *testing.T) {
	svc, store, event := newCheckInFixture(t, 50)

	_, err := svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bob", "bob@example.com")
	require.NoError(t, err)

	_, err = svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bobby", "bob@example.com")
	require.ErrorIs(t, err, ErrDuplicateRegistration)

	assert.Equal(t, 1, store.event(event.ID).CurrentAttendees)
}

func TestRegisterAttendeeWrongOrganizer(t *testing.T) {
	svc, _, event := newCheckInFixture(t, 50)

	_, err := svc.RegisterAttendee(context.Background(), "org-2", event.ID, "Bob", "bob@example.com")

	require.ErrorIs(t, err, ErrNotOwner)
}

func TestMarkCheckedIn(t *testing.T) {
	svc, _, event := newCheckInFixture(t, 50)

	registered, err := svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bob", "bob@example.com")
	require.NoError(t, err)

	attendee, err := svc.MarkCheckedIn(context.Background(), "org-1", registered.ID)
	require.NoError(t, err)
	assert.True(t, attendee.CheckedIn)
	require.NotNil(t, attendee.CheckInTime)

	// Second call is a no-op.
	again, err := svc.MarkCheckedIn(context.Background(), "org-1", registered.ID)
	require.NoError(t, err)
	assert.Equal(t, *attendee.CheckInTime, *again.CheckInTime)
}

func TestMarkCheckedInUnknownAttendee(t *testing.T) {
	svc, _, _ := newCheckInFixture(t, 50)

	_, err := svc.MarkCheckedIn(context.Background(), "org-1", "no-such-attendee")

	require.ErrorIs(t, err, ErrAttendeeNotFound)
}

func TestMarkCheckedInWrongOrganizer(t *testing.T) {
	svc, _, event := newCheckInFixture(t, 50)

	registered, err := svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bob", "bob@example.com")
	require.NoError(t, err)

	_, err = svc.MarkCheckedIn(context.Background(), "org-2", registered.ID)

	require.ErrorIs(t, err, ErrNotOwner)
}

func TestListAttendees(t *testing.T) {
	svc, _, event := newCheckInFixture(t, 50)

	_, err := svc.RegisterAttendee(context.Background(), "org-1", event.ID, "Bob", "bob@example.com")
	require.NoError(t, err)
	_, _, err = svc.CheckIn(context.Background(), event.ID, "Alice", "alice@example.com")
	require.NoError(t, err)

	attendees, err := svc.ListAttendees(context.Background(), "org-1", event.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	assert.Equal(t, "alice@example.com", attendees[0].Email)
	assert.Equal(t, "bob@example.com", attendees[1].Email)

	_, err = svc.ListAttendees(context.Background(), "org-2", event.ID)
	require.ErrorIs(t, err, ErrNotOwner)
}
