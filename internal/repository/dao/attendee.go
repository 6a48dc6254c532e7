package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAttendeeNotFound      = errors.New("attendee not found")
	ErrDuplicateRegistration = errors.New("email already registered for this event")
)

type Attendee struct {
	ID               string `gorm:"primaryKey;size:36"`
	EventID          string `gorm:"size:36;not null;uniqueIndex:idx_attendees_event_email,priority:1"`
	Name             string `gorm:"not null"`
	Email            string `gorm:"not null;uniqueIndex:idx_attendees_event_email,priority:2"`
	CheckedIn        bool   `gorm:"not null;default:false"`
	CheckInTime      *time.Time
	RegistrationTime time.Time `gorm:"not null"`
}

type AttendeeDAO struct {
	db *gorm.DB
}

func NewAttendeeDAO(db *gorm.DB) *AttendeeDAO {
	return &AttendeeDAO{
		db: db,
	}
}

// CheckIn registers and/or checks in one attendee inside a single
// transaction.
//
// The transaction first takes a row lock on the event (SELECT ... FOR
// UPDATE), so concurrent check-ins for the same event are serialized and the
// capacity check, the insert and the counter increment commit as one unit.
// Without the lock two callers could both read current_attendees < max and
// overshoot the capacity. The unique index on (event_id, email) backs the
// duplicate race at the store level; a violation that still slips through is
// reported as ErrDuplicateRegistration.
//
// Outcomes:
//   - no attendee row yet: capacity permitting, a new row is inserted with
//     checked_in = true and current_attendees is incremented;
//   - row exists, not checked in: it is marked checked in, the counter is
//     untouched (the slot was taken at registration time);
//   - row exists, already checked in: no-op, the row is returned as is.
func (d *AttendeeDAO) CheckIn(ctx context.Context, eventID, name, email string, now time.Time) (Attendee, Event, error) {
	var (
		attendee Attendee
		event    Event
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.Status == "ended" {
			return ErrEventEnded
		}

		err := tx.First(&attendee, "event_id = ? AND email = ?", eventID, email).Error
		switch {
		case err == nil:
			if attendee.CheckedIn {
				return nil
			}

			checkInTime := now
			attendee.CheckedIn = true
			attendee.CheckInTime = &checkInTime

			return tx.Model(&Attendee{ID: attendee.ID}).
				Updates(map[string]any{
					"checked_in":    true,
					"check_in_time": checkInTime,
				}).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			if event.CurrentAttendees >= event.MaxAttendees {
				return ErrEventFull
			}

			checkInTime := now
			attendee = Attendee{
				ID:               uuid.NewString(),
				EventID:          eventID,
				Name:             name,
				Email:            email,
				CheckedIn:        true,
				CheckInTime:      &checkInTime,
				RegistrationTime: now,
			}
			if err := tx.Create(&attendee).Error; err != nil {
				return wrapDuplicate(err)
			}

			event.CurrentAttendees++

			return tx.Model(&Event{ID: eventID}).
				UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1")).Error

		default:
			return err
		}
	})
	if err != nil {
		return Attendee{}, Event{}, err
	}

	return attendee, event, nil
}

// Register inserts a not-yet-checked-in attendee, used by organizers
// pre-registering people. Same lock and capacity discipline as CheckIn, but
// a duplicate email is an error rather than an idempotent update.
func (d *AttendeeDAO) Register(ctx context.Context, eventID, name, email string, now time.Time) (Attendee, error) {
	var attendee Attendee

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.Status == "ended" {
			return ErrEventEnded
		}

		var count int64
		if err := tx.Model(&Attendee{}).
			Where("event_id = ? AND email = ?", eventID, email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRegistration
		}

		if event.CurrentAttendees >= event.MaxAttendees {
			return ErrEventFull
		}

		attendee = Attendee{
			ID:               uuid.NewString(),
			EventID:          eventID,
			Name:             name,
			Email:            email,
			RegistrationTime: now,
		}
		if err := tx.Create(&attendee).Error; err != nil {
			return wrapDuplicate(err)
		}

		return tx.Model(&Event{ID: eventID}).
			UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1")).Error
	})
	if err != nil {
		return Attendee{}, err
	}

	return attendee, nil
}

// MarkCheckedIn flips an already-registered attendee to checked in. The
// event row is locked for the ended check so the operation cannot interleave
// with a concurrent lifecycle transition mid-decision. Checking in twice is
// a no-op; checked_in never goes back to false.
func (d *AttendeeDAO) MarkCheckedIn(ctx context.Context, attendeeID string, now time.Time) (Attendee, error) {
	var attendee Attendee

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&attendee, "id = ?", attendeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendeeNotFound
			}

			return err
		}

		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", attendee.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.Status == "ended" {
			return ErrEventEnded
		}

		if attendee.CheckedIn {
			return nil
		}

		checkInTime := now
		attendee.CheckedIn = true
		attendee.CheckInTime = &checkInTime

		return tx.Model(&Attendee{ID: attendee.ID}).
			Updates(map[string]any{
				"checked_in":    true,
				"check_in_time": checkInTime,
			}).Error
	})
	if err != nil {
		return Attendee{}, err
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByID(ctx context.Context, id string) (Attendee, error) {
	var attendee Attendee

	result := d.db.WithContext(ctx).First(&attendee, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) ListByEvent(ctx context.Context, eventID string) ([]Attendee, error) {
	var attendees []Attendee

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registration_time DESC").
		Find(&attendees)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendees, nil
}

func wrapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		strings.Contains(pgErr.Message, "idx_attendees_event_email") {
		return ErrDuplicateRegistration
	}

	return err
}
