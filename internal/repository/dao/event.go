package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventEnded       = errors.New("event has ended")
	ErrEventFull        = errors.New("event is full")
	ErrCapacityTooSmall = errors.New("max attendees cannot be lower than current registrations")
)

type Event struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Title            string    `gorm:"not null"`
	Description      string
	Location         string    `gorm:"not null"`
	StartsAt         time.Time `gorm:"not null;index"`
	MaxAttendees     int       `gorm:"not null"`
	CurrentAttendees int       `gorm:"not null;default:0"`
	Status           string    `gorm:"not null;default:upcoming;index"`
	CheckInCode      string    `gorm:"uniqueIndex;size:36;not null"`
	OrganizerID      string    `gorm:"index;not null"`

	Attendees []Attendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// EventStats is the raw aggregate row produced by StatsByOrganizer.
type EventStats struct {
	TotalEvents    int
	ActiveEvents   int
	TotalAttendees int
	CheckedIn      int
	Registered     int
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByCheckInCode(ctx context.Context, code string) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "check_in_code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByOrganizerID(ctx context.Context, organizerID string) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// Update rewrites the mutable columns of an event. The caller has already
// validated the transition; the row lock keeps the capacity check consistent
// with concurrent check-ins (MaxAttendees may never drop below the counter).
func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", event.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if event.MaxAttendees < current.CurrentAttendees {
			return ErrCapacityTooSmall
		}

		event.CurrentAttendees = current.CurrentAttendees
		event.CreatedAt = current.CreatedAt

		return tx.Model(&Event{ID: event.ID}).
			Select("Title", "Description", "Location", "StartsAt", "MaxAttendees", "Status").
			Updates(&event).Error
	})
	if err != nil {
		return Event{}, err
	}

	return d.FindByID(ctx, event.ID)
}

// AdvanceStatus moves an event from one status to the next. The WHERE guard
// on the current status makes the transition idempotent under concurrent
// sweeps; a zero rows-affected result means someone else got there first.
func (d *EventDAO) AdvanceStatus(ctx context.Context, id, from, to string) error {
	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	return result.Error
}

// FindUnfinished returns events whose stored status may still need a
// lifecycle transition.
func (d *EventDAO) FindUnfinished(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("status <> ?", "ended").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Select(clause.Associations).Delete(&Event{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// StatsByOrganizer aggregates dashboard numbers across one organizer's
// events in two queries: event counts plus the registered/checked-in split.
func (d *EventDAO) StatsByOrganizer(ctx context.Context, organizerID string) (EventStats, error) {
	var stats EventStats

	err := d.db.WithContext(ctx).Model(&Event{}).
		Select("COUNT(*) AS total_events",
			"COUNT(*) FILTER (WHERE status = 'active') AS active_events",
			"COALESCE(SUM(current_attendees), 0) AS total_attendees").
		Where("organizer_id = ?", organizerID).
		Scan(&stats).Error
	if err != nil {
		return EventStats{}, err
	}

	err = d.db.WithContext(ctx).Model(&Attendee{}).
		Select("COUNT(*) FILTER (WHERE checked_in) AS checked_in", "COUNT(*) AS registered").
		Joins("JOIN events ON events.id = attendees.event_id").
		Where("events.organizer_id = ?", organizerID).
		Scan(&stats).Error
	if err != nil {
		return EventStats{}, err
	}

	return stats, nil
}
