package domain

import (
	"context"
	"strings"
	"time"
)

// EventDateLayout is the wall-clock layout of Event.EventDate (datetime-local input).
// No timezone conversion is applied.
const EventDateLayout = "2006-01-02T15:04"

// Event represents an organizer-owned event
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	EventDate   string    `json:"event_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(userID, title string, description, location *string, eventDate string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		UserID:      userID,
		Title:       title,
		Description: description,
		Location:    location,
		EventDate:   eventDate,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventUpdate holds the optional fields of an event update; nil fields are unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Location    *string
	EventDate   *string
}

// Apply copies the non-nil fields onto e. Description and location are trimmed,
// and a blank one clears the field.
func (u EventUpdate) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = nilIfEmpty(*u.Description)
	}
	if u.Location != nil {
		e.Location = nilIfEmpty(*u.Location)
	}
	if u.EventDate != nil {
		e.EventDate = *u.EventDate
	}
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	// Delete removes the event; invites and media rows cascade.
	Delete(ctx context.Context, id string) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	// GetEvent returns the event if userID owns it or inviteCode is an accepted/scanned invite for it.
	GetEvent(ctx context.Context, eventID, userID, inviteCode string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
}
