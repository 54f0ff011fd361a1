package domain

import (
	"context"
	"time"
)

// InviteStatus is the lifecycle status of an invite. It only moves forward:
// pending -> accepted -> scanned.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusScanned  InviteStatus = "scanned"
)

// Valid reports whether s is a known status.
func (s InviteStatus) Valid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusScanned:
		return true
	}
	return false
}

// GrantsAccess reports whether an invite in this status may read its event and gallery.
func (s InviteStatus) GrantsAccess() bool {
	return s == InviteStatusAccepted || s == InviteStatusScanned
}

// Invite represents a single invitation to an event. InviteCode is the public
// lookup key and bearer credential; it never changes after creation.
// swagger:model Invite
type Invite struct {
	ID            string       `json:"id"`
	EventID       string       `json:"event_id"`
	InviteCode    string       `json:"invite_code"`
	AttendeeName  *string      `json:"attendee_name"`
	AttendeeEmail *string      `json:"attendee_email"`
	Status        InviteStatus `json:"status"`
	QRCodeData    *string      `json:"qr_code_data"`
	AcceptedAt    *time.Time   `json:"accepted_at"`
	ScannedAt     *time.Time   `json:"scanned_at"`
	CreatedAt     time.Time    `json:"created_at"`
}

// NewInvite returns a pending invite. ID is typically set by the repository on create.
func NewInvite(eventID, code string, attendeeName, attendeeEmail *string, createdAt time.Time) *Invite {
	return &Invite{
		EventID:       eventID,
		InviteCode:    code,
		AttendeeName:  attendeeName,
		AttendeeEmail: attendeeEmail,
		Status:        InviteStatusPending,
		CreatedAt:     createdAt,
	}
}

// Accept moves a pending invite to accepted. Empty name or email keep the values
// already on the invite. Any other status is rejected with ErrInviteAlreadyAccepted
// and the invite is left untouched.
func (i *Invite) Accept(attendeeName, attendeeEmail string, at time.Time) error {
	if i.Status != InviteStatusPending {
		return ErrInviteAlreadyAccepted
	}
	if attendeeName != "" {
		i.AttendeeName = &attendeeName
	}
	if attendeeEmail != "" {
		i.AttendeeEmail = &attendeeEmail
	}
	code := i.InviteCode
	i.Status = InviteStatusAccepted
	i.AcceptedAt = &at
	i.QRCodeData = &code
	return nil
}

// Scan checks the attendee in. Only accepted invites can be scanned; a second
// scan is a hard stop, not a no-op.
func (i *Invite) Scan(at time.Time) error {
	switch i.Status {
	case InviteStatusPending:
		return ErrInviteNotAccepted
	case InviteStatusScanned:
		return ErrInviteAlreadyScanned
	case InviteStatusAccepted:
		i.Status = InviteStatusScanned
		i.ScannedAt = &at
		return nil
	}
	return ErrInvalidInput
}

// InviteWithEvent bundles an invite with its parent event.
type InviteWithEvent struct {
	*Invite
	Event *Event `json:"events"`
}

// ScanResult is what the door scanner displays after a successful check-in.
type ScanResult struct {
	Status        InviteStatus `json:"status"`
	AttendeeName  *string      `json:"attendeeName"`
	AttendeeEmail *string      `json:"attendeeEmail"`
	EventTitle    string       `json:"eventTitle"`
	EventDate     string       `json:"eventDate"`
	EventLocation *string      `json:"eventLocation"`
	ScannedAt     *time.Time   `json:"scannedAt"`
}

// CreateInviteInput is the owner's request to invite someone to an event.
type CreateInviteInput struct {
	EventID       string
	AttendeeName  string
	AttendeeEmail string
}

// CreatedInvite is an invite plus the outcome of the invitation email.
// The invite is persisted whatever the email outcome.
type CreatedInvite struct {
	*Invite
	EmailSent  bool   `json:"emailSent"`
	EmailError string `json:"emailError,omitempty"`
}

// InviteRepository defines storage operations for invites.
type InviteRepository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByCode(ctx context.Context, code string) (*Invite, error)
	GetByCodeWithEvent(ctx context.Context, code string) (*InviteWithEvent, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Invite, int, error)
	// Transition writes the mutable fields of inv only if the stored status is still from.
	// Returns ErrInviteStale when it is not.
	Transition(ctx context.Context, inv *Invite, from InviteStatus) error
}

// InviteService defines invite creation and the invite lifecycle.
type InviteService interface {
	CreateInvite(ctx context.Context, ownerID string, input CreateInviteInput) (*CreatedInvite, error)
	GetInvite(ctx context.Context, code string) (*InviteWithEvent, error)
	// AcceptInvite returns the unchanged invite together with ErrInviteAlreadyAccepted on conflict.
	AcceptInvite(ctx context.Context, code, attendeeName, attendeeEmail string) (*Invite, error)
	ScanInvite(ctx context.Context, code string) (*ScanResult, error)
	ListEventInvites(ctx context.Context, eventID, ownerID string, params PaginationParams) ([]*Invite, int, error)
}
