package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventflow/internal/domain"
)

const (
	defaultOrganizerName = "Event Organizer"
	inviteDateDisplay    = "Monday, January 2, 2006 at 3:04 PM"
	emailNotConfigured   = "Email service not configured"

	// An invite only moves forward, so after one stale write the re-read already
	// shows the conflicting status.
	maxTransitionAttempts = 3
)

type inviteService struct {
	inviteRepo     domain.InviteRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	appBaseURL     string
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewInviteService(inviteRepo domain.InviteRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	appBaseURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		appBaseURL:     strings.TrimRight(appBaseURL, "/"),
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// CreateInvite stores a pending invite for the owner's event and emails it when an
// address was given. The email outcome never rolls the invite back.
func (s *inviteService) CreateInvite(ctx context.Context, ownerID string, input domain.CreateInviteInput) (*domain.CreatedInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name := strings.TrimSpace(input.AttendeeName)
	email := strings.TrimSpace(input.AttendeeEmail)
	if input.EventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", domain.ErrInvalidInput)
	}
	if email != "" && !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: attendeeEmail is not a valid email address", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(domain.Principal{UserID: ownerID}, event, domain.ActionManage); err != nil {
		return nil, domain.ErrNotFound
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}
	inv := domain.NewInvite(event.ID, code, optional(name), optional(email), s.now())
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}

	created := &domain.CreatedInvite{Invite: inv}
	if email == "" {
		return created, nil
	}
	err = s.emailService.SendInvitation(ctx, &domain.InvitationEmailData{
		Email:         email,
		AttendeeName:  name,
		OrganizerName: defaultOrganizerName,
		EventTitle:    event.Title,
		EventDate:     displayEventDate(event.EventDate),
		EventLocation: deref(event.Location),
		InviteLink:    s.appBaseURL + "/invite/" + inv.InviteCode,
	})
	switch {
	case err == nil:
		created.EmailSent = true
	case errors.Is(err, domain.ErrNotConfigured):
		created.EmailError = emailNotConfigured
	default:
		s.logger.WarnContext(ctx, "invitation email failed", "invite_code", inv.InviteCode, "err", err)
		created.EmailError = err.Error()
	}
	return created, nil
}

func (s *inviteService) GetInvite(ctx context.Context, code string) (*domain.InviteWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.inviteRepo.GetByCodeWithEvent(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

func (s *inviteService) AcceptInvite(ctx context.Context, code, attendeeName, attendeeEmail string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	attendeeName = strings.TrimSpace(attendeeName)
	attendeeEmail = strings.TrimSpace(attendeeEmail)
	if attendeeEmail != "" && !domain.ValidEmail(attendeeEmail) {
		return nil, fmt.Errorf("%w: attendeeEmail is not a valid email address", domain.ErrInvalidInput)
	}

	for range maxTransitionAttempts {
		current, err := s.inviteRepo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get invite: %w", err)
		}
		next := *current
		if err := next.Accept(attendeeName, attendeeEmail, s.now()); err != nil {
			return current, err
		}
		err = s.inviteRepo.Transition(ctx, &next, current.Status)
		if errors.Is(err, domain.ErrInviteStale) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("accept invite: %w", err)
		}
		return &next, nil
	}
	return nil, domain.ErrInviteStale
}

func (s *inviteService) ScanInvite(ctx context.Context, code string) (*domain.ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for range maxTransitionAttempts {
		current, err := s.inviteRepo.GetByCodeWithEvent(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get invite: %w", err)
		}
		next := *current.Invite
		if err := next.Scan(s.now()); err != nil {
			return nil, err
		}
		err = s.inviteRepo.Transition(ctx, &next, current.Status)
		if errors.Is(err, domain.ErrInviteStale) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		result := &domain.ScanResult{
			Status:        next.Status,
			AttendeeName:  next.AttendeeName,
			AttendeeEmail: next.AttendeeEmail,
			ScannedAt:     next.ScannedAt,
		}
		if current.Event != nil {
			result.EventTitle = current.Event.Title
			result.EventDate = current.Event.EventDate
			result.EventLocation = current.Event.Location
		}
		return result, nil
	}
	return nil, domain.ErrInviteStale
}

func (s *inviteService) ListEventInvites(ctx context.Context, eventID, ownerID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(domain.Principal{UserID: ownerID}, event, domain.ActionManage); err != nil {
		return nil, 0, domain.ErrNotFound
	}

	invites, total, err := s.inviteRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invites: %w", err)
	}
	if invites == nil {
		invites = []*domain.Invite{}
	}
	return invites, total, nil
}

func displayEventDate(eventDate string) string {
	t, err := domain.ParseEventDate(eventDate)
	if err != nil {
		return eventDate
	}
	return t.Format(inviteDateDisplay)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
