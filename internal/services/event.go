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

type eventService struct {
	eventRepo      domain.EventRepository
	inviteRepo     domain.InviteRepository
	mediaRepo      domain.MediaRepository
	blobs          domain.BlobStore
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	inviteRepo domain.InviteRepository,
	mediaRepo domain.MediaRepository,
	blobs domain.BlobStore,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		inviteRepo:     inviteRepo,
		mediaRepo:      mediaRepo,
		blobs:          blobs,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.UserID == "" {
		return fmt.Errorf("event owner is required")
	}
	event.Title = strings.TrimSpace(event.Title)
	if errs := domain.ValidateEvent(event); len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}

	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, userID, inviteCode string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	principal := domain.Principal{UserID: userID}
	if event.UserID != userID && inviteCode != "" {
		principal.Invite, err = resolveInvite(ctx, s.inviteRepo, inviteCode)
		if err != nil {
			return nil, err
		}
	}
	if err := domain.Authorize(principal, event, domain.ActionView); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, update domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, ownerID)
	if err != nil {
		return nil, err
	}
	update.Apply(event)
	event.Title = strings.TrimSpace(event.Title)
	if errs := domain.ValidateEvent(event); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes the event and, through the store's cascade, its invites and
// media rows. Media blobs are removed first on a best-effort basis.
func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, ownerID); err != nil {
		return err
	}

	media, err := s.mediaRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("list event media: %w", err)
	}
	for _, m := range media {
		if err := s.blobs.Delete(ctx, m.FilePath); err != nil {
			s.logger.WarnContext(ctx, "failed to delete media blob", "event_id", eventID, "path", m.FilePath, "err", err)
		}
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ownedEvent loads the event for an owner-only operation. Someone else's event is
// reported as not found.
func (s *eventService) ownedEvent(ctx context.Context, eventID, ownerID string) (*domain.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(domain.Principal{UserID: ownerID}, event, domain.ActionManage); err != nil {
		return nil, domain.ErrNotFound
	}
	return event, nil
}

// resolveInvite looks up a presented invite code. An unknown code resolves to no invite.
func resolveInvite(ctx context.Context, repo domain.InviteRepository, code string) (*domain.Invite, error) {
	inv, err := repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}
