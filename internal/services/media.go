package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eventflow/internal/domain"
)

// maxConcurrentSigns bounds how many gallery URLs are presigned at once.
const maxConcurrentSigns = 8

type mediaService struct {
	mediaRepo      domain.MediaRepository
	eventRepo      domain.EventRepository
	inviteRepo     domain.InviteRepository
	blobs          domain.BlobStore
	signedURLTTL   time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewMediaService(mediaRepo domain.MediaRepository,
	eventRepo domain.EventRepository,
	inviteRepo domain.InviteRepository,
	blobs domain.BlobStore,
	signedURLTTL time.Duration,
	logger *slog.Logger,
	timeout time.Duration,
) domain.MediaService {
	if signedURLTTL <= 0 {
		signedURLTTL = time.Hour
	}
	return &mediaService{
		mediaRepo:      mediaRepo,
		eventRepo:      eventRepo,
		inviteRepo:     inviteRepo,
		blobs:          blobs,
		signedURLTTL:   signedURLTTL,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// AllowedMediaType reports whether a gallery upload may have this content type.
func AllowedMediaType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// UploadMedia stores the blob and then its row. A failed row insert removes the blob again.
func (s *mediaService) UploadMedia(ctx context.Context, userID string, input domain.UploadMediaInput) (*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if input.EventID == "" || input.Body == nil {
		return nil, fmt.Errorf("%w: file and eventId are required", domain.ErrInvalidInput)
	}
	if !AllowedMediaType(input.ContentType) {
		return nil, fmt.Errorf("%w: only image and video files are allowed", domain.ErrInvalidInput)
	}
	if err := s.authorize(ctx, domain.Principal{UserID: userID}, input.EventID, domain.ActionManage); err != nil {
		return nil, err
	}

	now := s.now()
	key, err := s.blobKey(input.EventID, input.FileName, now)
	if err != nil {
		return nil, fmt.Errorf("generate media key: %w", err)
	}
	if err := s.blobs.Put(ctx, key, input.ContentType, input.Body, input.Size); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	m := &domain.Media{
		EventID:    input.EventID,
		UploadedBy: userID,
		FilePath:   key,
		FileName:   input.FileName,
		FileType:   input.ContentType,
		FileSize:   input.Size,
		Caption:    optional(strings.TrimSpace(input.Caption)),
		CreatedAt:  now,
	}
	if err := s.mediaRepo.Create(ctx, m); err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned media blob", "path", key, "err", delErr)
		}
		return nil, fmt.Errorf("save media: %w", err)
	}
	return m, nil
}

// ListMedia returns the gallery newest first. With q.WithURLs each item is signed
// concurrently. An item that cannot be signed keeps an empty URL; only an
// unconfigured blob store fails the listing.
func (s *mediaService) ListMedia(ctx context.Context, q domain.MediaQuery) ([]*domain.GalleryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.authorizeViewer(ctx, q); err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.ListByEventID(ctx, q.EventID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	items := make([]*domain.GalleryItem, len(media))
	for i, m := range media {
		items[i] = &domain.GalleryItem{Media: m}
	}
	if !q.WithURLs || len(items) == 0 {
		return items, nil
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentSigns)
	for _, item := range items {
		g.Go(func() error {
			url, err := s.blobs.SignedURL(ctx, item.FilePath, s.signedURLTTL)
			if errors.Is(err, domain.ErrNotConfigured) {
				return err
			}
			if err != nil {
				s.logger.WarnContext(ctx, "failed to sign media url", "path", item.FilePath, "err", err)
				return nil
			}
			item.URL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteMedia removes the blob and the row. Both deletions are attempted and
// their failures reported together.
func (s *mediaService) DeleteMedia(ctx context.Context, mediaID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get media: %w", err)
	}
	if err := s.authorize(ctx, domain.Principal{UserID: userID}, m.EventID, domain.ActionManage); err != nil {
		return err
	}

	var errs []error
	if err := s.blobs.Delete(ctx, m.FilePath); err != nil {
		errs = append(errs, fmt.Errorf("delete blob: %w", err))
	}
	if err := s.mediaRepo.Delete(ctx, m.ID); err != nil {
		errs = append(errs, fmt.Errorf("delete media row: %w", err))
	}
	return errors.Join(errs...)
}

// SignedURL signs a single object of the event's gallery. The path must belong to
// the event named in the query.
func (s *mediaService) SignedURL(ctx context.Context, q domain.MediaQuery, objectPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if q.EventID == "" || objectPath == "" {
		return "", fmt.Errorf("%w: path and eventId are required", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(objectPath, q.EventID+"/") || path.Clean(objectPath) != objectPath {
		return "", fmt.Errorf("%w: path does not belong to event", domain.ErrInvalidInput)
	}
	if err := s.authorizeViewer(ctx, q); err != nil {
		return "", err
	}

	url, err := s.blobs.SignedURL(ctx, objectPath, s.signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	return url, nil
}

func (s *mediaService) authorizeViewer(ctx context.Context, q domain.MediaQuery) error {
	if q.EventID == "" {
		return fmt.Errorf("%w: eventId is required", domain.ErrInvalidInput)
	}
	principal := domain.Principal{UserID: q.UserID}
	if q.InviteCode != "" {
		inv, err := resolveInvite(ctx, s.inviteRepo, q.InviteCode)
		if err != nil {
			return err
		}
		principal.Invite = inv
	}
	return s.authorize(ctx, principal, q.EventID, domain.ActionView)
}

// authorize applies the access policy. Gallery operations report a missing event
// the same way as a refused one.
func (s *mediaService) authorize(ctx context.Context, p domain.Principal, eventID string, action domain.Action) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !domain.CanAccess(p, event, action) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *mediaService) blobKey(eventID, fileName string, at time.Time) (string, error) {
	suffix, err := randomString(6, blobSuffixAlphabet)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ext == "" || len(ext) > 10 || strings.ContainsFunc(ext, func(r rune) bool {
		return !strings.ContainsRune(string(blobSuffixAlphabet), r)
	}) {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%d-%s.%s", eventID, at.UnixMilli(), suffix, ext), nil
}
