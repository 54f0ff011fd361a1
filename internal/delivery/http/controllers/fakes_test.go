package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"eventflow/internal/delivery/http/helpers"
	"eventflow/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID = "6f1c2b3a-9d4e-4f5a-8b6c-7d8e9f0a1b2c"
	testMediaID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err error

	event  *domain.Event
	events []*domain.Event

	lastCreate     *domain.Event
	lastEventID    string
	lastUserID     string
	lastInviteCode string
	lastUpdate     domain.EventUpdate
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreate = event
	if f.err != nil {
		return f.err
	}
	event.ID = testEventID
	return nil
}

func (f *fakeEventService) ListMyEvents(_ context.Context, ownerID string) ([]*domain.Event, error) {
	f.lastUserID = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, eventID, userID, inviteCode string) (*domain.Event, error) {
	f.lastEventID, f.lastUserID, f.lastInviteCode = eventID, userID, inviteCode
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID, ownerID string, update domain.EventUpdate) (*domain.Event, error) {
	f.lastEventID, f.lastUserID, f.lastUpdate = eventID, ownerID, update
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, eventID, ownerID string) error {
	f.lastEventID, f.lastUserID = eventID, ownerID
	return f.err
}

// fakeInviteService implements domain.InviteService for handler tests.
type fakeInviteService struct {
	err error

	created *domain.CreatedInvite
	invite  *domain.Invite
	withEv  *domain.InviteWithEvent
	scan    *domain.ScanResult
	invites []*domain.Invite
	total   int

	lastOwnerID string
	lastInput   domain.CreateInviteInput
	lastCode    string
	lastName    string
	lastEmail   string
	lastEventID string
	lastParams  domain.PaginationParams
}

func (f *fakeInviteService) CreateInvite(_ context.Context, ownerID string, input domain.CreateInviteInput) (*domain.CreatedInvite, error) {
	f.lastOwnerID, f.lastInput = ownerID, input
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeInviteService) GetInvite(_ context.Context, code string) (*domain.InviteWithEvent, error) {
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.withEv, nil
}

func (f *fakeInviteService) AcceptInvite(_ context.Context, code, attendeeName, attendeeEmail string) (*domain.Invite, error) {
	f.lastCode, f.lastName, f.lastEmail = code, attendeeName, attendeeEmail
	return f.invite, f.err
}

func (f *fakeInviteService) ScanInvite(_ context.Context, code string) (*domain.ScanResult, error) {
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.scan, nil
}

func (f *fakeInviteService) ListEventInvites(_ context.Context, eventID, ownerID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	f.lastEventID, f.lastOwnerID, f.lastParams = eventID, ownerID, params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.invites, f.total, nil
}

// fakeMediaService implements domain.MediaService for handler tests.
type fakeMediaService struct {
	err error

	media *domain.Media
	items []*domain.GalleryItem
	url   string

	lastUserID  string
	lastUpload  domain.UploadMediaInput
	lastBody    []byte
	lastQuery   domain.MediaQuery
	lastMediaID string
	lastPath    string
}

func (f *fakeMediaService) UploadMedia(_ context.Context, userID string, input domain.UploadMediaInput) (*domain.Media, error) {
	f.lastUserID, f.lastUpload = userID, input
	if input.Body != nil {
		f.lastBody, _ = io.ReadAll(input.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.media, nil
}

func (f *fakeMediaService) ListMedia(_ context.Context, q domain.MediaQuery) ([]*domain.GalleryItem, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeMediaService) DeleteMedia(_ context.Context, mediaID, userID string) error {
	f.lastMediaID, f.lastUserID = mediaID, userID
	return f.err
}

func (f *fakeMediaService) SignedURL(_ context.Context, q domain.MediaQuery, path string) (string, error) {
	f.lastQuery, f.lastPath = q, path
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}
