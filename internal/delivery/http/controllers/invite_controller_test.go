package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventflow/internal/delivery/http/helpers"
	"eventflow/internal/delivery/http/middleware"
	"eventflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestInviteController_CreateInvite(t *testing.T) {
	created := &domain.CreatedInvite{
		Invite: &domain.Invite{
			ID:            "inv-1",
			EventID:       testEventID,
			InviteCode:    "V1StGXR8_Z5j",
			AttendeeEmail: strPtr("ada@example.com"),
			Status:        domain.InviteStatusPending,
		},
		EmailSent: true,
	}

	tests := []struct {
		name           string
		body           string
		noUserContext  bool
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		checkCall      func(t *testing.T, fake *fakeInviteService)
	}{
		{
			name:       "success",
			body:       `{"eventId":"` + testEventID + `","attendeeName":"Ada","attendeeEmail":"ada@example.com"}`,
			wantStatus: http.StatusCreated,
			checkCall: func(t *testing.T, fake *fakeInviteService) {
				assert.Equal(t, "user-123", fake.lastOwnerID)
				assert.Equal(t, testEventID, fake.lastInput.EventID)
				assert.Equal(t, "Ada", fake.lastInput.AttendeeName)
				assert.Equal(t, "ada@example.com", fake.lastInput.AttendeeEmail)
			},
		},
		{
			name:       "email is optional",
			body:       `{"eventId":"` + testEventID + `"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing event id",
			body:           `{"attendeeName":"Ada"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "eventId is required",
		},
		{
			name:           "malformed email",
			body:           `{"eventId":"` + testEventID + `","attendeeEmail":"not-an-email"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "attendeeEmail",
		},
		{
			name:           "no user in context",
			body:           `{"eventId":"` + testEventID + `"}`,
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "event of another owner",
			body:           `{"eventId":"` + testEventID + `"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "Event not found",
		},
		{
			name:           "service validation",
			body:           `{"eventId":"` + testEventID + `"}`,
			fakeErr:        fmt.Errorf("%w: attendee email is invalid", domain.ErrInvalidInput),
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "attendee email is invalid",
		},
		{
			name:           "service error",
			body:           `{"eventId":"` + testEventID + `"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{err: tt.fakeErr, created: created}
			ctrl := NewInviteController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/invites", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.CreateInvite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.CreatedInvite
			envelope := decodeEnvelope(t, rr, &got)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "V1StGXR8_Z5j", got.InviteCode)
				assert.True(t, got.EmailSent)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
			if tt.checkCall != nil {
				tt.checkCall(t, fake)
			}
		})
	}
}

func TestInviteController_CreateInvite_emailOutcomeOnWire(t *testing.T) {
	fake := &fakeInviteService{created: &domain.CreatedInvite{
		Invite:     &domain.Invite{ID: "inv-1", InviteCode: "abc", Status: domain.InviteStatusPending},
		EmailError: "Email service not configured",
	}}
	ctrl := NewInviteController(testLogger, fake)
	req := httptest.NewRequest(http.MethodPost, "/invites",
		bytes.NewBufferString(`{"eventId":"`+testEventID+`","attendeeEmail":"ada@example.com"}`))
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.CreateInvite(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"emailSent":false`)
	assert.Contains(t, body, `"emailError":"Email service not configured"`)
	assert.Contains(t, body, `"invite_code":"abc"`)
}

func TestInviteController_GetInvite(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		fakeErr    error
		wantStatus int
		wantMsg    string
	}{
		{name: "found", code: "abc123", wantStatus: http.StatusOK},
		{name: "unknown code", code: "nope", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "Invite not found"},
		{name: "empty code", code: "", wantStatus: http.StatusNotFound, wantMsg: "Invite not found"},
		{name: "service error", code: "abc123", fakeErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{err: tt.fakeErr, withEv: &domain.InviteWithEvent{
				Invite: &domain.Invite{ID: "inv-1", InviteCode: "abc123", Status: domain.InviteStatusPending},
				Event:  &domain.Event{ID: testEventID, Title: "Launch Party", EventDate: "2025-06-01T18:00"},
			}}
			ctrl := NewInviteController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/invites/"+tt.code, nil)
			req.SetPathValue("code", tt.code)
			rr := httptest.NewRecorder()

			ctrl.GetInvite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rr.Body.String(), `"events":{`)
				assert.Contains(t, rr.Body.String(), `"title":"Launch Party"`)
				assert.Equal(t, "abc123", fake.lastCode)
				return
			}
			envelope := decodeEnvelope(t, rr, nil)
			require.NotNil(t, envelope.Error)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, envelope.Error.Message)
			}
		})
	}
}

func TestInviteController_AcceptInvite(t *testing.T) {
	at := time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)
	accepted := &domain.Invite{
		ID:           "inv-1",
		InviteCode:   "abc123",
		AttendeeName: strPtr("Ada"),
		Status:       domain.InviteStatusAccepted,
		QRCodeData:   strPtr("abc123"),
		AcceptedAt:   &at,
	}

	tests := []struct {
		name        string
		body        string
		fakeErr     error
		wantStatus  int
		wantErrCode string
		wantMsg     string
		wantData    bool
	}{
		{
			name:       "pending invite accepted",
			body:       `{"inviteCode":" abc123 ","attendeeName":"Ada"}`,
			wantStatus: http.StatusOK,
			wantData:   true,
		},
		{
			name:        "missing code",
			body:        `{"attendeeName":"Ada"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "malformed email",
			body:        `{"inviteCode":"abc123","attendeeEmail":"ada"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "unknown code",
			body:        `{"inviteCode":"nope"}`,
			fakeErr:     domain.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantErrCode: helpers.ErrCodeNotFound,
			wantMsg:     "Invite not found",
		},
		{
			name:        "already accepted carries current invite",
			body:        `{"inviteCode":"abc123","attendeeName":"Grace"}`,
			fakeErr:     domain.ErrInviteAlreadyAccepted,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeInviteAlreadyAccepted,
			wantMsg:     "Invite already accepted",
			wantData:    true,
		},
		{
			name:        "service error",
			body:        `{"inviteCode":"abc123"}`,
			fakeErr:     errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantErrCode: helpers.ErrCodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{err: tt.fakeErr, invite: accepted}
			ctrl := NewInviteController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/invites/accept", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.AcceptInvite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var inv domain.Invite
			envelope := decodeEnvelope(t, rr, &inv)
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, envelope.Error.Message)
			}
			if tt.wantData {
				assert.Equal(t, "inv-1", inv.ID)
				assert.Equal(t, "Ada", *inv.AttendeeName, "the first accept's name stays")
				assert.Equal(t, domain.InviteStatusAccepted, inv.Status)
			}
			if tt.name == "pending invite accepted" {
				assert.Equal(t, "abc123", fake.lastCode, "code is trimmed")
				assert.Equal(t, "Ada", fake.lastName)
				assert.Empty(t, fake.lastEmail)
			}
		})
	}
}

func TestInviteController_ScanInvite(t *testing.T) {
	scannedAt := time.Date(2025, 6, 1, 18, 5, 0, 0, time.UTC)
	result := &domain.ScanResult{
		Status:        domain.InviteStatusScanned,
		AttendeeName:  strPtr("Ada"),
		EventTitle:    "Launch Party",
		EventDate:     "2025-06-01T18:00",
		EventLocation: strPtr("Rooftop"),
		ScannedAt:     &scannedAt,
	}

	tests := []struct {
		name        string
		body        string
		fakeErr     error
		wantStatus  int
		wantErrCode string
		wantMsg     string
	}{
		{name: "accepted invite checked in", body: `{"inviteCode":"abc123"}`, wantStatus: http.StatusOK},
		{name: "missing code", body: `{}`, wantStatus: http.StatusBadRequest, wantErrCode: helpers.ErrCodeBadRequest},
		{name: "unknown code", body: `{"inviteCode":"nope"}`, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantErrCode: helpers.ErrCodeNotFound, wantMsg: "Invite not found"},
		{name: "pending invite", body: `{"inviteCode":"abc123"}`, fakeErr: domain.ErrInviteNotAccepted, wantStatus: http.StatusBadRequest, wantErrCode: helpers.ErrCodeInviteNotAccepted, wantMsg: "Invite not accepted yet"},
		{name: "second scan", body: `{"inviteCode":"abc123"}`, fakeErr: domain.ErrInviteAlreadyScanned, wantStatus: http.StatusBadRequest, wantErrCode: helpers.ErrCodeInviteAlreadyScanned, wantMsg: "Already checked in"},
		{name: "service error", body: `{"inviteCode":"abc123"}`, fakeErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantErrCode: helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{err: tt.fakeErr, scan: result}
			ctrl := NewInviteController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/invites/scan", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.ScanInvite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantErrCode == "" {
				body := rr.Body.String()
				assert.Contains(t, body, `"status":"scanned"`)
				assert.Contains(t, body, `"eventTitle":"Launch Party"`)
				assert.Contains(t, body, `"attendeeName":"Ada"`)
				return
			}
			envelope := decodeEnvelope(t, rr, nil)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, envelope.Error.Message)
			}
		})
	}
}

func TestInviteController_ListEventInvites(t *testing.T) {
	tests := []struct {
		name          string
		eventID       string
		query         string
		noUserContext bool
		fakeErr       error
		wantStatus    int
		wantParams    domain.PaginationParams
	}{
		{name: "defaults", eventID: testEventID, wantStatus: http.StatusOK, wantParams: domain.PaginationParams{Page: 1, PageSize: 20}},
		{name: "explicit page", eventID: testEventID, query: "?page=2&page_size=2", wantStatus: http.StatusOK, wantParams: domain.PaginationParams{Page: 2, PageSize: 2}},
		{name: "page size clamped", eventID: testEventID, query: "?page_size=1000", wantStatus: http.StatusOK, wantParams: domain.PaginationParams{Page: 1, PageSize: 100}},
		{name: "invalid id", eventID: "abc", wantStatus: http.StatusBadRequest},
		{name: "no user", eventID: testEventID, noUserContext: true, wantStatus: http.StatusUnauthorized},
		{name: "not the owner", eventID: testEventID, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeInviteService{
				err:     tt.fakeErr,
				invites: []*domain.Invite{{ID: "inv-3", InviteCode: "c3", Status: domain.InviteStatusPending}},
				total:   3,
			}
			ctrl := NewInviteController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/events/"+tt.eventID+"/invites"+tt.query, nil)
			req.SetPathValue("eventID", tt.eventID)
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.ListEventInvites(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp ListInvitesResponse
			envelope := decodeEnvelope(t, rr, &resp)
			require.Nil(t, envelope.Error)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, 3, resp.Pagination.Total)
			assert.Equal(t, tt.wantParams, fake.lastParams)
			assert.Equal(t, tt.wantParams.Page, resp.Pagination.Page)
			assert.Equal(t, "user-123", fake.lastOwnerID)
		})
	}
}
