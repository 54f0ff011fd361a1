package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventflow/internal/delivery/http/helpers"
	"eventflow/internal/delivery/http/middleware"
	"eventflow/internal/domain"
)

const inviteNotFoundMessage = "Invite not found"

// CreateInviteRequest is the request body for POST /invites.
type CreateInviteRequest struct {
	EventID       string `json:"eventId"`
	AttendeeName  string `json:"attendeeName"`
	AttendeeEmail string `json:"attendeeEmail"`
}

// Validate implements Validator.
func (c CreateInviteRequest) Validate() []string {
	var errs []string
	if c.EventID == "" {
		errs = append(errs, "eventId is required")
	} else if !validID(c.EventID) {
		errs = append(errs, "eventId must be a valid UUID")
	}
	if email := strings.TrimSpace(c.AttendeeEmail); email != "" && !domain.ValidEmail(email) {
		errs = append(errs, "attendeeEmail must be a valid email address")
	}
	return errs
}

// CreateInviteSuccessResponse is the success response envelope for POST /invites (201).
type CreateInviteSuccessResponse struct {
	Data  *domain.CreatedInvite `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateInvite godoc
// @Summary Create an invite
// @Description Create a pending invite for one of the caller's events. When attendeeEmail is set an invitation email is sent;
// @Description the invite is kept whatever the email outcome, reported in emailSent and emailError.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invite body CreateInviteRequest true "Invite data"
// @Success 201 {object} controllers.CreateInviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites [post]
func (c *InviteController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req CreateInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	created, err := c.Service.CreateInvite(r.Context(), userID, domain.CreateInviteInput{
		EventID:       req.EventID,
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.AttendeeEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Event not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			internalError(c.Logger, w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// GetInviteSuccessResponse is the success response envelope for GET /invites/{code} (200).
type GetInviteSuccessResponse struct {
	Data  *domain.InviteWithEvent `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GetInvite godoc
// @Summary Fetch an invite by code
// @Description Public. Returns the invite together with its event under "events".
// @Tags invites
// @Produce json
// @Param code path string true "Invite code"
// @Success 200 {object} controllers.GetInviteSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /invites/{code} [get]
func (c *InviteController) GetInvite(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, inviteNotFoundMessage)
		return
	}
	inv, err := c.Service.GetInvite(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, inviteNotFoundMessage)
			return
		}
		internalError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// AcceptInviteRequest is the request body for POST /invites/accept.
type AcceptInviteRequest struct {
	InviteCode    string `json:"inviteCode"`
	AttendeeName  string `json:"attendeeName"`
	AttendeeEmail string `json:"attendeeEmail"`
}

// Validate implements Validator.
func (a AcceptInviteRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.InviteCode) == "" {
		errs = append(errs, "inviteCode is required")
	}
	if email := strings.TrimSpace(a.AttendeeEmail); email != "" && !domain.ValidEmail(email) {
		errs = append(errs, "attendeeEmail must be a valid email address")
	}
	return errs
}

// InviteSuccessResponse is the success response envelope carrying a single invite.
type InviteSuccessResponse struct {
	Data  *domain.Invite    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AcceptInvite godoc
// @Summary Accept an invite
// @Description Public. Moves a pending invite to accepted and records the attendee. Name and email are optional
// @Description and keep the stored values when empty. An invite that is no longer pending is rejected with
// @Description invite_already_accepted and the current invite in data.
// @Tags invites
// @Accept json
// @Produce json
// @Param body body AcceptInviteRequest true "Invite code and attendee details"
// @Success 200 {object} controllers.InviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, invite_already_accepted"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /invites/accept [post]
func (c *InviteController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req AcceptInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.AcceptInvite(r.Context(), strings.TrimSpace(req.InviteCode),
		strings.TrimSpace(req.AttendeeName), strings.TrimSpace(req.AttendeeEmail))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, inviteNotFoundMessage)
		case errors.Is(err, domain.ErrInviteAlreadyAccepted):
			helpers.WriteJSONErrorWithData(w, http.StatusBadRequest, helpers.ErrCodeInviteAlreadyAccepted, "Invite already accepted", inv)
		default:
			internalError(c.Logger, w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// ScanInviteRequest is the request body for POST /invites/scan.
type ScanInviteRequest struct {
	InviteCode string `json:"inviteCode"`
}

// Validate implements Validator.
func (s ScanInviteRequest) Validate() []string {
	if strings.TrimSpace(s.InviteCode) == "" {
		return []string{"inviteCode is required"}
	}
	return nil
}

// ScanInviteSuccessResponse is the success response envelope for POST /invites/scan (200).
type ScanInviteSuccessResponse struct {
	Data  *domain.ScanResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ScanInvite godoc
// @Summary Check an attendee in
// @Description Public. Moves an accepted invite to scanned and returns the attendee and event summary.
// @Description Pending invites are rejected with invite_not_accepted, a second scan with invite_already_scanned.
// @Tags invites
// @Accept json
// @Produce json
// @Param body body ScanInviteRequest true "Invite code read from the QR code"
// @Success 200 {object} controllers.ScanInviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, invite_not_accepted, invite_already_scanned"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Router /invites/scan [post]
func (c *InviteController) ScanInvite(w http.ResponseWriter, r *http.Request) {
	var req ScanInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.ScanInvite(r.Context(), strings.TrimSpace(req.InviteCode))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, inviteNotFoundMessage)
		case errors.Is(err, domain.ErrInviteNotAccepted):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInviteNotAccepted, "Invite not accepted yet")
		case errors.Is(err, domain.ErrInviteAlreadyScanned):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInviteAlreadyScanned, "Already checked in")
		default:
			internalError(c.Logger, w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListInvitesResponse is the response body for GET /events/{eventID}/invites.
type ListInvitesResponse struct {
	Items      []*domain.Invite       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListInvitesSuccessResponse is the success response envelope for GET /events/{eventID}/invites (200).
type ListInvitesSuccessResponse struct {
	Data  *ListInvitesResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListEventInvites godoc
// @Summary List invites of an event
// @Description Owner only, newest first. Other callers get 404.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [get]
func (c *InviteController) ListEventInvites(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	invites, total, err := c.Service.ListEventInvites(r.Context(), eventID, userID, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Event not found")
			return
		}
		internalError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitesResponse{
		Items:      invites,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}
