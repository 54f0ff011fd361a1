package controllers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"eventflow/internal/delivery/http/helpers"
	"eventflow/internal/delivery/http/middleware"
	"eventflow/internal/domain"
)

// DefaultMaxUploadBytes is used when MediaController.MaxUploadBytes is not set.
const DefaultMaxUploadBytes = 50 << 20

// multipartMemory is how much of a multipart form is buffered in memory; the rest spills to disk.
const multipartMemory = 8 << 20

type MediaController struct {
	Logger         *slog.Logger
	Service        domain.MediaService
	MaxUploadBytes int64
}

func NewMediaController(logger *slog.Logger, svc domain.MediaService, maxUploadBytes int64) *MediaController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &MediaController{
		Logger:         logger,
		Service:        svc,
		MaxUploadBytes: maxUploadBytes,
	}
}

// MediaSuccessResponse is the success response envelope for POST /media (201).
type MediaSuccessResponse struct {
	Data  *domain.Media     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UploadMedia godoc
// @Summary Upload a gallery file
// @Description Owner only. Multipart form with file, eventId and an optional caption. Only image and video files are accepted.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image or video"
// @Param eventId formData string true "Event ID (UUID)"
// @Param caption formData string false "Caption"
// @Success 201 {object} controllers.MediaSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 413 {object} helpers.APIResponse "error.code: payload_too_large"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 503 {object} helpers.APIResponse "error.code: not_configured"
// @Router /media [post]
func (c *MediaController) UploadMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodePayloadTooLarge, "File too large")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "File and eventId are required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	eventID := r.FormValue("eventId")
	if err != nil || eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "File and eventId are required")
		return
	}
	defer file.Close()
	if !validID(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventId must be a valid UUID")
		return
	}

	contentType, err := uploadContentType(file, header)
	if err != nil {
		internalError(c.Logger, w, r, err)
		return
	}

	media, err := c.Service.UploadMedia(r.Context(), userID, domain.UploadMediaInput{
		EventID:     eventID,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Caption:     r.FormValue("caption"),
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "Event not found or unauthorized")
		case errors.Is(err, domain.ErrNotConfigured):
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeNotConfigured, "Media storage not configured")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to upload file")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, media)
}

// uploadContentType trusts the declared part type unless it is missing or generic,
// in which case the content is sniffed and the file rewound.
func uploadContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	declared := header.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	ct, _, _ := strings.Cut(mt.String(), ";")
	return ct, nil
}

// ListMediaSuccessResponse is the success response envelope for GET /media (200).
type ListMediaSuccessResponse struct {
	Data  []*domain.GalleryItem `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListMedia godoc
// @Summary List an event gallery
// @Description Newest first. Readable by the owner or with an accepted or scanned invite code.
// @Description With includeUrls=true every item carries a time-limited url.
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param eventId query string true "Event ID (UUID)"
// @Param inviteCode query string false "Invite code of a guest"
// @Param includeUrls query bool false "Sign a display URL for each item"
// @Success 200 {object} controllers.ListMediaSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /media [get]
func (c *MediaController) ListMedia(w http.ResponseWriter, r *http.Request) {
	q, ok := mediaQuery(w, r)
	if !ok {
		return
	}
	q.WithURLs = r.URL.Query().Get("includeUrls") == "true"
	items, err := c.Service.ListMedia(r.Context(), q)
	if err != nil {
		c.writeViewError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// DeleteMediaRequest is the request body for DELETE /media.
type DeleteMediaRequest struct {
	MediaID string `json:"mediaId"`
}

// Validate implements Validator.
func (d DeleteMediaRequest) Validate() []string {
	if d.MediaID == "" {
		return []string{"Media ID is required"}
	}
	if !validID(d.MediaID) {
		return []string{"mediaId must be a valid UUID"}
	}
	return nil
}

// DeleteMediaResponse is the response body for DELETE /media.
type DeleteMediaResponse struct {
	Success bool `json:"success"`
}

// DeleteMedia godoc
// @Summary Delete a gallery file
// @Description Owner only. Removes the stored file and its record.
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteMediaRequest true "Media to delete"
// @Success 200 {object} helpers.APIResponse "data.success is true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /media [delete]
func (c *MediaController) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Unauthorized")
		return
	}
	var req DeleteMediaRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.DeleteMedia(r.Context(), req.MediaID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "Media not found or unauthorized")
		case errors.Is(err, domain.ErrNotConfigured):
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeNotConfigured, "Media storage not configured")
		default:
			internalError(c.Logger, w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteMediaResponse{Success: true})
}

// SignedURLResponse is the response body for GET /media/url.
type SignedURLResponse struct {
	URL string `json:"url"`
}

// SignedURLSuccessResponse is the success response envelope for GET /media/url (200).
type SignedURLSuccessResponse struct {
	Data  *SignedURLResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// SignedURL godoc
// @Summary Sign a gallery file URL
// @Description Returns a time-limited URL for one stored file of the event. Same access rules as listing.
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param path query string true "Stored file path"
// @Param eventId query string true "Event ID (UUID)"
// @Param inviteCode query string false "Invite code of a guest"
// @Success 200 {object} controllers.SignedURLSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 503 {object} helpers.APIResponse "error.code: not_configured"
// @Router /media/url [get]
func (c *MediaController) SignedURL(w http.ResponseWriter, r *http.Request) {
	objectPath := r.URL.Query().Get("path")
	if objectPath == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Path is required")
		return
	}
	q, ok := mediaQuery(w, r)
	if !ok {
		return
	}
	url, err := c.Service.SignedURL(r.Context(), q, objectPath)
	if err != nil {
		c.writeViewError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SignedURLResponse{URL: url})
}

// mediaQuery reads the gallery and credential parameters shared by the read endpoints.
func mediaQuery(w http.ResponseWriter, r *http.Request) (domain.MediaQuery, bool) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Event ID is required")
		return domain.MediaQuery{}, false
	}
	if !validID(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventId must be a valid UUID")
		return domain.MediaQuery{}, false
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	return domain.MediaQuery{
		EventID:    eventID,
		UserID:     userID,
		InviteCode: r.URL.Query().Get("inviteCode"),
	}, true
}

func (c *MediaController) writeViewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "Unauthorized to view media")
	case errors.Is(err, domain.ErrNotConfigured):
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeNotConfigured, "Media storage not configured")
	default:
		internalError(c.Logger, w, r, err)
	}
}
