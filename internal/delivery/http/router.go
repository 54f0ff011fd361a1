package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventflow/internal/delivery/http/controllers"
	"eventflow/internal/delivery/http/helpers"
	"eventflow/internal/delivery/http/middleware"
	"eventflow/internal/domain"
)

// RouterDeps holds everything the router wires into routes.
type RouterDeps struct {
	Logger           *slog.Logger
	Verifier         domain.TokenVerifier
	Limiter          domain.RateLimiter
	TrustForwarded   bool
	AllowedOrigins   []string
	EventController  *controllers.EventController
	InviteController *controllers.InviteController
	MediaController  *controllers.MediaController
	// Health is probed by GET /healthz; nil reports healthy.
	Health func(ctx context.Context) error
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// in CORS, request logging and panic recovery.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(d.Verifier, d.Logger)
	optionalAuth := middleware.OptionalAuth(d.Verifier, d.Logger)
	public := func(scope string) func(http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimit(d.Limiter, scope, d.TrustForwarded, d.Logger)
	}

	// Events
	mux.HandleFunc("POST /events", requireAuth(d.EventController.CreateEvent))
	mux.HandleFunc("GET /events", requireAuth(d.EventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", optionalAuth(d.EventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(d.EventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(d.EventController.DeleteEvent))
	mux.HandleFunc("GET /events/{eventID}/invites", requireAuth(d.InviteController.ListEventInvites))

	// Invites. Everything but creation is reachable with the invite code alone.
	mux.HandleFunc("POST /invites", requireAuth(d.InviteController.CreateInvite))
	mux.HandleFunc("GET /invites/{code}", public("invite-read")(d.InviteController.GetInvite))
	mux.HandleFunc("POST /invites/accept", public("invite-accept")(d.InviteController.AcceptInvite))
	mux.HandleFunc("POST /invites/scan", public("invite-scan")(d.InviteController.ScanInvite))

	// Media
	mux.HandleFunc("POST /media", requireAuth(d.MediaController.UploadMedia))
	mux.HandleFunc("GET /media", optionalAuth(d.MediaController.ListMedia))
	mux.HandleFunc("DELETE /media", requireAuth(d.MediaController.DeleteMedia))
	mux.HandleFunc("GET /media/url", optionalAuth(d.MediaController.SignedURL))

	mux.HandleFunc("GET /healthz", healthHandler(d.Logger, d.Health))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.Recovery(d.Logger, handler)
	handler = middleware.LoggingMiddleware(d.Logger, handler)
	handler = middleware.CORS(d.AllowedOrigins, handler)
	return handler
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// healthHandler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status is ok"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error"
// @Router /healthz [get]
func healthHandler(logger *slog.Logger, probe func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if probe != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := probe(ctx); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "err", err)
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "unhealthy")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
