package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"venuecatalog/backend/internal/auth"
	"venuecatalog/backend/internal/catalog"
	"venuecatalog/backend/internal/config"
	authmw "venuecatalog/backend/internal/http/middleware"
	"venuecatalog/backend/internal/rate"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	catalog      *catalog.Service
	auth         *auth.Manager
	cfg          *config.Config
	logger       *slog.Logger
	validator    *validator.Validate
	loginLimiter *rate.WindowLimiter
	apiLimiter   *rate.KeyedLimiter
}

func New(svc *catalog.Service, authManager *auth.Manager, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &Handler{
		catalog:      svc,
		auth:         authManager,
		cfg:          cfg,
		logger:       logger,
		validator:    v,
		loginLimiter: rate.NewWindowLimiter(cfg.Auth.LoginAttemptsPerMinute, time.Minute),
		apiLimiter:   rate.NewKeyedLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute),
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if principal, ok := authmw.PrincipalFromContext(r.Context()); ok {
		logger = logger.With("user_id", principal.ID)
	}
	if authmw.APIKeyFromContext(r.Context()) {
		logger = logger.With("api_key", true)
	}
	return logger
}
