package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"venuecatalog/backend/internal/auth"
	"venuecatalog/backend/internal/http/middleware"
	"venuecatalog/backend/internal/models"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type loginResponse struct {
	User         models.Principal `json:"user"`
	SessionToken string           `json:"session_token"`
	ExpiresAt    time.Time        `json:"expires_at"`
	Message      string           `json:"message"`
}

type verifyResponse struct {
	User         models.Principal `json:"user"`
	SessionValid bool             `json:"session_valid"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

type sessionTokenBody struct {
	SessionToken string `json:"session_token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	ip := middleware.ClientIP(r)
	if !h.loginLimiter.Allow(ip) {
		logger.Warn("action", "action", "login", "status", "rate_limited", "ip", ip)
		writeError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req loginRequest
	if !h.decodeAndValidate(w, r, logger, "login", &req) {
		return
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	result, err := h.auth.Login(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		logger.Warn("action", "action", "login", "status", "invalid_credentials", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	case errors.Is(err, auth.ErrAccountDisabled):
		logger.Warn("action", "action", "login", "status", "account_disabled", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "Account is disabled")
		return
	case err != nil:
		logger.Error("action", "action", "login", "status", "session_error", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.loginLimiter.Reset(ip)
	logger.Info("action", "action", "login", "status", "success", "user_id", result.Principal.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		User:         result.Principal,
		SessionToken: result.Token,
		ExpiresAt:    result.Session.ExpiresAt,
		Message:      "Login successful",
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	token := sessionToken(r)
	if token == "" && r.Body != nil && r.ContentLength != 0 {
		var body sessionTokenBody
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err == nil {
			token = body.SessionToken
		}
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Invalid session")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if err := h.auth.Logout(ctx, token); err != nil {
		if errors.Is(err, auth.ErrInvalidSession) {
			logger.Warn("action", "action", "logout", "status", "invalid_session")
			writeError(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		logger.Error("action", "action", "logout", "status", "session_error", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	logger.Info("action", "action", "logout", "status", "success")
	writeMessage(w, "Logout successful")
}

func (h *Handler) VerifySession(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	token := sessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Invalid or expired session")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	principal, session, err := h.auth.Verify(ctx, token)
	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "Session expired")
		return
	case errors.Is(err, auth.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "Invalid or expired session")
		return
	case errors.Is(err, auth.ErrPrincipalUnavailable):
		logger.Warn("action", "action", "verify_session", "status", "principal_unavailable")
		writeError(w, http.StatusUnauthorized, "User account not found or disabled")
		return
	case err != nil:
		logger.Error("action", "action", "verify_session", "status", "session_error", "error", err)
		writeError(w, http.StatusInternalServerError, "session check failed")
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		User:         principal,
		SessionValid: true,
		ExpiresAt:    session.ExpiresAt,
	})
}

// sessionToken reads the token from the session_token query parameter or a bearer header.
func sessionToken(r *http.Request) string {
	if token := r.URL.Query().Get("session_token"); token != "" {
		return token
	}
	return middleware.BearerToken(r)
}
