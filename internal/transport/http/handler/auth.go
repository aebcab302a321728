package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/otp-dashboard/internal/application/otp"
	"github.com/otp-dashboard/internal/domain"
	"github.com/otp-dashboard/internal/pkg/validate"
	"github.com/otp-dashboard/internal/transport/http/middleware"
)

// AuthHandler serves the email OTP endpoints.
type AuthHandler struct {
	svc          otp.Service
	secureCookie bool
	sessionTTL   time.Duration
}

func NewAuthHandler(svc otp.Service, secureCookie bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie, sessionTTL: sessionTTL}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if !decode(w, r, &req, "Invalid email") {
		return
	}
	if err := h.svc.Send(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err, "Failed to send OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOTPRequest
	if !decode(w, r, &req, "Invalid email") {
		return
	}
	if err := h.svc.Resend(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err, "Failed to resend OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP resent successfully"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if !decode(w, r, &req, "Invalid input") {
		return
	}
	res, err := h.svc.Verify(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, r, err, "Verification failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Verification successful"})
}

// Me reports the email of the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, MeEnvelope{Email: claims.Email})
}

// decode reads exactly one JSON object with no unknown fields and validates
// it, writing a 400 with badInput on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}, badInput string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, badInput)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, badInput)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		slog.DebugContext(r.Context(), "request rejected", "error", err)
		writeError(w, http.StatusBadRequest, badInput)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		w.Header().Set("Retry-After", strconv.Itoa(rl.Seconds()))
		writeError(w, http.StatusTooManyRequests, rl.Error())
		return
	}

	var de *domain.Error
	switch {
	case errors.As(err, &de) && isClientError(de.Kind):
		writeError(w, http.StatusBadRequest, de.Message)
	default:
		slog.ErrorContext(r.Context(), generic, "error", err)
		writeError(w, http.StatusInternalServerError, generic)
	}
}

func isClientError(kind error) bool {
	for _, k := range []error{
		domain.ErrValidation,
		domain.ErrConflict,
		domain.ErrNotFound,
		domain.ErrInvalidState,
		domain.ErrInvalidCode,
		domain.ErrExpired,
	} {
		if errors.Is(kind, k) {
			return true
		}
	}
	return false
}
