package http

import (
	"fmt"
	"net/http"
	"strings"

	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/security"
)

// IssueToken exchanges operator credentials for a bearer token.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput))
		return
	}

	hash, ok := h.operators[username]
	if !ok {
		logger.Warn("Token requested for unknown operator", "username", username)
		writeError(w, security.ErrInvalidCredentials)
		return
	}
	if err := security.CheckPassword(hash, req.Password); err != nil {
		logger.Warn("Token requested with wrong password", "username", username)
		writeError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.GenerateAccessToken(username)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Issued access token", "username", username, "expires_at", expiresAt)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

type settingsResponse struct {
	config.SettingsConfig
	Statuses   []domain.BookingStatus `json:"statuses"`
	LeaseModes []domain.LeaseMode     `json:"lease_modes"`
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsResponse{
		SettingsConfig: h.settings,
		Statuses: []domain.BookingStatus{
			domain.BookingStatusDraft,
			domain.BookingStatusWaitingForDelivery,
			domain.BookingStatusWaitingForReturn,
			domain.BookingStatusCompleted,
			domain.BookingStatusPostponed,
		},
		LeaseModes: []domain.LeaseMode{domain.LeaseModeFixed, domain.LeaseModePerDay, domain.LeaseModeRange},
	})
}
