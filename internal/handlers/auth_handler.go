package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"spelldaily/internal/service"
)

// AuthHandler issues admin tokens: password login and the Google OAuth flow.
type AuthHandler struct {
	auth            *service.AuthService
	googleConfig    *oauth2.Config
	redirectBaseURL string
}

// NewAuthHandler creates a new auth handler. googleConfig may be nil when
// Google sign-in is not configured.
func NewAuthHandler(auth *service.AuthService, googleConfig *oauth2.Config, redirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		auth:            auth,
		googleConfig:    googleConfig,
		redirectBaseURL: redirectBaseURL,
	}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// StartGoogleOAuth handles GET /v1/auth/google/start, redirecting the admin to
// Google's consent screen.
func (h *AuthHandler) StartGoogleOAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil || h.googleConfig.ClientID == "" {
		respondError(w, http.StatusBadRequest, "Google sign-in not configured", nil)
		return
	}

	state := uuid.NewString()
	h.setTempCookie(w, r, "oauth_state", state, 10*time.Minute)

	config := *h.googleConfig
	config.RedirectURL = h.oauthRedirectURL(r)
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// GoogleOAuthCallback handles GET /v1/auth/google/callback: the state check,
// the code exchange and the token issue.
func (h *AuthHandler) GoogleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil || h.googleConfig.ClientID == "" {
		respondError(w, http.StatusBadRequest, "Google sign-in not configured", nil)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "Missing authorization code", nil)
		return
	}
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondError(w, http.StatusBadRequest, "Invalid OAuth state", nil)
		return
	}
	h.clearTempCookie(w, r, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.googleConfig
	config.RedirectURL = h.oauthRedirectURL(r)
	oauthToken, err := config.Exchange(ctx, code)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to exchange OAuth code", err)
		return
	}

	idToken, _ := oauthToken.Extra("id_token").(string)
	if idToken == "" {
		respondError(w, http.StatusBadRequest, "Missing Google id_token", nil)
		return
	}
	sub, email, err := service.ParseGoogleIDToken(idToken)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid Google id_token", err)
		return
	}

	token, err := h.auth.LoginWithGoogle(sub, email)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondError(w, http.StatusForbidden, "No admin account for this Google identity", nil)
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.redirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if isSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/v1/auth/google/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// isSecureRequest reports whether the request arrived over TLS, directly or
// through a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
