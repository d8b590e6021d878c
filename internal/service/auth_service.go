package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"spelldaily/internal/models"
	"spelldaily/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for a missing, malformed or expired token.
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService issues and verifies the bearer tokens protecting the admin API.
// Password sign-in uses bcrypt; Google sign-in matches the ID token's subject
// against a linked admin account.
type AuthService struct {
	admins      *repository.AdminRepository
	jwtSecret   []byte
	jwtLifetime time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(admins *repository.AdminRepository, jwtSecret string, jwtLifetime time.Duration) *AuthService {
	return &AuthService{
		admins:      admins,
		jwtSecret:   []byte(jwtSecret),
		jwtLifetime: jwtLifetime,
	}
}

// EnsureBootstrapAdmin creates the initial admin account from configuration
// when no admin exists yet.
func (s *AuthService) EnsureBootstrapAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.admins.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	if _, err := s.admins.Create(email, string(hash)); err != nil {
		return err
	}
	log.Printf("Bootstrap admin account created: %s", email)
	return nil
}

// Login verifies a password and issues a token.
func (s *AuthService) Login(email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		// Burn a comparison so missing and wrong-password take similar time.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uq2dK1WiEVXCS8jIO3nNxpfiq4v9zQG"), []byte(password))
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(admin)
}

// LoginWithGoogle matches a verified Google identity to an admin account and
// issues a token. The account is linked by subject on first use when the
// email matches an existing admin.
func (s *AuthService) LoginWithGoogle(sub, email string) (string, error) {
	admin, err := s.admins.GetByGoogleSub(sub)
	if errors.Is(err, repository.ErrNotFound) {
		admin, err = s.admins.GetByEmail(email)
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		if err != nil {
			return "", err
		}
		if err := s.admins.LinkGoogleSub(admin.ID, sub); err != nil {
			return "", err
		}
		log.Printf("Linked Google account to admin %s", admin.Email)
	} else if err != nil {
		return "", err
	}
	return s.issueToken(admin)
}

func (s *AuthService) issueToken(admin *models.AdminUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", admin.ID),
		"email": admin.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwtLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the admin email.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// ParseGoogleIDToken extracts the subject and email claims from a Google ID
// token obtained through the OAuth code exchange. The token comes straight
// from Google over TLS, so the claims are read without re-verifying the
// signature.
func ParseGoogleIDToken(idToken string) (sub, email string, err error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", "", ErrInvalidToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", ErrInvalidToken
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", "", ErrInvalidToken
	}
	if claims.Sub == "" || claims.Email == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Sub, claims.Email, nil
}
