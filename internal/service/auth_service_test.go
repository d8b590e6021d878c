package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"spelldaily/internal/database"
	"spelldaily/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := database.OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE admin_users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		google_sub TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return NewAuthService(repository.NewAdminRepository(db), "test-secret", time.Hour)
}

func TestLoginAndVerify(t *testing.T) {
	svc := newAuthService(t)
	if err := svc.EnsureBootstrapAdmin("admin@example.com", "hunter22"); err != nil {
		t.Fatalf("EnsureBootstrapAdmin() error: %v", err)
	}

	token, err := svc.Login("admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	email, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("token email = %q, want admin@example.com", email)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	if err := svc.EnsureBootstrapAdmin("admin@example.com", "hunter22"); err != nil {
		t.Fatalf("EnsureBootstrapAdmin() error: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@example.com", "hunter23"},
		{"unknown email", "ghost@example.com", "hunter22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestBootstrapAdminCreatedOnlyOnce(t *testing.T) {
	svc := newAuthService(t)
	if err := svc.EnsureBootstrapAdmin("first@example.com", "pw-one"); err != nil {
		t.Fatalf("first EnsureBootstrapAdmin() error: %v", err)
	}
	if err := svc.EnsureBootstrapAdmin("second@example.com", "pw-two"); err != nil {
		t.Fatalf("second EnsureBootstrapAdmin() error: %v", err)
	}

	if _, err := svc.Login("second@example.com", "pw-two"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("second bootstrap account should not exist")
	}
	if _, err := svc.Login("first@example.com", "pw-one"); err != nil {
		t.Errorf("first bootstrap account should still work: %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyToken(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	db, err := database.OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE admin_users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		google_sub TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	svc := NewAuthService(repository.NewAdminRepository(db), "test-secret", -time.Minute)
	if err := svc.EnsureBootstrapAdmin("admin@example.com", "hunter22"); err != nil {
		t.Fatalf("EnsureBootstrapAdmin() error: %v", err)
	}

	token, err := svc.Login("admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() on expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestLoginWithGoogleLinksByEmail(t *testing.T) {
	svc := newAuthService(t)
	if err := svc.EnsureBootstrapAdmin("admin@example.com", "hunter22"); err != nil {
		t.Fatalf("EnsureBootstrapAdmin() error: %v", err)
	}

	// First sign-in matches by email and links the subject.
	token, err := svc.LoginWithGoogle("google-sub-1", "admin@example.com")
	if err != nil {
		t.Fatalf("LoginWithGoogle() error: %v", err)
	}
	if _, err := svc.VerifyToken(token); err != nil {
		t.Fatalf("VerifyToken() error: %v", err)
	}

	// Second sign-in matches by subject even if the email changed.
	if _, err := svc.LoginWithGoogle("google-sub-1", "renamed@example.com"); err != nil {
		t.Errorf("LoginWithGoogle() by linked subject error: %v", err)
	}

	// Unknown identities are rejected.
	if _, err := svc.LoginWithGoogle("google-sub-2", "stranger@example.com"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("LoginWithGoogle() for stranger error = %v, want ErrInvalidCredentials", err)
	}
}

func TestParseGoogleIDToken(t *testing.T) {
	makeToken := func(claims map[string]string) string {
		payload, _ := json.Marshal(claims)
		encoded := base64.RawURLEncoding.EncodeToString(payload)
		return "header." + encoded + ".signature"
	}

	tests := []struct {
		name     string
		token    string
		wantSub  string
		wantMail string
		wantErr  bool
	}{
		{
			name:     "valid token",
			token:    makeToken(map[string]string{"sub": "12345", "email": "admin@example.com"}),
			wantSub:  "12345",
			wantMail: "admin@example.com",
		},
		{
			name:    "missing email claim",
			token:   makeToken(map[string]string{"sub": "12345"}),
			wantErr: true,
		},
		{
			name:    "not a JWT",
			token:   "just-a-string",
			wantErr: true,
		},
		{
			name:    "payload is not base64",
			token:   "header.!!!.signature",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, email, err := ParseGoogleIDToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGoogleIDToken() error: %v", err)
			}
			if sub != tt.wantSub || email != tt.wantMail {
				t.Errorf("got %q/%q, want %q/%q", sub, email, tt.wantSub, tt.wantMail)
			}
		})
	}
}
