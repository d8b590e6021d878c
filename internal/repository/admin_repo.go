package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"spelldaily/internal/database"
	"spelldaily/internal/models"
)

// AdminRepository handles operator account storage.
type AdminRepository struct {
	db database.DBTX
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db database.DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail retrieves an admin by email.
func (r *AdminRepository) GetByEmail(email string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, COALESCE(google_sub, ''), created_at
		FROM admin_users
		WHERE email = ?
	`
	return r.scanOne(r.db.QueryRow(query, email))
}

// GetByGoogleSub retrieves an admin by their linked Google subject ID.
func (r *AdminRepository) GetByGoogleSub(sub string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, COALESCE(google_sub, ''), created_at
		FROM admin_users
		WHERE google_sub = ?
	`
	return r.scanOne(r.db.QueryRow(query, sub))
}

func (r *AdminRepository) scanOne(row *sql.Row) (*models.AdminUser, error) {
	var u models.AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.GoogleSub, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}
	return &u, nil
}

// Create inserts a new admin account and returns its ID.
func (r *AdminRepository) Create(email, passwordHash string) (int64, error) {
	id, err := r.db.ExecReturningID(
		`INSERT INTO admin_users (email, password_hash) VALUES (?, ?)`,
		email, passwordHash,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create admin user %q: %w", email, err)
	}
	return id, nil
}

// LinkGoogleSub stores the Google subject ID for an existing account.
func (r *AdminRepository) LinkGoogleSub(id int64, sub string) error {
	_, err := r.db.Exec(`UPDATE admin_users SET google_sub = ? WHERE id = ?`, sub, id)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return nil
}

// Count returns how many admin accounts exist.
func (r *AdminRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return count, nil
}
