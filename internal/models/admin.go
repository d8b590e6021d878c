package models

import "time"

// AdminUser is an operator account for the authoring API. Password sign-in is
// always available; GoogleSub is set once the account has been linked to a
// Google identity.
type AdminUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleSub    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// QuestionSetSummary is the listing row for the admin panel.
type QuestionSetSummary struct {
	Code      string    `json:"code"`
	UpdatedAt time.Time `json:"updatedAt"`
}
