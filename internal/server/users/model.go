package users

import "time"

// User is the identity and auth state of one account.
//
// Invariant: MFAEnabled implies a non-empty, previously confirmed MFASecret.
// A non-empty MFASecret with MFAEnabled=false is an in-progress, unconfirmed
// enrollment, a valid transient state rather than an error.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	MFAEnabled    bool
	MFASecret     string
	EmailVerified bool
	CreatedAt     time.Time
}

// PublicUser is the outward-facing projection of a User. The password hash
// and the MFA secret never appear in any response, under any endpoint.
type PublicUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	MFAEnabled    bool   `json:"mfaEnabled"`
	EmailVerified bool   `json:"emailVerified"`
}

// Public returns the projection of u that is safe to serialize.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		MFAEnabled:    u.MFAEnabled,
		EmailVerified: u.EmailVerified,
	}
}
