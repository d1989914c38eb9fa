// Package users implements the account model, its storage and the
// authentication state machine: sign-up, sign-in, MFA enrollment and
// verification, and session identity lookup.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/streamly/authd/internal/common"
	"github.com/streamly/authd/internal/server/auth"
)

// AuthResult is a freshly minted session token plus the authenticated user.
type AuthResult struct {
	Token string
	User  *User
}

// SignInResult is the outcome of a successful password check. When the
// account has MFA enabled the protocol pauses: TempToken carries the
// short-lived MFA challenge and Token stays empty until VerifyMFA succeeds.
type SignInResult struct {
	MFARequired bool
	TempToken   string
	Token       string
	User        *User
}

// MFASetup is the enrollment artifact returned by SetupMFA. The secret is
// shown to the caller exactly once; afterwards only codes derived from it
// travel over the wire.
type MFASetup struct {
	Secret          string
	ProvisioningURL string
	QRCode          string
}

type Service struct {
	repo   Repository
	tokens *auth.TokenIssuer
	totp   *auth.TOTPEngine
}

func NewService(repo Repository, tokens *auth.TokenIssuer, totp *auth.TOTPEngine) *Service {
	return &Service{repo: repo, tokens: tokens, totp: totp}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account and signs it in. A duplicate email yields
// common.ErrEmailExists. Password length policy is enforced at the HTTP
// boundary before this method is reached.
func (s *Service) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {

	email = normalizeEmail(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrEmailExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		// auto-verified: no email verification flow exists yet
		EmailVerified: true,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user}, nil
}

// SignIn verifies the credentials. An unknown email and a wrong password both
// yield common.ErrInvalidCredentials so the two cases cannot be told apart.
// With MFA enabled the result carries an MFA challenge token instead of a
// session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	if user.MFAEnabled {
		tempToken, err := s.tokens.IssueMfaChallenge(user.ID)
		if err != nil {
			return nil, common.ErrorInternal
		}
		return &SignInResult{MFARequired: true, TempToken: tempToken}, nil
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &SignInResult{Token: token, User: user}, nil
}

// VerifyMFA completes a paused sign-in. The temp token must decode and carry
// the MFA-pending discriminator, the account must still have MFA enabled with
// a confirmed secret, and the code must match within the drift window.
func (s *Service) VerifyMFA(ctx context.Context, tempToken, code string) (*AuthResult, error) {

	claims, err := s.tokens.Verify(tempToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	if !claims.MFARequired {
		return nil, common.ErrInvalidTokenKind
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrMFANotEnabled
		}
		return nil, common.ErrorInternal
	}
	if !user.MFAEnabled || user.MFASecret == "" {
		return nil, common.ErrMFANotEnabled
	}

	if !s.totp.VerifyCode(user.MFASecret, code) {
		return nil, common.ErrInvalidCode
	}

	token, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user}, nil
}

// SetupMFA generates a fresh secret and stores it on the account without
// enabling MFA. Calling it again overwrites any pending, unconfirmed secret:
// last write wins, no rollback.
func (s *Service) SetupMFA(ctx context.Context, userID string) (*MFASetup, error) {

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	key, err := s.totp.GenerateSecret(user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	qrCode, err := auth.QRCodeDataURL(key)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user.MFASecret = key.Secret()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, common.ErrorInternal
	}

	return &MFASetup{
		Secret:          key.Secret(),
		ProvisioningURL: key.URL(),
		QRCode:          qrCode,
	}, nil
}

// VerifyMFASetup confirms a pending enrollment: the submitted code is checked
// against the stored secret and on success MFA is switched on.
func (s *Service) VerifyMFASetup(ctx context.Context, userID, code string) error {

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrMFANotInitiated
		}
		return common.ErrorInternal
	}
	if user.MFASecret == "" {
		return common.ErrMFANotInitiated
	}

	if !s.totp.VerifyCode(user.MFASecret, code) {
		return common.ErrInvalidCode
	}

	user.MFAEnabled = true
	if err := s.repo.Update(ctx, user); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// DisableMFA clears the flag and discards the secret. Disabling an account
// that never enabled MFA is a no-op success. Possession of a valid session
// token is the only requirement; no code challenge is re-run here.
func (s *Service) DisableMFA(ctx context.Context, userID string) error {

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	user.MFAEnabled = false
	user.MFASecret = ""
	if err := s.repo.Update(ctx, user); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// GetUser resolves the subject of a session token. The user can vanish
// between token issuance and lookup; that surfaces as common.ErrorNotFound.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
