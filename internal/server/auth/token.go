// Package auth implements the security primitives of the Streamly backend:
// JWT session/MFA-challenge tokens, password hashing and TOTP verification.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/streamly/authd/internal/common"
)

// Claims carries the standard registered claims plus the subject user ID and
// the MFA-pending discriminator. A session token has MFARequired unset; an MFA
// challenge token issued after a successful password check has it set.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"userId"`
	MFARequired bool   `json:"mfaRequired,omitempty"`
}

// TokenIssuer mints and validates bearer tokens. All tokens are signed with
// one process-wide HMAC secret; there is no per-user signing key, and no
// server-side record of issued tokens. Rotating the secret invalidates every
// outstanding token.
type TokenIssuer struct {
	secret            []byte
	sessionValidity   time.Duration
	challengeValidity time.Duration
	now               func() time.Time
}

func NewTokenIssuer(secretKey string, sessionValidity, challengeValidity time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:            []byte(secretKey),
		sessionValidity:   sessionValidity,
		challengeValidity: challengeValidity,
		now:               time.Now,
	}
}

func (i *TokenIssuer) sign(userID string, validity time.Duration, mfaRequired bool) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:      userID,
		MFARequired: mfaRequired,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IssueSession mints a full session token for the given user.
func (i *TokenIssuer) IssueSession(userID string) (string, error) {
	return i.sign(userID, i.sessionValidity, false)
}

// IssueMfaChallenge mints a short-lived token proving "password verified,
// second factor pending". It is accepted only by the MFA verification step.
func (i *TokenIssuer) IssueMfaChallenge(userID string) (string, error) {
	return i.sign(userID, i.challengeValidity, true)
}

// Verify checks signature and expiry and returns the token claims. Any
// failure (bad signature, expired, malformed) is reported as the single
// sentinel common.ErrInvalidToken so callers cannot tell the cases apart.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
