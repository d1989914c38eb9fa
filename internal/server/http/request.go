package http

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
)

// minPasswordLength is the only password policy: at least six characters.
const minPasswordLength = 6

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// verifyMFARequest continues a paused sign-in. The challenge token travels in
// the body, not the authorization header: it is a pre-authentication artifact.
type verifyMFARequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"token"`
}

type verifyMFASetupRequest struct {
	Code string `json:"token"`
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	// require a domain with a dot, like the frontend validator does
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func (r *signUpRequest) validate() []FieldError {
	var errs []FieldError
	if !validEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if len(r.Password) < minPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return errs
}

func (r *signInRequest) validate() []FieldError {
	var errs []FieldError
	if !validEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}
