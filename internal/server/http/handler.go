package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/streamly/authd/internal/common"
	"github.com/streamly/authd/internal/logging"
	"github.com/streamly/authd/internal/server/auth"
	"github.com/streamly/authd/internal/server/users"
)

type Handler struct {
	users  *users.Service
	tokens *auth.TokenIssuer
	logger logging.Logger
}

func NewHandler(us *users.Service, tokens *auth.TokenIssuer, l logging.Logger) *Handler {
	return &Handler{
		users:  us,
		tokens: tokens,
		logger: l.With("module", "http_handler"),
	}
}

// Register wires the protocol surface onto the router.
func (h *Handler) Register(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	a := api.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/signup", h.SignUp).Methods(http.MethodPost)
	a.HandleFunc("/signin", h.SignIn).Methods(http.MethodPost)
	a.HandleFunc("/verify-mfa", h.VerifyMFA).Methods(http.MethodPost)
	a.HandleFunc("/setup-mfa", h.requireAuth(h.SetupMFA)).Methods(http.MethodPost)
	a.HandleFunc("/verify-mfa-setup", h.requireAuth(h.VerifyMFASetup)).Methods(http.MethodPost)
	a.HandleFunc("/disable-mfa", h.requireAuth(h.DisableMFA)).Methods(http.MethodPost)
	a.HandleFunc("/me", h.requireAuth(h.Me)).Methods(http.MethodGet)

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}

// SignUp handles POST /api/auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	result, err := h.users.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			respondError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		h.logger.Error(ctx, "signup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	h.logger.Info(ctx, "user registered", "userID", result.User.ID)
	respondSuccess(w, http.StatusCreated, envelope{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

// SignIn handles POST /api/auth/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		respondValidationErrors(w, errs)
		return
	}

	result, err := h.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error(ctx, "signin failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error during signin")
		return
	}

	if result.MFARequired {
		respondSuccess(w, http.StatusOK, envelope{
			"mfaRequired": true,
			"tempToken":   result.TempToken,
			"message":     "Please provide MFA code",
		})
		return
	}

	respondSuccess(w, http.StatusOK, envelope{
		"message": "Signed in successfully",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

// VerifyMFA handles POST /api/auth/verify-mfa, the sign-in continuation.
func (h *Handler) VerifyMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyMFARequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TempToken == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Please provide temp token and verification code")
		return
	}

	result, err := h.users.VerifyMFA(ctx, req.TempToken, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken):
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		case errors.Is(err, common.ErrInvalidTokenKind):
			respondError(w, http.StatusBadRequest, "Invalid token type")
		case errors.Is(err, common.ErrMFANotEnabled):
			respondError(w, http.StatusBadRequest, "MFA not enabled for this user")
		case errors.Is(err, common.ErrInvalidCode):
			respondError(w, http.StatusBadRequest, "Invalid verification code")
		default:
			h.logger.Error(ctx, "mfa verification failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Server error during MFA verification")
		}
		return
	}

	respondSuccess(w, http.StatusOK, envelope{
		"message": "MFA verified successfully",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

// SetupMFA handles POST /api/auth/setup-mfa.
func (h *Handler) SetupMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userIDFromContext(ctx)

	setup, err := h.users.SetupMFA(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error(ctx, "mfa setup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error during MFA setup")
		return
	}

	respondSuccess(w, http.StatusOK, envelope{
		"secret":     setup.Secret,
		"otpauthUrl": setup.ProvisioningURL,
		"qrCode":     setup.QRCode,
		"message":    "Scan QR code with your authenticator app",
	})
}

// VerifyMFASetup handles POST /api/auth/verify-mfa-setup.
func (h *Handler) VerifyMFASetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userIDFromContext(ctx)

	var req verifyMFASetupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "Please provide verification code")
		return
	}

	if err := h.users.VerifyMFASetup(ctx, userID, req.Code); err != nil {
		switch {
		case errors.Is(err, common.ErrMFANotInitiated):
			respondError(w, http.StatusBadRequest, "MFA setup not initiated")
		case errors.Is(err, common.ErrInvalidCode):
			respondError(w, http.StatusBadRequest, "Invalid verification code")
		default:
			h.logger.Error(ctx, "mfa setup verification failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Server error during MFA verification")
		}
		return
	}

	h.logger.Info(ctx, "mfa enabled", "userID", userID)
	respondSuccess(w, http.StatusOK, envelope{"message": "MFA enabled successfully"})
}

// DisableMFA handles POST /api/auth/disable-mfa.
func (h *Handler) DisableMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userIDFromContext(ctx)

	if err := h.users.DisableMFA(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error(ctx, "mfa disable failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info(ctx, "mfa disabled", "userID", userID)
	respondSuccess(w, http.StatusOK, envelope{"message": "MFA disabled successfully"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userIDFromContext(ctx)

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error(ctx, "user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondSuccess(w, http.StatusOK, envelope{"user": user.Public()})
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{"status": "OK", "message": "Server is running"})
}
