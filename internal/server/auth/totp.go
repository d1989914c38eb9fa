package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// totpPeriod is the TOTP time step in seconds.
	totpPeriod = 30
	// totpSkew is the number of adjacent time steps accepted on each side of
	// the current one, i.e. ±60s of clock drift tolerance.
	totpSkew = 2
)

// TOTPEngine generates enrollment secrets and verifies time-based one-time
// codes. The current time is taken from the injected clock so the drift
// window can be tested deterministically.
type TOTPEngine struct {
	issuer string
	now    func() time.Time
}

func NewTOTPEngine(issuer string) *TOTPEngine {
	return &TOTPEngine{issuer: issuer, now: time.Now}
}

// GenerateSecret produces a fresh random shared secret for the given account
// email, wrapped in a key that also carries the otpauth:// provisioning URL.
// Nothing is persisted; the caller stores the secret on the user record.
func (e *TOTPEngine) GenerateSecret(accountEmail string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: accountEmail,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

// VerifyCode reports whether the submitted six-digit code is valid for the
// secret at any time step within the drift window. Empty or malformed codes
// and unparseable secrets yield false, never an error.
func (e *TOTPEngine) VerifyCode(secret, code string) bool {
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, e.now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// QRCodeDataURL renders the provisioning URL of a key as a PNG QR code and
// returns it as a data URL, ready to drop into an <img> tag.
func QRCodeDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
