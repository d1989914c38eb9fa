package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/streamly/authd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-m int      MFA challenge token validity, minutes
//	-i string   TOTP issuer name
//	-o string   comma-separated CORS allowed origins
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-i", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidity.Minutes()), "session_token_validity (in minutes)")
	mfaChallengeValidity := fs.Int("m", int(config.MFAChallengeValidity.Minutes()), "mfa_challenge_validity (in minutes)")

	fs.StringVar(&config.TOTPIssuer, "i", config.TOTPIssuer, "TOTP issuer name")
	origins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "CORS allowed origins (comma-separated)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidity = time.Duration(*sessionTokenValidity) * time.Minute
	config.MFAChallengeValidity = time.Duration(*mfaChallengeValidity) * time.Minute
	config.CORSAllowedOrigins = strings.Split(*origins, ",")
}
