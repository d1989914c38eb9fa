package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/streamly/authd/internal/flagx"
	"github.com/streamly/authd/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "10m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	SessionTokenValidity timex.Duration `json:"session_token_validity"`
	MFAChallengeValidity timex.Duration `json:"mfa_challenge_validity"`
	TOTPIssuer           string         `json:"totp_issuer"`
	CORSAllowedOrigins   []string       `json:"cors_allowed_origins"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionTokenValidity = time.Duration(c.SessionTokenValidity.Duration)
	config.MFAChallengeValidity = time.Duration(c.MFAChallengeValidity.Duration)
	config.TOTPIssuer = c.TOTPIssuer
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}
