package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "10080", "-m", "10", "-i", "Streamly", "-o", "https://app.streamly.example",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:     "127.0.0.1:9090",
				DatabaseDSN:          "db",
				SecretKey:            "secret",
				SessionTokenValidity: 10080 * time.Minute,
				MFAChallengeValidity: 10 * time.Minute,
				TOTPIssuer:           "Streamly",
				CORSAllowedOrigins:   []string{"https://app.streamly.example"},
			}},
		{name: "Test2 multiple origins", args: []string{"cmd",
			"-o", "https://a.example,https://b.example",
		}, expectPanic: false,
			expected: &Config{
				SessionTokenValidity: 0,
				MFAChallengeValidity: 0,
				CORSAllowedOrigins:   []string{"https://a.example", "https://b.example"},
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected, config)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
