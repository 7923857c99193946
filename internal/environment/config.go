package environment

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultApiURL    = "http://localhost:3001"
	defaultTimeoutMs = 15000
)

type EnvConfig struct {
	JudgeApiURL    string
	RequestTimeout time.Duration
}

// ReadEnvConfig loads configuration from the environment, with a .env file
// as an optional source. Missing values fall back to defaults suitable for
// a locally running backend.
func ReadEnvConfig() *EnvConfig {
	// A .env file is a convenience, not a requirement.
	_ = godotenv.Load()

	result := &EnvConfig{
		JudgeApiURL:    defaultApiURL,
		RequestTimeout: defaultTimeoutMs * time.Millisecond,
	}

	if url := os.Getenv("JUDGE_API_URL"); url != "" {
		result.JudgeApiURL = url
	}

	if ms := os.Getenv("JUDGE_TIMEOUT_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			result.RequestTimeout = time.Duration(v) * time.Millisecond
		}
	}

	return result
}
