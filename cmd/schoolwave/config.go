package main

import "time"

// Config holds the login client configuration loaded from environment
// variables.
type Config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" required:"true"`
	ListenAddr     string        `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8990"`
	RedirectURL    string        `envconfig:"REDIRECT_URL" default:"http://127.0.0.1:8990/auth/callback"`
	KakaoClientID  string        `envconfig:"KAKAO_CLIENT_ID"`
	GoogleClientID string        `envconfig:"GOOGLE_CLIENT_ID"`
	StateSecret    string        `envconfig:"STATE_SECRET" required:"true"`
	StateExpiry    time.Duration `envconfig:"STATE_EXPIRY" default:"10m"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"500ms"`
	RedisURL       string        `envconfig:"REDIS_URL"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"console"`
}
