package config

import (
	"strconv"
	"time"
)

// JWTSecret signs and verifies the panel's access tokens. JWTExpiration
// bounds their lifetime; JWT_EXPIRATION_HOURS overrides the default day.
var (
	JWTSecret     []byte
	JWTExpiration time.Duration
)

func init() {
	JWTSecret = []byte(getenv("JWT_SECRET", "articles-admin-insecure-dev-secret"))

	hours, err := strconv.Atoi(getenv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil || hours < 1 {
		hours = 24
	}
	JWTExpiration = time.Duration(hours) * time.Hour
}
