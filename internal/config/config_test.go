package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"msb-booking/internal/push"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PUSH_MAX_ATTEMPTS", "")
	t.Setenv("OTP_TTL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.PushMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "row_changes", cfg.RealtimeChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PUSH_MAX_ATTEMPTS", "5")
	t.Setenv("PUSH_TIMEOUT", "2s")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()
	assert.Equal(t, 5, cfg.PushMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.PushTimeout)
	assert.True(t, cfg.MinIOUseSSL)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PUSH_MAX_ATTEMPTS", "many")
	t.Setenv("PUSH_BACKOFF", "soon")

	cfg := Load()
	assert.Equal(t, 3, cfg.PushMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.PushBackoff)
}

func TestRetryPolicy(t *testing.T) {
	cfg := &Config{PushMaxAttempts: 4, PushBackoff: time.Second, PushBackoffCap: 3 * time.Second}
	p := cfg.RetryPolicy()
	assert.Equal(t, 4, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Base)
	assert.Equal(t, 3*time.Second, p.Cap)
}

func TestNewPushSender(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  Config
		want any
	}{
		{"expo", Config{PushProvider: "expo", ExpoAccessToken: "secret"}, &push.ExpoSender{}},
		{"expo without token", Config{PushProvider: "expo"}, push.Disabled{}},
		{"webpush", Config{PushProvider: "webpush", VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"}, &push.WebPushSender{}},
		{"webpush without keys", Config{PushProvider: "webpush"}, push.Disabled{}},
		{"unknown", Config{PushProvider: "pigeon"}, push.Disabled{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.IsType(t, tc.want, NewPushSender(ctx, &tc.cfg, logger))
		})
	}
}
