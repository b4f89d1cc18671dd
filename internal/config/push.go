package config

import (
	"context"

	"go.uber.org/zap"

	"msb-booking/internal/pkg/retry"
	"msb-booking/internal/push"
)

func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.PushMaxAttempts,
		Base:        c.PushBackoff,
		Cap:         c.PushBackoffCap,
	}
}

// NewPushSender picks the provider named by PUSH_PROVIDER. A provider that
// cannot be set up degrades to push.Disabled so delivery falls back to the
// device channel instead of failing startup.
func NewPushSender(ctx context.Context, cfg *Config, logger *zap.Logger) push.Sender {
	switch cfg.PushProvider {
	case "fcm":
		client, err := NewFCMClient(ctx, cfg)
		if err != nil {
			logger.Warn("fcm unavailable, remote push disabled", zap.Error(err))
			return push.Disabled{}
		}
		return push.NewFCMSender(client, cfg.PushTimeout, cfg.RetryPolicy())
	case "expo":
		if cfg.ExpoAccessToken == "" {
			logger.Warn("EXPO_ACCESS_TOKEN not set, remote push disabled")
			return push.Disabled{}
		}
		return push.NewExpoSender(push.ExpoConfig{
			Endpoint:    cfg.ExpoPushURL,
			AccessToken: cfg.ExpoAccessToken,
			ChannelID:   cfg.ExpoChannelID,
			Timeout:     cfg.PushTimeout,
			Retry:       cfg.RetryPolicy(),
		})
	case "webpush":
		if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
			logger.Warn("VAPID keys not set, remote push disabled")
			return push.Disabled{}
		}
		return push.NewWebPushSender(push.WebPushConfig{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subscriber:      cfg.VAPIDSubscriber,
			Timeout:         cfg.PushTimeout,
			Retry:           cfg.RetryPolicy(),
		})
	default:
		logger.Warn("unknown push provider, remote push disabled", zap.String("provider", cfg.PushProvider))
		return push.Disabled{}
	}
}
