package config

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var ErrFirebaseNotConfigured = errors.New("FIREBASE_CREDENTIALS_FILE is not set")

func NewFCMClient(ctx context.Context, cfg *Config) (*messaging.Client, error) {
	if cfg.FirebaseCredentials == "" {
		return nil, ErrFirebaseNotConfigured
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentials))
	if err != nil {
		return nil, err
	}

	return app.Messaging(ctx)
}
