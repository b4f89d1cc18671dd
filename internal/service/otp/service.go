// Package otp issues and checks the six digit email codes used for account
// verification and password reset.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInvalidCode = errors.New("invalid or expired code")

type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify"
	PurposeResetPassword Purpose = "reset"
)

const (
	codeDigits  = 6
	maxAttempts = 5
)

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
}

type Service interface {
	Issue(ctx context.Context, purpose Purpose, email string) (string, error)
	Verify(ctx context.Context, purpose Purpose, email, code string) error
}

type service struct {
	store Store
	ttl   time.Duration
}

func NewService(store Store, ttl time.Duration) Service {
	return &service{store: store, ttl: ttl}
}

func codeKey(purpose Purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func attemptsKey(purpose Purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s:attempts", purpose, email)
}

// Issue replaces any outstanding code for the same purpose and email.
func (s *service) Issue(ctx context.Context, purpose Purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.store.Del(ctx, attemptsKey(purpose, email)); err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, codeKey(purpose, email), code, s.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code on success. Too many wrong guesses burn it.
func (s *service) Verify(ctx context.Context, purpose Purpose, email, code string) error {
	stored, err := s.store.Get(ctx, codeKey(purpose, email))
	if errors.Is(err, redis.Nil) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		n, err := s.store.Incr(ctx, attemptsKey(purpose, email), s.ttl)
		if err != nil {
			return err
		}
		if n >= maxAttempts {
			_ = s.store.Del(ctx, codeKey(purpose, email), attemptsKey(purpose, email))
		}
		return ErrInvalidCode
	}

	return s.store.Del(ctx, codeKey(purpose, email), attemptsKey(purpose, email))
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
