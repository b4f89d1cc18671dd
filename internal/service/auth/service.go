package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"msb-booking/internal/config"
	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/repository"
	"msb-booking/internal/service/email"
	"msb-booking/internal/service/otp"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotVerified   = errors.New("email not verified")
)

type Service interface {
	Register(ctx context.Context, input domain.RegisterInput) (*domain.Customer, error)
	VerifyEmail(ctx context.Context, input domain.VerifyOTPInput) (*domain.Customer, *domain.TokenPair, error)
	ResendVerificationEmail(ctx context.Context, email string) error
	Login(ctx context.Context, input domain.LoginInput) (*domain.Customer, *domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input domain.ResetPasswordInput) error
	ValidateAccessToken(token string) (*Claims, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() identity.User {
	return identity.User{ID: c.UserID, Email: c.Email, Role: c.Role}
}

type service struct {
	customerRepo repository.CustomerRepository
	sessionRepo  repository.SessionRepository
	emailService email.Service
	otpService   otp.Service
	cfg          *config.Config
	logger       *zap.Logger
}

func NewService(
	customerRepo repository.CustomerRepository,
	sessionRepo repository.SessionRepository,
	emailService email.Service,
	otpService otp.Service,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		customerRepo: customerRepo,
		sessionRepo:  sessionRepo,
		emailService: emailService,
		otpService:   otpService,
		cfg:          cfg,
		logger:       logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, input domain.RegisterInput) (*domain.Customer, error) {
	emailAddr := normalizeEmail(input.Email)

	exists, err := s.customerRepo.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:              uuid.New(),
		Email:           emailAddr,
		PasswordHash:    string(hashedPassword),
		FullName:        strings.TrimSpace(input.FullName),
		ContactNumber:   input.ContactNumber,
		Role:            string(domain.RoleCustomer),
		IsEmailVerified: false,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if err := s.sendCode(ctx, otp.PurposeVerifyEmail, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// sendCode issues a code synchronously and mails it in the background.
func (s *service) sendCode(ctx context.Context, purpose otp.Purpose, customer *domain.Customer) error {
	code, err := s.otpService.Issue(ctx, purpose, customer.Email)
	if err != nil {
		return err
	}

	go func() {
		var err error
		if purpose == otp.PurposeResetPassword {
			err = s.emailService.SendPasswordResetCode(context.Background(), customer.Email, customer.FullName, code)
		} else {
			err = s.emailService.SendVerificationCode(context.Background(), customer.Email, customer.FullName, code)
		}
		if err != nil {
			s.logger.Warn("failed to send otp email", zap.String("purpose", string(purpose)), zap.Error(err))
		}
	}()

	return nil
}

func (s *service) VerifyEmail(ctx context.Context, input domain.VerifyOTPInput) (*domain.Customer, *domain.TokenPair, error) {
	emailAddr := normalizeEmail(input.Email)

	customer, err := s.customerRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, otp.ErrInvalidCode
	}

	if err := s.otpService.Verify(ctx, otp.PurposeVerifyEmail, emailAddr, input.Code); err != nil {
		return nil, nil, err
	}

	if !customer.IsEmailVerified {
		if err := s.customerRepo.VerifyEmail(ctx, customer.ID); err != nil {
			return nil, nil, err
		}
		customer.IsEmailVerified = true
	}

	tokens, err := s.generateTokenPair(ctx, customer, "")
	if err != nil {
		return nil, nil, err
	}
	return customer, tokens, nil
}

func (s *service) ResendVerificationEmail(ctx context.Context, emailAddr string) error {
	customer, err := s.customerRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	if customer == nil || customer.IsEmailVerified {
		return nil
	}
	return s.sendCode(ctx, otp.PurposeVerifyEmail, customer)
}

func (s *service) Login(ctx context.Context, input domain.LoginInput) (*domain.Customer, *domain.TokenPair, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !customer.IsEmailVerified {
		return nil, nil, ErrEmailNotVerified
	}

	tokens, err := s.generateTokenPair(ctx, customer, "")
	if err != nil {
		return nil, nil, err
	}

	return customer, tokens, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	customer, err := s.customerRepo.GetByID(ctx, session.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrUserNotFound
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}

	var userAgent string
	if session.UserAgent != nil {
		userAgent = *session.UserAgent
	}
	return s.generateTokenPair(ctx, customer, userAgent)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrUserNotFound
	}
	return customer, nil
}

func (s *service) generateTokenPair(ctx context.Context, customer *domain.Customer, userAgent string) (*domain.TokenPair, error) {
	now := time.Now()
	accessClaims := &Claims{
		UserID: customer.ID,
		Email:  customer.Email,
		Role:   customer.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   customer.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshTokenRaw := uuid.New().String()

	session := &repository.Session{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		TokenHash:  hashToken(refreshTokenRaw),
		ExpiresAt:  now.Add(s.cfg.JWTRefreshExpiry),
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenRaw,
		ExpiresIn:    int64(s.cfg.JWTAccessExpiry.Seconds()),
	}, nil
}

// RequestPasswordReset never reveals whether the address is registered.
func (s *service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	customer, err := s.customerRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	if customer == nil {
		return nil
	}
	return s.sendCode(ctx, otp.PurposeResetPassword, customer)
}

func (s *service) ResetPassword(ctx context.Context, input domain.ResetPasswordInput) error {
	emailAddr := normalizeEmail(input.Email)

	customer, err := s.customerRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if customer == nil {
		return otp.ErrInvalidCode
	}

	if err := s.otpService.Verify(ctx, otp.PurposeResetPassword, emailAddr, input.Code); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.customerRepo.UpdatePassword(ctx, customer.ID, string(hashedPassword)); err != nil {
		return err
	}

	return s.sessionRepo.RevokeAllForCustomer(ctx, customer.ID)
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
