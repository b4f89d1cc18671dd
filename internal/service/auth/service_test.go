package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"msb-booking/internal/config"
	"msb-booking/internal/domain"
	"msb-booking/internal/mocks"
	"msb-booking/internal/repository"
	"msb-booking/internal/service/auth"
	"msb-booking/internal/service/otp"
)

type stubOTP struct {
	issued  map[string]string
	invalid bool
}

func (s *stubOTP) Issue(ctx context.Context, purpose otp.Purpose, email string) (string, error) {
	if s.issued == nil {
		s.issued = map[string]string{}
	}
	s.issued[string(purpose)+":"+email] = "123456"
	return "123456", nil
}

func (s *stubOTP) Verify(ctx context.Context, purpose otp.Purpose, email, code string) error {
	if s.invalid || code != "123456" {
		return otp.ErrInvalidCode
	}
	return nil
}

var testConfig = &config.Config{
	JWTSecret:        "test-secret",
	JWTAccessExpiry:  15 * time.Minute,
	JWTRefreshExpiry: time.Hour,
}

type fixture struct {
	customers *mocks.CustomerRepository
	sessions  *mocks.SessionRepository
	email     *mocks.EmailService
	otp       *stubOTP
	svc       auth.Service
}

func newFixture() *fixture {
	f := &fixture{
		customers: new(mocks.CustomerRepository),
		sessions:  new(mocks.SessionRepository),
		email:     new(mocks.EmailService),
		otp:       &stubOTP{},
	}
	f.email.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.email.On("SendPasswordResetCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = auth.NewService(f.customers, f.sessions, f.email, f.otp, testConfig, zap.NewNop())
	return f
}

func verifiedCustomer(t *testing.T, password string) *domain.Customer {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Customer{
		ID:              uuid.New(),
		Email:           "ana@msb.test",
		PasswordHash:    string(hash),
		FullName:        "Ana",
		Role:            "customer",
		IsEmailVerified: true,
	}
}

func TestRegister_IssuesVerificationCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.customers.On("ExistsByEmail", ctx, "ana@msb.test").Return(false, nil).Once()
	f.customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Email == "ana@msb.test" && c.Role == "customer" && !c.IsEmailVerified
	})).Return(nil).Once()

	c, err := f.svc.Register(ctx, domain.RegisterInput{Email: " Ana@MSB.test ", Password: "password123", FullName: "Ana"})

	require.NoError(t, err)
	assert.NotEqual(t, "password123", c.PasswordHash)
	assert.Equal(t, "123456", f.otp.issued["verify:ana@msb.test"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.customers.On("ExistsByEmail", ctx, "ana@msb.test").Return(true, nil).Once()

	_, err := f.svc.Register(ctx, domain.RegisterInput{Email: "ana@msb.test", Password: "password123", FullName: "Ana"})

	assert.ErrorIs(t, err, auth.ErrEmailExists)
}

func TestLogin_IssuesTokensThatValidate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := verifiedCustomer(t, "password123")
	f.customers.On("GetByEmail", ctx, "ana@msb.test").Return(customer, nil).Once()
	f.sessions.On("Create", ctx, mock.MatchedBy(func(s *repository.Session) bool {
		return s.CustomerID == customer.ID && s.TokenHash != ""
	})).Return(nil).Once()

	_, tokens, err := f.svc.Login(ctx, domain.LoginInput{Email: "ana@msb.test", Password: "password123"})
	require.NoError(t, err)

	claims, err := f.svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Identity().Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.customers.On("GetByEmail", ctx, "ana@msb.test").Return(verifiedCustomer(t, "password123"), nil).Once()

	_, _, err := f.svc.Login(ctx, domain.LoginInput{Email: "ana@msb.test", Password: "nope"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := verifiedCustomer(t, "password123")
	customer.IsEmailVerified = false
	f.customers.On("GetByEmail", ctx, "ana@msb.test").Return(customer, nil).Once()

	_, _, err := f.svc.Login(ctx, domain.LoginInput{Email: "ana@msb.test", Password: "password123"})

	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
}

func TestVerifyEmail_MarksVerified(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := verifiedCustomer(t, "password123")
	customer.IsEmailVerified = false
	f.customers.On("GetByEmail", ctx, "ana@msb.test").Return(customer, nil).Once()
	f.customers.On("VerifyEmail", ctx, customer.ID).Return(nil).Once()
	f.sessions.On("Create", ctx, mock.Anything).Return(nil).Once()

	c, tokens, err := f.svc.VerifyEmail(ctx, domain.VerifyOTPInput{Email: "ana@msb.test", Code: "123456"})

	require.NoError(t, err)
	assert.True(t, c.IsEmailVerified)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.customers.On("GetByEmail", ctx, "ana@msb.test").Return(verifiedCustomer(t, "x"), nil).Once()

	_, _, err := f.svc.VerifyEmail(ctx, domain.VerifyOTPInput{Email: "ana@msb.test", Code: "000000"})

	assert.ErrorIs(t, err, otp.ErrInvalidCode)
	f.customers.AssertNotCalled(t, "VerifyEmail", mock.Anything, mock.Anything)
}

func TestResetPassword_RevokesSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := verifiedCustomer(t, "old-password")
	f.customers.On("GetByEmail", ctx, "ana@msb.test").Return(customer, nil).Once()
	f.customers.On("UpdatePassword", ctx, customer.ID, mock.AnythingOfType("string")).Return(nil).Once()
	f.sessions.On("RevokeAllForCustomer", ctx, customer.ID).Return(nil).Once()

	err := f.svc.ResetPassword(ctx, domain.ResetPasswordInput{Email: "ana@msb.test", Code: "123456", NewPassword: "new-password"})

	require.NoError(t, err)
	f.sessions.AssertExpectations(t)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.customers.On("GetByEmail", ctx, "ghost@msb.test").Return(nil, nil).Once()

	assert.NoError(t, f.svc.RequestPasswordReset(ctx, "ghost@msb.test"))
	assert.Empty(t, f.otp.issued)
}

func TestRefreshToken_RotatesSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := verifiedCustomer(t, "x")
	session := &repository.Session{ID: uuid.New(), CustomerID: customer.ID}
	f.sessions.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(session, nil).Once()
	f.customers.On("GetByID", ctx, customer.ID).Return(customer, nil).Once()
	f.sessions.On("Revoke", ctx, session.ID).Return(nil).Once()
	f.sessions.On("Create", ctx, mock.Anything).Return(nil).Once()

	tokens, err := f.svc.RefreshToken(ctx, "refresh")

	require.NoError(t, err)
	assert.NotEqual(t, "refresh", tokens.RefreshToken)
	f.sessions.AssertExpectations(t)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
