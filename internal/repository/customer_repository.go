package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"msb-booking/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, customer *domain.Customer) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetAvatarPath(ctx context.Context, id uuid.UUID, path string) error
	VerifyEmail(ctx context.Context, id uuid.UUID) error
	SetPushToken(ctx context.Context, id uuid.UUID, token string) error
	GetPushToken(ctx context.Context, id uuid.UUID) (string, error)
}

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, email, password_hash, full_name, contact_number, role, is_email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		customer.ID, customer.Email, customer.PasswordHash, customer.FullName,
		customer.ContactNumber, customer.Role, customer.IsEmailVerified,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	query := `SELECT * FROM customers WHERE id = $1`

	err := r.db.GetContext(ctx, &customer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	query := `SELECT * FROM customers WHERE email = $1`

	err := r.db.GetContext(ctx, &customer, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, err
}

func (r *customerRepository) UpdateProfile(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET full_name = :full_name, contact_number = :contact_number, updated_at = NOW()
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, customer)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *customerRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, `UPDATE customers SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
}

func (r *customerRepository) SetAvatarPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.exec(ctx, `UPDATE customers SET avatar_path = $2, updated_at = NOW() WHERE id = $1`, id, path)
}

func (r *customerRepository) VerifyEmail(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE customers SET is_email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
}

// SetPushToken overwrites the single device token held for a customer.
func (r *customerRepository) SetPushToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE customers
		SET push_token = $2, push_token_updated_at = $3, updated_at = NOW()
		WHERE id = $1`
	return r.exec(ctx, query, id, token, time.Now().UTC())
}

// GetPushToken returns "" when the customer has never registered a device.
func (r *customerRepository) GetPushToken(ctx context.Context, id uuid.UUID) (string, error) {
	var token sql.NullString
	err := r.db.GetContext(ctx, &token, `SELECT push_token FROM customers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return token.String, nil
}

func (r *customerRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
