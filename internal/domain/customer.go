package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Email              string     `json:"email" db:"email"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	FullName           string     `json:"full_name" db:"full_name"`
	ContactNumber      *string    `json:"contact_number,omitempty" db:"contact_number"`
	AvatarPath         *string    `json:"-" db:"avatar_path"`
	AvatarURL          string     `json:"avatar_url,omitempty" db:"-"`
	Role               string     `json:"role" db:"role"`
	IsEmailVerified    bool       `json:"is_email_verified" db:"is_email_verified"`
	PushToken          *string    `json:"-" db:"push_token"`
	PushTokenUpdatedAt *time.Time `json:"-" db:"push_token_updated_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

type RegisterInput struct {
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	FullName      string  `json:"full_name" validate:"required,min=2"`
	ContactNumber *string `json:"contact_number,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileInput struct {
	FullName      *string `json:"full_name,omitempty" validate:"omitempty,min=2"`
	ContactNumber *string `json:"contact_number,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type CustomerRole string

const (
	RoleCustomer CustomerRole = "customer"
	RoleStaff    CustomerRole = "staff"
	RoleAdmin    CustomerRole = "admin"
)

func (r CustomerRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

func (c *Customer) HasRole(requiredRole string) bool {
	return RoleSatisfies(c.Role, requiredRole)
}

// RoleSatisfies reports whether role grants at least requiredRole.
func RoleSatisfies(role, requiredRole string) bool {
	switch CustomerRole(requiredRole) {
	case RoleAdmin:
		return role == string(RoleAdmin)
	case RoleStaff:
		return role == string(RoleStaff) || role == string(RoleAdmin)
	case RoleCustomer:
		return role == string(RoleCustomer) || role == string(RoleStaff) || role == string(RoleAdmin)
	default:
		return false
	}
}
