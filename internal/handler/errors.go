package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/middleware"
	"msb-booking/internal/repository"
	"msb-booking/internal/service/auth"
	"msb-booking/internal/service/booking"
	"msb-booking/internal/service/delivery"
	"msb-booking/internal/service/otp"
	"msb-booking/internal/service/profile"
)

// mapError turns service sentinels into HTTP errors. Unknown errors pass
// through so the error handler logs them as internal.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, identity.ErrUnauthenticated):
		return middleware.Unauthorized("Authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return middleware.Forbidden("Insufficient permissions for this operation")
	case errors.Is(err, domain.ErrNotFound):
		return middleware.NotFound("Resource not found")
	case errors.Is(err, domain.ErrMissingSelection):
		return middleware.BadRequest("Please select a barber, service, date and time")
	case errors.Is(err, domain.ErrCancellationBlocked):
		return middleware.Conflict("This appointment can no longer be cancelled")
	case errors.Is(err, domain.ErrInvalidTransition):
		return middleware.Conflict("Appointment status transition not allowed")
	case errors.Is(err, domain.ErrInvalidStatus):
		return middleware.BadRequest("Unknown appointment status")
	case errors.Is(err, booking.ErrStoreRejected) && repository.IsUniqueViolation(err):
		return middleware.Conflict("Receipt code already issued, please try again")
	case errors.Is(err, delivery.ErrBothChannelsFailed):
		return middleware.NewError(fiber.StatusBadGateway, "Notification could not be delivered")
	case errors.Is(err, profile.ErrAvatarTooLarge):
		return middleware.NewError(fiber.StatusRequestEntityTooLarge, "Avatar must be 5MB or smaller")
	case errors.Is(err, profile.ErrStorageUnavailable):
		return middleware.NewError(fiber.StatusServiceUnavailable, "Avatar upload is temporarily unavailable")
	case errors.Is(err, profile.ErrUnsupportedType):
		return middleware.BadRequest("Avatar must be a JPEG, PNG or WebP image")
	case errors.Is(err, otp.ErrInvalidCode):
		return middleware.BadRequest("Invalid or expired code")
	case errors.Is(err, auth.ErrEmailExists):
		return middleware.Conflict("Email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return middleware.Unauthorized("Invalid email or password")
	case errors.Is(err, auth.ErrEmailNotVerified):
		return middleware.Forbidden("Email not verified. Please verify your email first.")
	case errors.Is(err, auth.ErrInvalidToken):
		return middleware.Unauthorized("Invalid refresh token")
	case errors.Is(err, auth.ErrUserNotFound):
		return middleware.Unauthorized("User not found")
	}
	return err
}

func parseID(c *fiber.Ctx, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + what + " ID")
	}
	return id, nil
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 0); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Normalize()
	return params
}
