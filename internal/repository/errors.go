package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"msb-booking/internal/domain"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint,
// e.g. two bookings racing for the same receipt code.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
