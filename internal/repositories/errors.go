package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the email
// uniqueness constraint rejects the insert.
var ErrDuplicateEmail = errors.New("email already registered")

func mapPqError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}
