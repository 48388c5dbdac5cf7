package service

import (
	"errors"

	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/repository"
)

// storeErr maps a repository error to a domain error. notFound is used for repository.ErrNotFound;
// anything unexpected becomes an internal error that keeps the cause for logging.
func storeErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound
	}
	var domain *apperrors.Error
	if errors.As(err, &domain) {
		return err
	}
	return apperrors.Internal(err)
}
