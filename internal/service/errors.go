package service

import (
	"database/sql"
	"errors"

	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

// mapNotFound converts a missing-row error into a typed not-found error and
// wraps everything else as internal.
func mapNotFound(err error, notFoundMessage string) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMessage)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "database lookup failed")
}
