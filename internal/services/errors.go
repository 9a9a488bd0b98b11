package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/patobeur/inouttracker/internal/apperr"
)

// storageErr classifies a repository failure: connection problems become
// Unavailable (503), anything else Internal (500).
func storageErr(err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return apperr.Unavailable(err)
	}
	return apperr.Internal(err)
}
