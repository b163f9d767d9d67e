package storage

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/garage-ledger/internal/core/domain"
)

// MySQL server error numbers the adapter translates.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errCheckConstraint = 3819
)

// mapError converts driver errors into domain errors. Anything it does not
// recognise becomes a storage failure.
func mapError(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDupEntry:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case errRowIsReferenced:
			return fmt.Errorf("%s: row is still referenced: %w", op, domain.ErrConflict)
		case errNoReferencedRow:
			return fmt.Errorf("%s: referenced row: %w", op, domain.ErrNotFound)
		case errCheckConstraint:
			return fmt.Errorf("%s: %w", op, domain.ErrInsufficientQuantity)
		}
	}
	return domain.StorageError(op, err)
}
