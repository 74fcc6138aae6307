package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/logiruta/logistica-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isTransient verifica si un error de la base es transitorio y reintentable:
// serialization failure, deadlock, lock timeout, statement timeout o deadline del ctx.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"57014": // query_canceled (statement_timeout)
			return true
		}
	}
	return false
}

// wrapTransient etiqueta errores transitorios con domain.ErrTransientStore
// para que el caller sepa que puede reintentar. El resto pasa sin cambios.
func wrapTransient(err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}
	return err
}
