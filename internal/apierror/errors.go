package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a product, stock movement, bundle or order
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when an OUT movement would overdraw a
	// product and negative stock is disabled.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidCredentials is returned by sign-in for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden is returned for an invalid, expired or revoked token.
	ErrForbidden = errors.New("forbidden")
)

// ConstraintError reports a database integrity violation (SQLSTATE class 23).
type ConstraintError struct {
	Code       string
	Constraint string
	Message    string
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return "constraint " + e.Constraint + ": " + e.Message
	}
	return e.Message
}

// Unique reports a unique_violation.
func (e *ConstraintError) Unique() bool { return e.Code == "23505" }

// AsConstraint extracts a ConstraintError from a pgx error chain.
func AsConstraint(err error) (*ConstraintError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || !strings.HasPrefix(pgErr.Code, "23") {
		return nil, false
	}
	return &ConstraintError{Code: pgErr.Code, Constraint: pgErr.ConstraintName, Message: pgErr.Message}, true
}

// Resolve maps an error to an HTTP status and a client-safe body.
// Unknown errors become 500 with a generic message.
func Resolve(err error) (int, any) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, New("resource not found")
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest, New("insufficient stock")
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest, New(ErrInvalidCredentials.Error())
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, New("invalid or expired token")
	}
	if ce, ok := AsConstraint(err); ok {
		if ce.Unique() {
			return http.StatusConflict, New("resource already exists")
		}
		return http.StatusBadRequest, New("constraint violation: " + ce.Constraint)
	}
	return http.StatusInternalServerError, New("internal server error")
}
