package store

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by operations that target a specific row
// (toggle, status update) when the row does not exist. Plain lookups
// never return it; they return nil for absent records.
var ErrNotFound = errors.New("not found")

// ConstraintCode categorizes constraint violations.
type ConstraintCode string

const (
	// ConstraintUnique indicates a uniqueness violation, e.g. a duplicate
	// email or a second assessment row for the same (user, competency).
	ConstraintUnique ConstraintCode = "UNIQUE"

	// ConstraintCheck indicates a domain-range violation, e.g. a score or
	// priority outside [1,5] or an undefined level/category/status.
	ConstraintCheck ConstraintCode = "CHECK"

	// ConstraintForeignKey indicates a reference to a missing row.
	ConstraintForeignKey ConstraintCode = "FOREIGN_KEY"

	// ConstraintOther covers remaining constraint classes (NOT NULL, ...).
	ConstraintOther ConstraintCode = "CONSTRAINT"
)

// ConstraintError represents a uniqueness or domain-range violation
// detected by the storage engine. The failed write is atomic: prior
// state is unchanged. Constraint errors are not retried; callers
// surface them and leave the decision to the user.
type ConstraintError struct {
	Code ConstraintCode
	Op   string // the failing operation, e.g. "create user"
	Err  error  // underlying driver error
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s constraint violated: %v", e.Op, e.Code, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraintViolation reports whether err is any constraint violation.
// Uses errors.As to handle wrapped errors.
func IsConstraintViolation(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// IsUniqueViolation reports whether err is a uniqueness violation.
func IsUniqueViolation(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Code == ConstraintUnique
}

// IsCheckViolation reports whether err is a domain-range violation.
func IsCheckViolation(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Code == ConstraintCheck
}

// wrapWrite translates sqlite constraint failures into ConstraintError
// and wraps everything else with the operation name.
func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}

	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return &ConstraintError{Code: constraintCode(serr), Op: op, Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// constraintCode maps a sqlite extended result code to a ConstraintCode.
func constraintCode(serr sqlite3.Error) ConstraintCode {
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ConstraintUnique
	case sqlite3.ErrConstraintCheck:
		return ConstraintCheck
	case sqlite3.ErrConstraintForeignKey:
		return ConstraintForeignKey
	default:
		return ConstraintOther
	}
}
