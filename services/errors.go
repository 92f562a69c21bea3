package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidID
	KindInvalidTransition
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	case KindForbidden:
		return "AuthorizationError"
	case KindInvalidID:
		return "InvalidIdError"
	case KindInvalidTransition:
		return "InvalidTransition"
	case KindUnauthenticated:
		return "AuthenticationError"
	default:
		return "InternalError"
	}
}

// Error is a classified service error. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

func Forbiddenf(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

func InvalidIDf(format string, args ...interface{}) *Error {
	return newError(KindInvalidID, format, args...)
}

func InvalidTransitionf(format string, args ...interface{}) *Error {
	return newError(KindInvalidTransition, format, args...)
}

func Unauthenticatedf(format string, args ...interface{}) *Error {
	return newError(KindUnauthenticated, format, args...)
}

// KindOf returns the kind of a classified error, or KindInternal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a classified error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlForeignKeyFails = 1452
)

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == mysqlDuplicateEntry
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate entry") || strings.Contains(lower, "unique constraint failed")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == mysqlRowIsReferenced || merr.Number == mysqlForeignKeyFails
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// storeError classifies a storage error. what names the entity for messages.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFoundf("%s not found", what)
	case isDuplicateKeyError(err):
		return &Error{Kind: KindConflict, Message: fmt.Sprintf("%s already exists", what), Err: err}
	case isForeignKeyError(err):
		return &Error{Kind: KindValidation, Message: fmt.Sprintf("%s references a record that does not exist", what), Err: err}
	default:
		var se *Error
		if errors.As(err, &se) {
			return err
		}
		return fmt.Errorf("%s: %w", what, err)
	}
}
