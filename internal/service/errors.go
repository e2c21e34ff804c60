package service

import (
	"errors"
	"fmt"

	"github.com/stain603/industrial-inventory-manager/internal/repository"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// Error carries a client-facing message and one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// translate turns repository/driver errors into service errors. what names
// the entity in the message, e.g. "raw material".
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorf(ErrNotFound, "%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorf(ErrConflict, "%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errorf(ErrConflict, "%s is still referenced", what)
	case errors.Is(err, repository.ErrNegativeStock):
		return errorf(ErrInvalid, "%s stock cannot go below zero", what)
	}
	return err
}
