package service

import (
	"errors"
	"fmt"
	"strings"

	"motoparts-inventory/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrReferenceNotFound   = fmt.Errorf("record %w", ErrNotFound)

	ErrEmptyItems         = errors.New("transaction must contain at least one item")
	ErrTransactionAborted = errors.New("transaction aborted, no changes were saved")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrConflict           = errors.New("conflicts with existing data")
)

// ValidationError carries every failed field of a request.
type ValidationError struct {
	Fields []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("field '%s' failed on '%s'", f.FailedField, f.Tag))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func fieldError(field, tag string) error {
	return &ValidationError{Fields: []*validator.ErrorResponse{{FailedField: field, Tag: tag}}}
}

// translate maps storage errors onto the service taxonomy.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
