package e

import (
	"errors"
	"fmt"
)

var (
	// Ошибки хранилища
	ErrNoDocuments         = errors.New("no documents in result")
	ErrTransactionNotFound = errors.New("transaction not found")

	// 404 Not Found
	ErrProductNotFound = errors.New("product not found")

	// 422 Unprocessable Entity
	ErrInvalidProductID    = errors.New("invalid product id")
	ErrProductNameRequired = errors.New("product name is required")
	ErrQuantityNegative    = errors.New("quantity must not be negative")
	ErrPriceNegative       = errors.New("price must not be negative")
	ErrMissingFields       = errors.New("missing required fields")

	// 400 Bad Request
	ErrStatusBadRequest = errors.New("bad request")
	ErrInvalidPrice     = errors.New("invalid price")

	// 500 Internal Server Error
	ErrInsertionFailed     = errors.New("error inserting product into the database")
	ErrInternalServerError = errors.New("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapAs помечает ошибку типом kind. Цепочка errors.Is видит только kind,
// текст исходной ошибки сохраняется в сообщении.
func WrapAs(msg string, kind error, cause error) error {
	if cause == nil {
		return Wrap(msg, kind)
	}

	return fmt.Errorf("%s: %w: %v", msg, kind, cause)
}

// IsValidation сообщает, является ли ошибка ошибкой валидации входных данных.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidProductID) ||
		errors.Is(err, ErrProductNameRequired) ||
		errors.Is(err, ErrQuantityNegative) ||
		errors.Is(err, ErrPriceNegative) ||
		errors.Is(err, ErrMissingFields)
}
