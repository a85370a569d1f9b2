package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrGenerationFailed      = errors.New("failed to generate any headshots")
	ErrInvalidPackage        = errors.New("invalid package type")
	ErrPaymentReused         = errors.New("payment reference already used by another account")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrUserNotFound          = errors.New("user not found")
	ErrStorageDisabled       = errors.New("gallery storage is not configured")
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validationError turns validator output into an ErrValidation wrapped error
// naming the first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed on %q", ErrValidation, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
