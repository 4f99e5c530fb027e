package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/seatwise/cinegate/internal/domain"
)

var (
	cardExpiryRgx = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVCRgx    = regexp.MustCompile(`^\d{3,4}$`)
	digitsRgx     = regexp.MustCompile(`\D`)
)

func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("card_number", validateCardNumber)
	validate.RegisterValidation("card_expiry", validateCardExpiry)
	validate.RegisterValidation("card_cvc", validateCardCVC)
	validate.RegisterValidation("ticket_type", validateTicketType)

	return validate
}

// validateCardNumber accepts 12 to 19 digits, with spaces allowed. No Luhn
// check: the upstream is the authority and payments are simulated anyway.
func validateCardNumber(fl validator.FieldLevel) bool {
	raw := strings.ReplaceAll(fl.Field().String(), " ", "")
	if digitsRgx.MatchString(raw) {
		return false
	}

	return len(raw) >= 12 && len(raw) <= 19
}

func validateCardExpiry(fl validator.FieldLevel) bool {
	return cardExpiryRgx.MatchString(fl.Field().String())
}

func validateCardCVC(fl validator.FieldLevel) bool {
	return cardCVCRgx.MatchString(fl.Field().String())
}

func validateTicketType(fl validator.FieldLevel) bool {
	return domain.TicketType(fl.Field().String()).Valid()
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "card_number":
		return "must be a card number of 12 to 19 digits"
	case "card_expiry":
		return "must be in MM/YY format"
	case "card_cvc":
		return "must be 3 or 4 digits"
	case "ticket_type":
		return "must be one of ADULT, STUDENT, CHILD, SENIOR"
	default:
		return "is invalid"
	}
}
