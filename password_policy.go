package showroom

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// PasswordSymbols is the allowed special character set for new passwords.
const PasswordSymbols = "@$!%*?&"

var (
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
	hasSymbol = regexp.MustCompile(`[@$!%*?&]`)
	// Every character must come from the letter/digit/PasswordSymbols set.
	allowedChars = regexp.MustCompile(`^[A-Za-z0-9@$!%*?&]+$`)
)

// ValidateNewPassword enforces the strength rules applied to every password a
// user sets: at least 8 characters with a lowercase letter, an uppercase
// letter, a digit, and one of PasswordSymbols, drawn only from letters,
// digits, and PasswordSymbols. Provisioning defaults are exempt; the
// lifecycle policy handles those.
func ValidateNewPassword(password string) error {
	err := validation.Validate(password,
		validation.Required,
		validation.Length(8, 0),
		validation.Match(hasLower).Error("must contain a lowercase letter"),
		validation.Match(hasUpper).Error("must contain an uppercase letter"),
		validation.Match(hasDigit).Error("must contain a digit"),
		validation.Match(hasSymbol).Error("must contain one of "+PasswordSymbols),
		validation.Match(allowedChars).Error("may only contain letters, digits, and "+PasswordSymbols),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation,
			"password must be at least 8 characters with uppercase, lowercase, number, and special character").
			WithTextCode("WEAK_PASSWORD").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}
