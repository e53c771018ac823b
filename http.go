package showroom

import (
	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// statusByTextCode takes precedence over category mapping so lifecycle
// refusals keep their exact wire status.
var statusByTextCode = map[string]int{
	"INVALID_CREDENTIALS": fiber.StatusUnauthorized,
	"INVALID_TOKEN":       fiber.StatusUnauthorized,
	"UNAUTHORIZED":        fiber.StatusUnauthorized,
	"ACCOUNT_DISABLED":    fiber.StatusForbidden,
	"FORBIDDEN":           fiber.StatusForbidden,
	"ACCOUNT_NOT_FOUND":   fiber.StatusNotFound,
}

var statusByCategory = map[errors.Category]int{
	errors.CategoryAuth:       fiber.StatusUnauthorized,
	errors.CategoryAuthz:      fiber.StatusForbidden,
	errors.CategoryValidation: fiber.StatusBadRequest,
	errors.CategoryBadInput:   fiber.StatusBadRequest,
	errors.CategoryConflict:   fiber.StatusConflict,
	errors.CategoryNotFound:   fiber.StatusNotFound,
}

func statusForError(err error) int {
	var rerr *errors.Error
	if !errors.As(err, &rerr) {
		return fiber.StatusInternalServerError
	}
	if status, ok := statusByTextCode[rerr.TextCode]; ok {
		return status
	}
	if status, ok := statusByCategory[rerr.Category]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// RespondError maps a domain error onto an HTTP response. Internal failures
// collapse into a generic body so store or hashing detail never reaches the
// client.
func RespondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Server error"})
	}

	var rerr *errors.Error
	errors.As(err, &rerr)
	return c.Status(status).JSON(fiber.Map{"error": rerr.Message})
}

// AuthRoutes lets the host remap the controller paths.
type AuthRoutes struct {
	Login          string
	ChangePassword string
	Me             string
}

// AuthController exposes login, password rotation, and identity over HTTP.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auth   *Authenticator
	Routes AuthRoutes
}

// NewAuthController returns a new AuthController
func NewAuthController(auth *Authenticator) *AuthController {
	return &AuthController{
		Logger: defLogger{},
		Auth:   auth,
		Routes: AuthRoutes{
			Login:          "/login",
			ChangePassword: "/change-password",
			Me:             "/me",
		},
	}
}

// RegisterAuthRoutes mounts the controller. Login and change-password are
// public: an account in forced rotation holds no token yet, so the rotation
// route must authenticate by current password alone. Me sits behind the
// authenticated middleware the host provides.
func RegisterAuthRoutes(router fiber.Router, controller *AuthController, authenticated fiber.Handler) {
	router.Post(controller.Routes.Login, controller.LoginPost)
	router.Post(controller.Routes.ChangePassword, controller.ChangePasswordPost)
	router.Get(controller.Routes.Me, authenticated, controller.Me)
}

// LoginPayload is the payload we use to authenticate users
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload fields
func (p LoginPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid login payload").
			WithTextCode("VALIDATION").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

// ChangePasswordPayload rotates an account credential. The account is
// identified by userId and authenticated by its current password, which is
// what lets a forced-rotation login complete without a session token.
type ChangePasswordPayload struct {
	UserID          string `json:"userId" form:"userId"`
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// Validate will validate the payload fields
func (p ChangePasswordPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.UserID, validation.Required),
		validation.Field(&p.CurrentPassword, validation.Required),
		validation.Field(&p.NewPassword, validation.Required),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid change password payload").
			WithTextCode("VALIDATION").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

// LoginPost authenticates a user and returns a session token, or the
// rotation-required response when the account still holds a default password.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return RespondError(c, errors.Wrap(err, errors.CategoryBadInput, "malformed login payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	result, err := a.Auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login failed for %s: %v", payload.Email, err)
		return RespondError(c, err)
	}

	if a.Debug {
		a.Logger.Debug("login result: %s", print.MaybePrettyJSON(result))
	}

	if result.MustChangePassword {
		return c.JSON(fiber.Map{
			"mustChangePassword": true,
			"userId":             result.AccountID,
			"message":            "Password change required. You must change your default password.",
		})
	}

	return c.JSON(fiber.Map{
		"token": result.Token,
		"user":  result.Account,
	})
}

// ChangePasswordPost rotates a password and issues a fresh token.
func (a *AuthController) ChangePasswordPost(c *fiber.Ctx) error {
	payload := ChangePasswordPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return RespondError(c, errors.Wrap(err, errors.CategoryBadInput, "malformed change password payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, err)
	}

	result, err := a.Auth.ChangePassword(c.UserContext(), payload.UserID, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		a.Logger.Error("password change failed for %s: %v", payload.UserID, err)
		return RespondError(c, err)
	}

	if a.Debug {
		a.Logger.Debug("change password result: %s", print.MaybePrettyJSON(result))
	}

	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
		"token":   result.Token,
		"user":    result.Account,
	})
}

// Me returns the live account behind the session token.
func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(ClaimsContextKey).(AuthClaims)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}

	summary, err := a.Auth.CurrentIdentity(c.UserContext(), claims.AccountID())
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(summary)
}
