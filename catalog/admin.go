package catalog

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	showroom "github.com/goliatone/go-showroom"
	"github.com/goliatone/go-showroom/store"
)

// AdminController serves the dashboard and account management routes.
type AdminController struct {
	Store    *store.Store
	Accounts showroom.AccountStore
	Logger   showroom.Logger

	bcryptCost int
}

// NewAdminController returns a new AdminController
func NewAdminController(s *store.Store, accounts showroom.AccountStore) *AdminController {
	return &AdminController{
		Store:      s,
		Accounts:   accounts,
		Logger:     showroom.DefaultLogger(),
		bcryptCost: showroom.DefaultBcryptCost,
	}
}

// WithBcryptCost overrides the hash cost for administrative password sets.
func (ad *AdminController) WithBcryptCost(cost int) *AdminController {
	if cost > 0 {
		ad.bcryptCost = cost
	}
	return ad
}

// Dashboard returns counts over every collection.
func (ad *AdminController) Dashboard(c *fiber.Ctx) error {
	products := []*Product{}
	if err := ad.Store.Load(CollectionProducts, &products); err != nil {
		return showroom.RespondError(c, err)
	}

	quotes := []*Quote{}
	if err := ad.Store.Load(CollectionQuotes, &quotes); err != nil {
		return showroom.RespondError(c, err)
	}

	stats := VisitorStats{}
	if err := ad.Store.Load(CollectionVisitors, &stats); err != nil {
		return showroom.RespondError(c, err)
	}

	accounts, err := ad.Accounts.All(c.UserContext())
	if err != nil {
		return showroom.RespondError(c, err)
	}

	pending := 0
	for _, q := range quotes {
		if q.Status == QuoteStatusPending {
			pending++
		}
	}
	active := 0
	for _, a := range accounts {
		if a.IsActive {
			active++
		}
	}

	return c.JSON(fiber.Map{
		"totalProducts": len(products),
		"totalQuotes":   len(quotes),
		"pendingQuotes": pending,
		"totalUsers":    len(accounts),
		"activeUsers":   active,
		"totalVisitors": stats.TotalVisitors,
	})
}

// ListUsers returns every account without credential material.
func (ad *AdminController) ListUsers(c *fiber.Ctx) error {
	accounts, err := ad.Accounts.All(c.UserContext())
	if err != nil {
		return showroom.RespondError(c, err)
	}

	summaries := make([]showroom.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, a.Summary())
	}

	return c.JSON(summaries)
}

// CreateUser provisions an admin account with the shared default password.
func (ad *AdminController) CreateUser(c *fiber.Ctx) error {
	payload := showroom.CreateAccountMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed user payload"))
	}

	var created *showroom.Account
	payload.OnCreated = func(a *showroom.Account) { created = a }

	handler := showroom.NewCreateAccountHandler(ad.Accounts).
		WithLogger(ad.Logger).
		WithBcryptCost(ad.bcryptCost)

	if err := handler.Execute(c.UserContext(), payload); err != nil {
		return showroom.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       created.ID,
		"fullName": created.FullName,
		"email":    created.Email,
		"role":     created.Role,
		"message":  "User created. Default password: " + showroom.ProvisionedPassword,
	})
}

// UpdateUserPayload patches account fields. Absent fields keep their stored
// value.
type UpdateUserPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	IsActive *bool  `json:"isActive"`
}

// UpdateUser patches fullName, email, and the active flag.
func (ad *AdminController) UpdateUser(c *fiber.Ctx) error {
	payload := UpdateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed user payload"))
	}

	updated, err := ad.Accounts.Update(c.UserContext(), c.Params("id"), func(a *showroom.Account) error {
		if payload.FullName != "" {
			a.FullName = payload.FullName
		}
		if payload.Email != "" {
			a.Email = strings.ToLower(payload.Email)
		}
		if payload.IsActive != nil {
			a.IsActive = *payload.IsActive
		}
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":       updated.ID,
		"fullName": updated.FullName,
		"email":    updated.Email,
		"role":     updated.Role,
		"isActive": updated.IsActive,
	})
}

// SetUserPassword sets an account password administratively. No current
// password is required; the strength policy still applies and the rotation
// flag is cleared.
func (ad *AdminController) SetUserPassword(c *fiber.Ctx) error {
	payload := struct {
		NewPassword string `json:"newPassword"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed password payload"))
	}

	if err := showroom.ValidateNewPassword(payload.NewPassword); err != nil {
		return showroom.RespondError(c, err)
	}

	hash, err := showroom.HashPasswordCost(payload.NewPassword, ad.bcryptCost)
	if err != nil {
		return showroom.RespondError(c, errors.Wrap(err, errors.CategoryInternal, "failed to hash password"))
	}

	_, err = ad.Accounts.Update(c.UserContext(), c.Params("id"), func(a *showroom.Account) error {
		a.PasswordHash = hash
		a.MustChangePassword = false
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// RegisterRoutes mounts the catalog and admin surface. The gates come from
// the host so the same middleware chain backs every controller.
func RegisterRoutes(router fiber.Router, ct *Controller, ad *AdminController, authenticated, requireAdmin, requireSuperAdmin fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", ct.ListProducts)
	products.Get("/:id", ct.GetProduct)
	products.Post("/:id/rate", ct.RateProduct)
	products.Post("/", authenticated, requireAdmin, ct.CreateProduct)
	products.Put("/:id", authenticated, requireAdmin, ct.UpdateProduct)
	products.Delete("/:id", authenticated, requireAdmin, ct.DeleteProduct)

	categories := router.Group("/categories")
	categories.Get("/", ct.ListCategories)
	categories.Post("/", authenticated, requireAdmin, ct.CreateCategory)
	categories.Put("/:id", authenticated, requireAdmin, ct.RenameCategory)
	categories.Delete("/:id", authenticated, requireAdmin, ct.DeleteCategory)

	quotes := router.Group("/quotes")
	quotes.Post("/", ct.SubmitQuote)
	quotes.Get("/", authenticated, requireAdmin, ct.ListQuotes)
	quotes.Patch("/:id", authenticated, requireAdmin, ct.UpdateQuoteStatus)

	content := router.Group("/content")
	content.Get("/:page", ct.GetContent)
	content.Put("/:page", authenticated, requireAdmin, ct.PutContent)

	visitors := router.Group("/visitors")
	visitors.Post("/track", ct.TrackVisitor)
	visitors.Get("/", ct.VisitorCount)

	admin := router.Group("/admin", authenticated)
	admin.Get("/dashboard", requireAdmin, ad.Dashboard)
	admin.Get("/users", requireSuperAdmin, ad.ListUsers)
	admin.Post("/users", requireSuperAdmin, ad.CreateUser)
	admin.Put("/users/:id", requireSuperAdmin, ad.UpdateUser)
	admin.Put("/users/:id/password", requireSuperAdmin, ad.SetUserPassword)
}
