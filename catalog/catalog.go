// Package catalog holds the public product surface and its admin plumbing:
// products, categories, quote requests, page content documents, and the
// visitor counter. Everything persists through the document store; there are
// no cross-collection transactions.
package catalog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	showroom "github.com/goliatone/go-showroom"
	"github.com/goliatone/go-showroom/store"
	"github.com/google/uuid"
)

const (
	// CollectionProducts is the document backing the product list.
	CollectionProducts = "products"
	// CollectionCategories is the document backing the category list.
	CollectionCategories = "categories"

	// DefaultProductImage is used when a product is created without one.
	DefaultProductImage = "/images/placeholder.jpg"
)

// Product is a catalog entry.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Rating      int    `json:"rating"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Category groups products by name. Products reference categories by name,
// not ID, so renames cascade.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Controller serves the catalog routes.
type Controller struct {
	Store  *store.Store
	Logger showroom.Logger

	now func() time.Time
}

// NewController returns a new Controller
func NewController(s *store.Store) *Controller {
	return &Controller{
		Store:  s,
		Logger: showroom.DefaultLogger(),
		now:    time.Now,
	}
}

// WithClock overrides the time source, useful for tests.
func (ct *Controller) WithClock(clock func() time.Time) *Controller {
	if clock != nil {
		ct.now = clock
	}
	return ct
}

func (ct *Controller) timestamp() string {
	return ct.now().UTC().Format(time.RFC3339)
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func notFound(what string) error {
	return errors.New(what+" not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}

func badRequest(msg string) error {
	return errors.New(msg, errors.CategoryValidation).
		WithTextCode("VALIDATION").
		WithCode(errors.CodeBadRequest)
}

// ProductPayload creates or updates a product. On update, nil fields keep
// their stored value.
type ProductPayload struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Rating      *int    `json:"rating"`
}

func (p ProductPayload) validateCreate() error {
	if p.Name == nil || *p.Name == "" || p.Category == nil || *p.Category == "" ||
		p.Description == nil || *p.Description == "" {
		return badRequest("Name, category, and description required")
	}
	return nil
}

// ListProducts returns the whole catalog.
func (ct *Controller) ListProducts(c *fiber.Ctx) error {
	products := []*Product{}
	if err := ct.Store.Load(CollectionProducts, &products); err != nil {
		return showroom.RespondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct returns a single product by ID.
func (ct *Controller) GetProduct(c *fiber.Ctx) error {
	products := []*Product{}
	if err := ct.Store.Load(CollectionProducts, &products); err != nil {
		return showroom.RespondError(c, err)
	}

	for _, p := range products {
		if p.ID == c.Params("id") {
			return c.JSON(p)
		}
	}

	return showroom.RespondError(c, notFound("Product"))
}

// CreateProduct adds a product to the catalog.
func (ct *Controller) CreateProduct(c *fiber.Ctx) error {
	payload := ProductPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed product payload"))
	}

	if err := payload.validateCreate(); err != nil {
		return showroom.RespondError(c, err)
	}

	product := &Product{
		ID:          newID("prod"),
		Name:        *payload.Name,
		Category:    *payload.Category,
		Description: *payload.Description,
		Image:       DefaultProductImage,
		CreatedAt:   ct.timestamp(),
		UpdatedAt:   ct.timestamp(),
	}
	if payload.Image != nil && *payload.Image != "" {
		product.Image = *payload.Image
	}
	if payload.Rating != nil {
		product.Rating = *payload.Rating
	}

	products := []*Product{}
	err := ct.Store.Update(CollectionProducts, &products, func() error {
		products = append(products, product)
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct patches the stored product with any fields present in the
// payload.
func (ct *Controller) UpdateProduct(c *fiber.Ctx) error {
	payload := ProductPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed product payload"))
	}

	var updated *Product
	products := []*Product{}
	err := ct.Store.Update(CollectionProducts, &products, func() error {
		for _, p := range products {
			if p.ID == c.Params("id") {
				updated = p
				break
			}
		}
		if updated == nil {
			return notFound("Product")
		}

		if payload.Name != nil {
			updated.Name = *payload.Name
		}
		if payload.Category != nil {
			updated.Category = *payload.Category
		}
		if payload.Description != nil {
			updated.Description = *payload.Description
		}
		if payload.Image != nil {
			updated.Image = *payload.Image
		}
		if payload.Rating != nil {
			updated.Rating = *payload.Rating
		}
		updated.UpdatedAt = ct.timestamp()
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(updated)
}

// DeleteProduct removes a product from the catalog.
func (ct *Controller) DeleteProduct(c *fiber.Ctx) error {
	products := []*Product{}
	err := ct.Store.Update(CollectionProducts, &products, func() error {
		kept := products[:0]
		for _, p := range products {
			if p.ID != c.Params("id") {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(products) {
			return notFound("Product")
		}
		products = kept
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// RateProduct replaces the product rating with the submitted value.
func (ct *Controller) RateProduct(c *fiber.Ctx) error {
	payload := struct {
		Rating int `json:"rating"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed rating payload"))
	}

	if err := validation.Validate(payload.Rating, validation.Required, validation.Min(1), validation.Max(5)); err != nil {
		return showroom.RespondError(c, badRequest("Rating must be between 1 and 5"))
	}

	var rated *Product
	products := []*Product{}
	err := ct.Store.Update(CollectionProducts, &products, func() error {
		for _, p := range products {
			if p.ID == c.Params("id") {
				rated = p
				break
			}
		}
		if rated == nil {
			return notFound("Product")
		}
		rated.Rating = payload.Rating
		rated.UpdatedAt = ct.timestamp()
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product rated successfully", "product": rated})
}

// ListCategories returns every category.
func (ct *Controller) ListCategories(c *fiber.Ctx) error {
	categories := []*Category{}
	if err := ct.Store.Load(CollectionCategories, &categories); err != nil {
		return showroom.RespondError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory adds a category with a unique, case-insensitive name.
func (ct *Controller) CreateCategory(c *fiber.Ctx) error {
	payload := struct {
		Name string `json:"name"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed category payload"))
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return showroom.RespondError(c, badRequest("Category name is required"))
	}

	category := &Category{
		ID:        newID("cat"),
		Name:      name,
		CreatedAt: ct.timestamp(),
	}

	categories := []*Category{}
	err := ct.Store.Update(CollectionCategories, &categories, func() error {
		for _, existing := range categories {
			if strings.EqualFold(existing.Name, name) {
				return badRequest("Category already exists")
			}
		}
		categories = append(categories, category)
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory removes a category, refusing while any product still
// references it by name.
func (ct *Controller) DeleteCategory(c *fiber.Ctx) error {
	categories := []*Category{}
	err := ct.Store.Update(CollectionCategories, &categories, func() error {
		idx := -1
		for i, cat := range categories {
			if cat.ID == c.Params("id") {
				idx = i
				break
			}
		}
		if idx == -1 {
			return notFound("Category")
		}

		products := []*Product{}
		if err := ct.Store.Load(CollectionProducts, &products); err != nil {
			return err
		}
		inUse := 0
		for _, p := range products {
			if p.Category == categories[idx].Name {
				inUse++
			}
		}
		if inUse > 0 {
			return badRequest("Cannot delete category while products are using it. Reassign or delete those products first.")
		}

		categories = append(categories[:idx], categories[idx+1:]...)
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// RenameCategory renames a category and cascades the new name into every
// product that referenced the old one. The two collections are saved
// independently, products first; a crash between the saves leaves products
// on the new name with the category rename unrecorded.
func (ct *Controller) RenameCategory(c *fiber.Ctx) error {
	payload := struct {
		Name string `json:"name"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed category payload"))
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return showroom.RespondError(c, badRequest("Category name is required"))
	}

	var renamed *Category
	categories := []*Category{}
	err := ct.Store.Update(CollectionCategories, &categories, func() error {
		for _, cat := range categories {
			if cat.ID == c.Params("id") {
				renamed = cat
				continue
			}
			if strings.EqualFold(cat.Name, name) {
				return badRequest("Category name already exists")
			}
		}
		if renamed == nil {
			return notFound("Category")
		}

		oldName := renamed.Name

		products := []*Product{}
		perr := ct.Store.Update(CollectionProducts, &products, func() error {
			for _, p := range products {
				if p.Category == oldName {
					p.Category = name
					p.UpdatedAt = ct.timestamp()
				}
			}
			return nil
		})
		if perr != nil {
			return perr
		}

		renamed.Name = name
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(renamed)
}
