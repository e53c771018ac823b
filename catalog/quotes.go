package catalog

import (
	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	showroom "github.com/goliatone/go-showroom"
	"github.com/nyaruka/phonenumbers"
)

// CollectionQuotes is the document backing quote requests.
const CollectionQuotes = "quotes"

// QuoteStatusPending is the status every submission starts in.
const QuoteStatusPending = "pending"

// DefaultPhoneRegion resolves national phone numbers on quote submissions.
const DefaultPhoneRegion = "US"

// Quote is a quote request submitted by a visitor.
type Quote struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Company   string   `json:"company"`
	Products  []string `json:"products"`
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// QuotePayload is the public submission body.
type QuotePayload struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Company  string   `json:"company"`
	Products []string `json:"products"`
	Message  string   `json:"message"`
}

// Validate will validate the payload fields
func (p QuotePayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Products, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return badRequest("Name, email, and at least one product required")
	}
	return nil
}

// validPhone accepts empty phones; submissions come from a public form and
// the number is contact metadata, not an identifier.
func validPhone(phone, region string) bool {
	if phone == "" {
		return true
	}
	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// SubmitQuote accepts a public quote request.
func (ct *Controller) SubmitQuote(c *fiber.Ctx) error {
	payload := QuotePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed quote payload"))
	}

	if err := payload.Validate(); err != nil {
		return showroom.RespondError(c, err)
	}

	if !validPhone(payload.Phone, DefaultPhoneRegion) {
		return showroom.RespondError(c, badRequest("Invalid phone number"))
	}

	quote := &Quote{
		ID:        newID("quote"),
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Company:   payload.Company,
		Products:  payload.Products,
		Message:   payload.Message,
		Status:    QuoteStatusPending,
		CreatedAt: ct.timestamp(),
	}

	quotes := []*Quote{}
	err := ct.Store.Update(CollectionQuotes, &quotes, func() error {
		quotes = append(quotes, quote)
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Quote request submitted successfully",
		"quoteId": quote.ID,
	})
}

// ListQuotes returns every quote request.
func (ct *Controller) ListQuotes(c *fiber.Ctx) error {
	quotes := []*Quote{}
	if err := ct.Store.Load(CollectionQuotes, &quotes); err != nil {
		return showroom.RespondError(c, err)
	}
	return c.JSON(quotes)
}

// UpdateQuoteStatus patches a quote's status. An empty status keeps the
// stored one.
func (ct *Controller) UpdateQuoteStatus(c *fiber.Ctx) error {
	payload := struct {
		Status string `json:"status"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return showroom.RespondError(c, badRequest("malformed quote payload"))
	}

	var updated *Quote
	quotes := []*Quote{}
	err := ct.Store.Update(CollectionQuotes, &quotes, func() error {
		for _, q := range quotes {
			if q.ID == c.Params("id") {
				updated = q
				break
			}
		}
		if updated == nil {
			return notFound("Quote")
		}
		if payload.Status != "" {
			updated.Status = payload.Status
		}
		updated.UpdatedAt = ct.timestamp()
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(updated)
}
