package catalog

import (
	"github.com/gofiber/fiber/v2"
	showroom "github.com/goliatone/go-showroom"
)

// CollectionVisitors is the visitor counter document.
const CollectionVisitors = "visitors"

// contentPages maps URL page names to their backing documents. Anything
// outside this list is rejected so clients cannot create arbitrary files.
var contentPages = map[string]string{
	"home":     "homeContent",
	"about":    "aboutContent",
	"contact":  "contactContent",
	"services": "servicesContent",
}

// VisitorStats is the visitor counter document shape.
type VisitorStats struct {
	TotalVisitors int    `json:"totalVisitors"`
	LastReset     string `json:"lastReset,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// GetContent returns the named page document, or an empty object when the
// document does not exist yet.
func (ct *Controller) GetContent(c *fiber.Ctx) error {
	doc, ok := contentPages[c.Params("page")]
	if !ok {
		return showroom.RespondError(c, notFound("Page"))
	}

	content := map[string]any{}
	if err := ct.Store.Load(doc, &content); err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(content)
}

// PutContent replaces the named page document with the request body.
func (ct *Controller) PutContent(c *fiber.Ctx) error {
	doc, ok := contentPages[c.Params("page")]
	if !ok {
		return showroom.RespondError(c, notFound("Page"))
	}

	content := map[string]any{}
	if err := c.BodyParser(&content); err != nil {
		return showroom.RespondError(c, badRequest("malformed content payload"))
	}
	content["updatedAt"] = ct.timestamp()

	if err := ct.Store.Save(doc, content); err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Content updated successfully", "content": content})
}

// TrackVisitor increments the visitor counter.
func (ct *Controller) TrackVisitor(c *fiber.Ctx) error {
	stats := VisitorStats{}
	err := ct.Store.Update(CollectionVisitors, &stats, func() error {
		if stats.LastReset == "" {
			stats.LastReset = ct.timestamp()
		}
		stats.TotalVisitors++
		stats.UpdatedAt = ct.timestamp()
		return nil
	})
	if err != nil {
		return showroom.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "totalVisitors": stats.TotalVisitors})
}

// VisitorCount returns the current visitor total.
func (ct *Controller) VisitorCount(c *fiber.Ctx) error {
	stats := VisitorStats{}
	if err := ct.Store.Load(CollectionVisitors, &stats); err != nil {
		return showroom.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"totalVisitors": stats.TotalVisitors})
}
