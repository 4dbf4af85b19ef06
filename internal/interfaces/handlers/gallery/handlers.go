package gallery

import (
	"errors"

	gallerysvc "wedding-backend/internal/application/gallery"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers serves the photo gallery.
type Handlers struct {
	Service *gallerysvc.Service
	Local   gallerysvc.DirectoryLister
}

// Version GET /api/v1/gallery/version: cheap fingerprint check.
func (h *Handlers) Version(c *fiber.Ctx) error {
	v, err := h.Service.Version(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Failed to check gallery version")
	}
	return response.Success(c, "Gallery version", fiber.Map{"version": v}, nil)
}

// Images GET /api/v1/gallery/images: presigned URLs for every image.
func (h *Handlers) Images(c *fiber.Ctx) error {
	set, err := h.Service.Images(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Failed to list gallery images")
	}
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return response.Success(c, "Gallery images", set, fiber.Map{"count": len(set.Images)})
}

// LocalImages GET /api/v1/gallery/local?dir=: images bundled under the public directory.
func (h *Handlers) LocalImages(c *fiber.Ctx) error {
	dir := c.Query("dir")
	if dir == "" {
		return response.BadRequest(c, "Missing directory")
	}
	images, err := h.Local.List(dir)
	switch {
	case err == nil:
		return response.Success(c, "Directory images", fiber.Map{"images": images}, nil)
	case errors.Is(err, gallerysvc.ErrInvalidDirectory):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, gallerysvc.ErrDirectoryNotFound):
		return response.NotFound(c, err.Error())
	default:
		return h.fail(c, err, "Failed to list directory images")
	}
}

func (h *Handlers) fail(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, gallerysvc.ErrStorageNotConfigured) {
		return response.Internal(c, err.Error())
	}
	log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg(message)
	return response.Internal(c, message)
}
