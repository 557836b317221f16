package engine

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RegisterResourceRoutes mounts the five CRUD routes for every resource in
// the handler's registry under basePath. mw runs in front of every
// resource route and nowhere else.
func RegisterResourceRoutes(router fiber.Router, basePath string, h *Handler, mw ...fiber.Handler) {
	base := strings.TrimSuffix(basePath, "/")

	for _, resource := range h.registry.ResourceNames() {
		r := router.Group(base+"/"+resource, mw...)
		r.Get("", h.List(resource))
		r.Get("/:id", h.Get(resource))
		r.Post("", h.Create(resource))
		r.Patch("/:id", h.Update(resource))
		r.Delete("/:id", h.Delete(resource))
	}
}
