package eventapi

import (
	"github.com/Abraxas-365/talentgate/pkg/iam/auth"
	"github.com/Abraxas-365/talentgate/pkg/iam/scopes"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event/eventsrv"
	"github.com/gofiber/fiber/v2"
)

type EventHandlers struct {
	service *eventsrv.EventService
}

func NewEventHandlers(service *eventsrv.EventService) *EventHandlers {
	return &EventHandlers{
		service: service,
	}
}

func (h *EventHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	events := router.Group("/events", authMiddleware.Authenticate(), authMiddleware.RequireScope(scopes.ScopeEventsRead))
	events.Get("/", h.ListEvents)
}

func (h *EventHandlers) ListEvents(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	events, err := h.service.ListEvents(c.UserContext(), principal)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"events": events,
		"total":  len(events),
	})
}
