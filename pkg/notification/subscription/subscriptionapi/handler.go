package subscriptionapi

import (
	"github.com/Abraxas-365/talentgate/pkg/iam/auth"
	"github.com/Abraxas-365/talentgate/pkg/iam/scopes"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription/subscriptionsrv"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandlers struct {
	service *subscriptionsrv.SubscriptionService
}

func NewSubscriptionHandlers(service *subscriptionsrv.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		service: service,
	}
}

func (h *SubscriptionHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	subs := router.Group("/subscriptions", authMiddleware.Authenticate())

	subs.Get("/me", h.ListMine)
	subs.Get("/", authMiddleware.RequireScope(scopes.ScopeSubscriptionsRead), h.ListSubscribers)
	subs.Put("/", authMiddleware.RequireAdmin(), h.SetSubscribers)
	subs.Post("/migrate-legacy", authMiddleware.RequireAdmin(), h.MigrateLegacy)
}

// ListSubscribers handles GET /subscriptions?type=&value=
func (h *SubscriptionHandlers) ListSubscribers(c *fiber.Ctx) error {
	target, err := subscription.NewTarget(subscription.Type(c.Query("type")), c.Query("value"))
	if err != nil {
		return err
	}

	resp, err := h.service.ListSubscribers(c.UserContext(), target)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetSubscribers handles PUT /subscriptions
func (h *SubscriptionHandlers) SetSubscribers(c *fiber.Ctx) error {
	var req subscriptionsrv.SetSubscribersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.service.SetSubscribers(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *SubscriptionHandlers) ListMine(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	subs, err := h.service.ListForUser(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"subscriptions": subs,
		"total":         len(subs),
	})
}

func (h *SubscriptionHandlers) MigrateLegacy(c *fiber.Ctx) error {
	n, err := h.service.MigrateLegacy(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"migrated": n})
}
