package applicantapi

import (
	"github.com/Abraxas-365/talentgate/pkg/iam/auth"
	"github.com/Abraxas-365/talentgate/pkg/iam/scopes"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant/applicantsrv"
	"github.com/gofiber/fiber/v2"
)

type ApplicantHandlers struct {
	service *applicantsrv.ApplicantService
}

func NewApplicantHandlers(service *applicantsrv.ApplicantService) *ApplicantHandlers {
	return &ApplicantHandlers{
		service: service,
	}
}

// RegisterRoutes registers the staff applicant routes.
func (h *ApplicantHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	applicants := router.Group("/applicants", authMiddleware.Authenticate())

	applicants.Get("/", authMiddleware.RequireScope(scopes.ScopeApplicantsRead), h.ListApplicants)
	applicants.Post("/", authMiddleware.RequireScope(scopes.ScopeApplicantsWrite), h.CreateApplicant)
	applicants.Get("/:id", authMiddleware.RequireScope(scopes.ScopeApplicantsRead), h.GetApplicant)
	applicants.Patch("/:id/stage", authMiddleware.RequireScope(scopes.ScopeApplicantsStage), h.ChangeStage)
	applicants.Post("/:id/interview", authMiddleware.RequireScope(scopes.ScopeApplicantsStage), h.ScheduleInterview)
	applicants.Patch("/:id/interview", authMiddleware.RequireScope(scopes.ScopeApplicantsStage), h.RescheduleInterview)
	applicants.Delete("/:id/interview", authMiddleware.RequireScope(scopes.ScopeApplicantsStage), h.CancelInterview)
}

// RegisterPublicRoutes registers the unauthenticated application form endpoint.
func (h *ApplicantHandlers) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/jobs/:id/apply", h.Apply)
}

// ListApplicants handles GET /applicants?stage=&limit=&offset=
func (h *ApplicantHandlers) ListApplicants(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	opts := applicant.ListOptions{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("stage"); raw != "" {
		stage, err := applicant.ParseStage(raw)
		if err != nil {
			return err
		}
		opts.Stage = stage
	}

	applicants, err := h.service.List(c.UserContext(), principal, opts)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"applicants": applicants,
		"count":      len(applicants),
		"limit":      opts.Limit,
		"offset":     opts.Offset,
	})
}

func (h *ApplicantHandlers) GetApplicant(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	a, err := h.service.Get(c.UserContext(), principal, kernel.NewApplicantID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ApplicantHandlers) CreateApplicant(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req applicantsrv.CreateApplicantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := h.service.Create(c.UserContext(), principal, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *ApplicantHandlers) ChangeStage(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req applicantsrv.ChangeStageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := h.service.ChangeStage(c.UserContext(), principal, kernel.NewApplicantID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// ScheduleInterview handles POST /applicants/:id/interview
func (h *ApplicantHandlers) ScheduleInterview(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req applicantsrv.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := h.service.ScheduleInterview(c.UserContext(), principal, kernel.NewApplicantID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// RescheduleInterview handles PATCH /applicants/:id/interview
func (h *ApplicantHandlers) RescheduleInterview(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req applicantsrv.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := h.service.RescheduleInterview(c.UserContext(), principal, kernel.NewApplicantID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// CancelInterview handles DELETE /applicants/:id/interview
func (h *ApplicantHandlers) CancelInterview(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	a, err := h.service.CancelInterview(c.UserContext(), principal, kernel.NewApplicantID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// Apply handles POST /public/jobs/:id/apply
func (h *ApplicantHandlers) Apply(c *fiber.Ctx) error {
	var req applicantsrv.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := h.service.Apply(c.UserContext(), kernel.NewJobID(c.Params("id")), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     a.ID,
		"status": "received",
	})
}
