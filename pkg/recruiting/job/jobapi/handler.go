package jobapi

import (
	"github.com/Abraxas-365/talentgate/pkg/iam/auth"
	"github.com/Abraxas-365/talentgate/pkg/iam/scopes"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

type JobHandlers struct {
	service *jobsrv.JobService
}

func NewJobHandlers(service *jobsrv.JobService) *JobHandlers {
	return &JobHandlers{
		service: service,
	}
}

func (h *JobHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.AuthMiddleware) {
	jobs := router.Group("/jobs", authMiddleware.Authenticate(), authMiddleware.RequireScope(scopes.ScopeJobsRead))

	jobs.Get("/", h.ListJobs)
	jobs.Get("/:id", h.GetJob)
}

func (h *JobHandlers) ListJobs(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	jobs, err := h.service.ListJobs(c.UserContext(), principal)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *JobHandlers) GetJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	j, err := h.service.GetJob(c.UserContext(), principal, kernel.NewJobID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(j)
}
