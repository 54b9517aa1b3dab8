package handler

import (
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/response"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router, g Guards) {
	jobs := r.Group("/jobs")
	jobs.Get("/", h.List)
	jobs.Get("/:id", h.Get)
	jobs.Post("/", g.Auth, g.Staff, h.Create)
	jobs.Put("/:id", g.Auth, g.Staff, h.Update)
	jobs.Delete("/:id", g.Auth, g.Staff, h.Delete)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	var q dto.JobQuery
	if err := c.QueryParser(&q); err != nil {
		return util.HandleError(c, apperror.InvalidInput("invalid query parameters", err))
	}
	q.Normalize()

	jobs, total, err := h.uc.List(c.UserContext(), q, middleware.IsStaff(c))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Jobs",
		Data:       jobs,
		Pagination: response.NewPagination(q.Page, q.PageSize, total),
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "job")
	if err != nil {
		return util.HandleError(c, err)
	}
	job, err := h.uc.Get(c.UserContext(), id, middleware.IsStaff(c))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Job", Data: job})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req dto.JobRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	job, err := h.uc.Create(c.UserContext(), req)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Job created",
		Data:    job,
	})
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "job")
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.JobRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	job, err := h.uc.Update(c.UserContext(), id, req)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Job updated", Data: job})
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "job")
	if err != nil {
		return util.HandleError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Job deleted"})
}
