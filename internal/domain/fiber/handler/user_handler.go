package handler

import (
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/response"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router, g Guards) {
	users := r.Group("/users", g.Auth)
	users.Get("/me", h.Me)
	users.Get("/", g.Admin, h.List)
	users.Get("/:id", g.Admin, h.Get)
	users.Put("/:id/role", g.Admin, h.UpdateRole)
	users.Delete("/:id", g.Admin, h.Delete)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Current user",
		Data:    middleware.CurrentUser(c),
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	users, total, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Users",
		Data:       users,
		Pagination: response.NewPagination(q.Page, q.PageSize, total),
	})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "user")
	if err != nil {
		return util.HandleError(c, err)
	}
	user, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "User", Data: user})
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "user")
	if err != nil {
		return util.HandleError(c, err)
	}
	var req dto.UpdateRoleRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	user, err := h.uc.UpdateRole(c.UserContext(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "User role updated", Data: user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "user")
	if err != nil {
		return util.HandleError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "User deleted"})
}
