package handler

import (
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/repository"
	"github.com/fadilmartias/careerhub/internal/response"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// ContentRoutes lists the guards for each kind of route. Create falls back
// to Write when empty.
type ContentRoutes struct {
	Read   []fiber.Handler
	Create []fiber.Handler
	Write  []fiber.Handler
}

// ContentHandler serves CRUD for one Mongo collection.
type ContentHandler[T any, PT repository.DocumentModel[T]] struct {
	uc *usecase.ContentUsecase[T, PT]
}

func NewContentHandler[T any, PT repository.DocumentModel[T]](uc *usecase.ContentUsecase[T, PT]) *ContentHandler[T, PT] {
	return &ContentHandler[T, PT]{uc: uc}
}

func (h *ContentHandler[T, PT]) RegisterRoutes(r fiber.Router, path string, routes ContentRoutes) fiber.Router {
	create := routes.Create
	if len(create) == 0 {
		create = routes.Write
	}

	g := r.Group(path)
	g.Get("/", chain(routes.Read, h.List)...)
	g.Get("/:id", chain(routes.Read, h.Get)...)
	g.Post("/", chain(create, h.Create)...)
	g.Put("/:id", chain(routes.Write, h.Update)...)
	g.Delete("/:id", chain(routes.Write, h.Delete)...)
	return g
}

func (h *ContentHandler[T, PT]) List(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return util.HandleError(c, err)
	}

	items, total, err := h.uc.List(c.UserContext(), usecase.ListParams{
		PageQuery: q,
		Filters:   c.Queries(),
		Staff:     middleware.IsStaff(c),
	})
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "List " + h.uc.Name(),
		Data:       items,
		Pagination: response.NewPagination(q.Page, q.PageSize, total),
	})
}

func (h *ContentHandler[T, PT]) Get(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.UserContext(), c.Params("id"), middleware.IsStaff(c))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Get " + h.uc.Name(), Data: doc})
}

// FindByParam serves a lookup on field using the route parameter param.
func (h *ContentHandler[T, PT]) FindByParam(field, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := h.uc.FindOne(c.UserContext(), bson.M{field: c.Params(param)}, middleware.IsStaff(c))
		if err != nil {
			return util.HandleError(c, err)
		}
		return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Get " + h.uc.Name(), Data: doc})
	}
}

func (h *ContentHandler[T, PT]) Create(c *fiber.Ctx) error {
	doc := PT(new(T))
	if err := parseBody(c, doc); err != nil {
		return util.HandleError(c, err)
	}
	created, err := h.uc.Create(c.UserContext(), doc)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Create " + h.uc.Name(),
		Data:    created,
	})
}

func (h *ContentHandler[T, PT]) Update(c *fiber.Ctx) error {
	doc := PT(new(T))
	if err := parseBody(c, doc); err != nil {
		return util.HandleError(c, err)
	}
	updated, err := h.uc.Update(c.UserContext(), c.Params("id"), doc)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Update " + h.uc.Name(), Data: updated})
}

// SetStatus handles PATCH /:id/status.
func (h *ContentHandler[T, PT]) SetStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	if err := util.ValidateStruct(req); err != nil {
		return util.HandleError(c, err)
	}
	doc, err := h.uc.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Update " + h.uc.Name() + " status", Data: doc})
}

func (h *ContentHandler[T, PT]) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Delete " + h.uc.Name()})
}
