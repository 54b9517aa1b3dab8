package handler

import (
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func uuidParam(c *fiber.Ctx, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(what+" not found", err)
	}
	return id, nil
}

func pageQuery(c *fiber.Ctx) (dto.PageQuery, error) {
	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return q, apperror.InvalidInput("invalid query parameters", err)
	}
	q.Normalize()
	return q, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.InvalidInput("invalid request body", err)
	}
	return nil
}
