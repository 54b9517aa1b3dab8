package handler

import (
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uc *usecase.UploadUsecase
}

func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) RegisterRoutes(r fiber.Router, g Guards) {
	r.Post("/uploads/images", g.Auth, g.Staff, h.Image)
}

func (h *UploadHandler) Image(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return util.HandleError(c, apperror.InvalidInput("image file is required", err))
	}
	out, err := h.uc.SaveImage(fh)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Image uploaded",
		Data:    out,
	})
}
