package handler

import (
	"fmt"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ResumeHandler struct {
	uc *usecase.ResumeUsecase
}

func NewResumeHandler(uc *usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router, g Guards) {
	resume := r.Group("/resume")
	resume.Post("/validate", h.Validate)
	resume.Post("/pdf", g.PDFLimit, h.PDF)
	resume.Post("/drafts", g.FormLimit, h.SaveDraft)
	resume.Get("/drafts/:token", h.GetDraft)
}

func (h *ResumeHandler) Validate(c *fiber.Ctx) error {
	resume, err := h.uc.Validate(c.Body())
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Resume is valid", Data: resume})
}

func (h *ResumeHandler) PDF(c *fiber.Ctx) error {
	var req dto.ResumePDFRequest
	if err := parseBody(c, &req); err != nil {
		return util.HandleError(c, err)
	}
	if err := util.ValidateStruct(req); err != nil {
		return util.HandleError(c, err)
	}
	// arbitrary markup is only printed for signed-in callers
	if strings.TrimSpace(req.HTML) != "" && middleware.CurrentUser(c) == nil {
		return util.HandleError(c, apperror.Unauthorized("authentication required to render html", nil))
	}

	pdf, err := h.uc.RenderPDF(c.UserContext(), req)
	if err != nil {
		return util.HandleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, pdfFileName(req.FileName)))
	return c.Send(pdf)
}

func (h *ResumeHandler) SaveDraft(c *fiber.Ctx) error {
	draft, err := h.uc.SaveDraft(c.UserContext(), c.Body())
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Draft saved",
		Data:    draft,
	})
}

func (h *ResumeHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.uc.GetDraft(c.UserContext(), c.Params("token"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Draft", Data: draft})
}

func pdfFileName(name string) string {
	name = util.Slugify(strings.TrimSuffix(name, ".pdf"))
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}
