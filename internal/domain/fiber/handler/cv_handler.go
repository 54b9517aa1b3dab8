package handler

import (
	"strconv"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/middleware"
	"github.com/fadilmartias/careerhub/internal/response"
	"github.com/fadilmartias/careerhub/internal/usecase"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CVHandler struct {
	uc    *usecase.CVUsecase
	maxMB int64
}

func NewCVHandler(uc *usecase.CVUsecase, upload *config.UploadConfig) *CVHandler {
	return &CVHandler{uc: uc, maxMB: upload.MaxCVMB}
}

func (h *CVHandler) RegisterRoutes(r fiber.Router, g Guards) {
	r.Post("/cv", g.CVLimit, h.Analyze)
	r.Get("/cv/history", g.Auth, h.History)
	r.Get("/cv/:id", g.Auth, h.Get)
	r.Post("/job-fit/tailor-cv", g.CVLimit, h.Tailor)
	r.Post("/job-fit/match", g.CVLimit, h.Match)
}

func (h *CVHandler) Analyze(c *fiber.Ctx) error {
	name, data, err := h.readCV(c)
	if err != nil {
		return util.HandleError(c, err)
	}

	in := usecase.CVInput{
		FileName:   name,
		Data:       data,
		TargetRole: c.FormValue("target_role"),
	}
	if u := middleware.CurrentUser(c); u != nil {
		in.UserID = &u.ID
	}

	record, err := h.uc.Analyze(c.UserContext(), in)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "CV analysed",
		Data:    dto.NewCVAnalysisDTO(record),
	})
}

func (h *CVHandler) Tailor(c *fiber.Ctx) error {
	name, data, err := h.readCV(c)
	if err != nil {
		return util.HandleError(c, err)
	}

	in := usecase.TailorInput{
		FileName:       name,
		Data:           data,
		JobDescription: c.FormValue("job_description"),
		Staff:          middleware.IsStaff(c),
	}
	if raw := strings.TrimSpace(c.FormValue("job_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return util.HandleError(c, apperror.InvalidInput("invalid job_id", err))
		}
		in.JobID = &id
	}
	if u := middleware.CurrentUser(c); u != nil {
		in.UserID = &u.ID
	}

	record, err := h.uc.Tailor(c.UserContext(), in)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "CV tailored",
		Data:    dto.NewCVAnalysisDTO(record),
	})
}

func (h *CVHandler) Match(c *fiber.Ctx) error {
	name, data, err := h.readCV(c)
	if err != nil {
		return util.HandleError(c, err)
	}

	limit := 0
	if raw := c.FormValue("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return util.HandleError(c, apperror.InvalidInput("limit must be a number", err))
		}
	}

	matches, err := h.uc.MatchJobs(c.UserContext(), name, data, limit)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Matching jobs",
		Data:    matches,
	})
}

func (h *CVHandler) History(c *fiber.Ctx) error {
	q, err := pageQuery(c)
	if err != nil {
		return util.HandleError(c, err)
	}
	user := middleware.CurrentUser(c)

	items, total, err := h.uc.History(c.UserContext(), user.ID, q.Page, q.PageSize)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "CV history",
		Data:       dto.NewCVAnalysisSummaries(items),
		Pagination: response.NewPagination(q.Page, q.PageSize, total),
	})
}

func (h *CVHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", "analysis")
	if err != nil {
		return util.HandleError(c, err)
	}
	record, err := h.uc.Get(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "CV analysis",
		Data:    dto.NewCVAnalysisDTO(record),
	})
}

func (h *CVHandler) readCV(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, apperror.InvalidInput("resume file is required", err)
	}
	data, err := util.ReadCVUpload(fh, h.maxMB)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}
