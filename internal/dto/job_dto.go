package dto

import (
	"strings"

	"github.com/fadilmartias/careerhub/internal/model"
)

type JobRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Company        string   `json:"company" validate:"max=200"`
	Location       string   `json:"location" validate:"max=200"`
	EmploymentType string   `json:"employment_type" validate:"omitempty,oneof=full-time part-time contract internship freelance temporary"`
	Description    string   `json:"description" validate:"required,min=20"`
	Requirements   []string `json:"requirements" validate:"max=50,dive,max=500"`
	Tags           []string `json:"tags" validate:"max=30,dive,max=50"`
	SalaryRange    string   `json:"salary_range" validate:"max=100"`
	ApplyURL       string   `json:"apply_url" validate:"omitempty,url"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft published closed"`
}

// Apply copies the request onto j. An empty status keeps the current one
// and defaults new jobs to draft.
func (r JobRequest) Apply(j *model.Job) {
	j.Title = strings.TrimSpace(r.Title)
	j.Company = strings.TrimSpace(r.Company)
	j.Location = strings.TrimSpace(r.Location)
	j.EmploymentType = r.EmploymentType
	j.Description = strings.TrimSpace(r.Description)
	j.Requirements = nonEmpty(r.Requirements)
	j.Tags = nonEmpty(r.Tags)
	j.SalaryRange = strings.TrimSpace(r.SalaryRange)
	j.ApplyURL = strings.TrimSpace(r.ApplyURL)
	if r.Status != "" {
		j.Status = r.Status
	}
	if j.Status == "" {
		j.Status = model.JobStatusDraft
	}
}

type JobQuery struct {
	PageQuery
	Location       string `query:"location"`
	EmploymentType string `query:"employment_type"`
	Status         string `query:"status"`
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
