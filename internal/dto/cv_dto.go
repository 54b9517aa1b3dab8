package dto

import (
	"encoding/json"
	"time"

	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/google/uuid"
)

type CVAnalysisDTO struct {
	ID                  uuid.UUID       `json:"id"`
	Kind                string          `json:"kind"`
	FileName            string          `json:"file_name"`
	FileType            string          `json:"file_type"`
	TargetRole          string          `json:"target_role,omitempty"`
	JobID               *uuid.UUID      `json:"job_id,omitempty"`
	ClassificationScore int             `json:"classification_score"`
	Provider            string          `json:"provider"`
	Model               string          `json:"model"`
	Score               int             `json:"score"`
	Summary             string          `json:"summary"`
	ParseMode           string          `json:"parse_mode"`
	Cached              bool            `json:"cached"`
	Result              json.RawMessage `json:"result,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func NewCVAnalysisDTO(a *model.CVAnalysis) CVAnalysisDTO {
	d := CVAnalysisDTO{
		ID:                  a.ID,
		Kind:                a.Kind,
		FileName:            a.FileName,
		FileType:            a.FileType,
		TargetRole:          a.TargetRole,
		JobID:               a.JobID,
		ClassificationScore: a.ClassificationScore,
		Provider:            a.Provider,
		Model:               a.Model,
		Score:               a.Score,
		Summary:             a.Summary,
		ParseMode:           a.ParseMode,
		Cached:              a.Cached,
		CreatedAt:           a.CreatedAt,
	}
	if a.Result != "" && json.Valid([]byte(a.Result)) {
		d.Result = json.RawMessage(a.Result)
	}
	return d
}

// CVAnalysisSummaryDTO is the history list row; the full result is fetched
// by ID.
type CVAnalysisSummaryDTO struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	FileName   string    `json:"file_name"`
	TargetRole string    `json:"target_role,omitempty"`
	Score      int       `json:"score"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCVAnalysisSummaries(items []model.CVAnalysis) []CVAnalysisSummaryDTO {
	out := make([]CVAnalysisSummaryDTO, 0, len(items))
	for _, a := range items {
		out = append(out, CVAnalysisSummaryDTO{
			ID:         a.ID,
			Kind:       a.Kind,
			FileName:   a.FileName,
			TargetRole: a.TargetRole,
			Score:      a.Score,
			Summary:    a.Summary,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
