package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CVKindAnalysis = "analysis"
	CVKindTailor   = "tailor"
)

// CVAnalysis is one run of the analysis or tailoring pipeline. Result holds
// the parsed reply as JSON; RawReply keeps the model's text for audit.
type CVAnalysis struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Kind                string     `gorm:"type:varchar(20);index" json:"kind"`
	FileName            string     `gorm:"type:varchar(255)" json:"file_name"`
	FileType            string     `gorm:"type:varchar(10)" json:"file_type"`
	TextLength          int        `json:"text_length"`
	TargetRole          string     `gorm:"type:varchar(200)" json:"target_role,omitempty"`
	JobID               *uuid.UUID `gorm:"type:uuid" json:"job_id,omitempty"`
	JobDescription      string     `gorm:"type:text" json:"job_description,omitempty"`
	ClassificationScore int        `json:"classification_score"`
	Provider            string     `gorm:"type:varchar(50)" json:"provider"`
	Model               string     `gorm:"type:varchar(100)" json:"model"`
	Score               int        `json:"score"`
	Summary             string     `gorm:"type:text" json:"summary"`
	ParseMode           string     `gorm:"type:varchar(20)" json:"parse_mode"`
	Result              string     `gorm:"type:jsonb" json:"-"`
	RawReply            string     `gorm:"type:text" json:"-"`
	Cached              bool       `gorm:"-" json:"cached"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (CVAnalysis) TableName() string {
	return "cv_analyses"
}

func (a *CVAnalysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
