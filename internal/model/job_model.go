package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const (
	JobStatusDraft     = "draft"
	JobStatusPublished = "published"
	JobStatusClosed    = "closed"
)

// EmbeddingDimensions matches the gemini-embedding-001 output size.
const EmbeddingDimensions = 3072

type Job struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string           `gorm:"type:varchar(200);not null" json:"title"`
	Company        string           `gorm:"type:varchar(200)" json:"company"`
	Location       string           `gorm:"type:varchar(200);index" json:"location"`
	EmploymentType string           `gorm:"type:varchar(50);index" json:"employment_type"`
	Description    string           `gorm:"type:text" json:"description"`
	Requirements   []string         `gorm:"serializer:json" json:"requirements"`
	Tags           []string         `gorm:"serializer:json" json:"tags"`
	SalaryRange    string           `gorm:"type:varchar(100)" json:"salary_range"`
	ApplyURL       string           `gorm:"type:varchar(500)" json:"apply_url"`
	Status         string           `gorm:"type:varchar(20);index;default:draft" json:"status"`
	Embedding      *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// EmbeddingText is the text embedded for similarity search against CVs.
func (j *Job) EmbeddingText() string {
	text := j.Title + "\n" + j.Company + "\n" + j.Description
	for _, r := range j.Requirements {
		text += "\n" + r
	}
	return text
}

// JobMatch is a job returned by vector search with its cosine distance.
type JobMatch struct {
	Job
	Distance float64 `json:"distance"`
}
