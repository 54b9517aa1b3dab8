package model

import "time"

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

type Blog struct {
	Document    `bson:",inline"`
	Title       string     `bson:"title" json:"title" validate:"required,max=200"`
	Slug        string     `bson:"slug" json:"slug" validate:"omitempty,max=220"`
	Excerpt     string     `bson:"excerpt" json:"excerpt" validate:"max=500"`
	Content     string     `bson:"content" json:"content" validate:"required"`
	CoverImage  string     `bson:"cover_image,omitempty" json:"cover_image,omitempty" validate:"omitempty,url"`
	AuthorID    string     `bson:"author_id" json:"author_id" validate:"omitempty,mongodb"`
	Category    string     `bson:"category" json:"category" validate:"max=100"`
	Tags        []string   `bson:"tags" json:"tags"`
	Status      string     `bson:"status" json:"status" validate:"omitempty,oneof=draft published"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

type Author struct {
	Document    `bson:",inline"`
	Name        string            `bson:"name" json:"name" validate:"required,max=120"`
	Email       string            `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Bio         string            `bson:"bio" json:"bio" validate:"max=2000"`
	Avatar      string            `bson:"avatar,omitempty" json:"avatar,omitempty" validate:"omitempty,url"`
	SocialLinks map[string]string `bson:"social_links,omitempty" json:"social_links,omitempty"`
}

type MetaTag struct {
	Document    `bson:",inline"`
	PagePath    string   `bson:"page_path" json:"page_path" validate:"required,startswith=/,max=300"`
	Title       string   `bson:"title" json:"title" validate:"required,max=70"`
	Description string   `bson:"description" json:"description" validate:"max=300"`
	Keywords    []string `bson:"keywords" json:"keywords"`
	OGImage     string   `bson:"og_image,omitempty" json:"og_image,omitempty" validate:"omitempty,url"`
	Canonical   string   `bson:"canonical,omitempty" json:"canonical,omitempty" validate:"omitempty,url"`
}

type FooterLink struct {
	Label string `bson:"label" json:"label" validate:"required,max=80"`
	URL   string `bson:"url" json:"url" validate:"required"`
}

type FooterSection struct {
	Document `bson:",inline"`
	Title    string       `bson:"title" json:"title" validate:"required,max=80"`
	Order    int          `bson:"order" json:"order" validate:"min=0"`
	Links    []FooterLink `bson:"links" json:"links" validate:"dive"`
}

type ImportantLink struct {
	Document `bson:",inline"`
	Label    string `bson:"label" json:"label" validate:"required,max=120"`
	URL      string `bson:"url" json:"url" validate:"required,url"`
	Category string `bson:"category" json:"category" validate:"max=80"`
	Order    int    `bson:"order" json:"order" validate:"min=0"`
}

type DownloadableResource struct {
	Document      `bson:",inline"`
	Title         string `bson:"title" json:"title" validate:"required,max=200"`
	Description   string `bson:"description" json:"description" validate:"max=1000"`
	FileURL       string `bson:"file_url" json:"file_url" validate:"required,url"`
	FileType      string `bson:"file_type" json:"file_type" validate:"max=20"`
	Category      string `bson:"category" json:"category" validate:"max=80"`
	DownloadCount int64  `bson:"download_count" json:"download_count"`
}

const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

type ContactMessage struct {
	Document `bson:",inline"`
	Name     string `bson:"name" json:"name" validate:"required,max=120"`
	Email    string `bson:"email" json:"email" validate:"required,email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=30"`
	Subject  string `bson:"subject" json:"subject" validate:"max=200"`
	Message  string `bson:"message" json:"message" validate:"required,min=10,max=5000"`
	Status   string `bson:"status" json:"status"`
}

const (
	ConsultationPending   = "pending"
	ConsultationScheduled = "scheduled"
	ConsultationCompleted = "completed"
	ConsultationCancelled = "cancelled"
)

type ConsultationRequest struct {
	Document      `bson:",inline"`
	Name          string `bson:"name" json:"name" validate:"required,max=120"`
	Email         string `bson:"email" json:"email" validate:"required,email"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=30"`
	Service       string `bson:"service" json:"service" validate:"required,oneof=cv-review career-coaching interview-prep job-search other"`
	PreferredDate string `bson:"preferred_date,omitempty" json:"preferred_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Message       string `bson:"message" json:"message" validate:"max=5000"`
	Status        string `bson:"status" json:"status"`
}
