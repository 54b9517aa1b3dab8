package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/model"
	"github.com/fadilmartias/careerhub/internal/util"
	"go.mongodb.org/mongo-driver/bson"
)

const maxSlugAttempts = 50

func BlogOptions(blogs DocumentStore[model.Blog], authors DocumentStore[model.Author]) ContentOptions[model.Blog] {
	return ContentOptions[model.Blog]{
		Name: "blog",
		Sort: bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}},
		Filters: map[string]string{
			"category":  "category",
			"tag":       "tags",
			"author_id": "author_id",
			"status":    "status",
		},
		SearchFields: []string{"title", "excerpt", "content"},
		PublicFilter: bson.M{"status": model.BlogStatusPublished},
		BeforeSave: func(ctx context.Context, b *model.Blog, existing *model.Blog) error {
			if b.Status == "" {
				b.Status = model.BlogStatusDraft
			}
			if b.AuthorID != "" {
				if _, err := authors.FindByID(ctx, b.AuthorID); err != nil {
					if apperror.Is(err, apperror.ErrTypeNotFound) {
						return apperror.InvalidInput("author not found", nil).
							WithDetails(map[string]string{"author_id": "does not exist"})
					}
					return err
				}
			}

			switch {
			case b.Status != model.BlogStatusPublished:
				b.PublishedAt = nil
			case existing != nil && existing.PublishedAt != nil:
				b.PublishedAt = existing.PublishedAt
			case b.PublishedAt == nil:
				now := time.Now().UTC()
				b.PublishedAt = &now
			}

			slug, err := uniqueSlug(ctx, blogs, b)
			if err != nil {
				return err
			}
			b.Slug = slug
			return nil
		},
	}
}

// uniqueSlug derives the slug from the requested one or the title and
// appends -2, -3, ... until no other blog uses it.
func uniqueSlug(ctx context.Context, blogs DocumentStore[model.Blog], b *model.Blog) (string, error) {
	base := util.Slugify(b.Slug)
	if base == "" {
		base = util.Slugify(b.Title)
	}
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		filter := bson.M{"slug": candidate}
		if !b.ID.IsZero() {
			filter["_id"] = bson.M{"$ne": b.ID}
		}
		taken, err := blogs.Exists(ctx, filter)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperror.Conflict("could not find a free slug for this title", nil)
}

func AuthorOptions() ContentOptions[model.Author] {
	return ContentOptions[model.Author]{
		Name:         "author",
		Sort:         bson.D{{Key: "name", Value: 1}},
		SearchFields: []string{"name", "email"},
		BeforeSave: func(_ context.Context, a *model.Author, _ *model.Author) error {
			a.Email = strings.ToLower(strings.TrimSpace(a.Email))
			return nil
		},
	}
}

func MetaTagOptions() ContentOptions[model.MetaTag] {
	return ContentOptions[model.MetaTag]{
		Name:         "meta tag",
		Sort:         bson.D{{Key: "page_path", Value: 1}},
		SearchFields: []string{"page_path", "title"},
		BeforeSave: func(_ context.Context, m *model.MetaTag, _ *model.MetaTag) error {
			m.PagePath = normalizePath(m.PagePath)
			return nil
		},
	}
}

// normalizePath drops query strings and trailing slashes so "/jobs/" and
// "/jobs?x=1" share one record.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return strings.ToLower(p)
}

// NormalizePagePath is normalizePath for handlers looking a page up.
func NormalizePagePath(p string) string {
	return normalizePath(p)
}

func FooterSectionOptions() ContentOptions[model.FooterSection] {
	return ContentOptions[model.FooterSection]{
		Name:         "footer section",
		Sort:         bson.D{{Key: "order", Value: 1}, {Key: "title", Value: 1}},
		SearchFields: []string{"title"},
	}
}

func ImportantLinkOptions() ContentOptions[model.ImportantLink] {
	return ContentOptions[model.ImportantLink]{
		Name:         "important link",
		Sort:         bson.D{{Key: "order", Value: 1}, {Key: "label", Value: 1}},
		Filters:      map[string]string{"category": "category"},
		SearchFields: []string{"label", "url"},
	}
}

func ResourceOptions() ContentOptions[model.DownloadableResource] {
	return ContentOptions[model.DownloadableResource]{
		Name:         "resource",
		Filters:      map[string]string{"category": "category", "file_type": "file_type"},
		SearchFields: []string{"title", "description"},
		BeforeSave: func(_ context.Context, r *model.DownloadableResource, existing *model.DownloadableResource) error {
			// the counter is only moved by downloads
			r.DownloadCount = 0
			if existing != nil {
				r.DownloadCount = existing.DownloadCount
			}
			return nil
		},
	}
}

var contactStatuses = []string{model.ContactStatusNew, model.ContactStatusRead, model.ContactStatusReplied}

func ContactOptions() ContentOptions[model.ContactMessage] {
	return ContentOptions[model.ContactMessage]{
		Name:         "contact message",
		Filters:      map[string]string{"status": "status"},
		SearchFields: []string{"name", "email", "subject", "message"},
		Statuses:     contactStatuses,
		BeforeSave: func(_ context.Context, m *model.ContactMessage, existing *model.ContactMessage) error {
			m.Email = strings.ToLower(strings.TrimSpace(m.Email))
			if existing == nil {
				m.Status = model.ContactStatusNew
			} else {
				m.Status = existing.Status
			}
			return nil
		},
	}
}

var consultationStatuses = []string{
	model.ConsultationPending, model.ConsultationScheduled, model.ConsultationCompleted, model.ConsultationCancelled,
}

func ConsultationOptions() ContentOptions[model.ConsultationRequest] {
	return ContentOptions[model.ConsultationRequest]{
		Name:         "consultation request",
		Filters:      map[string]string{"status": "status", "service": "service"},
		SearchFields: []string{"name", "email", "message"},
		Statuses:     consultationStatuses,
		BeforeSave: func(_ context.Context, r *model.ConsultationRequest, existing *model.ConsultationRequest) error {
			r.Email = strings.ToLower(strings.TrimSpace(r.Email))
			if existing == nil {
				r.Status = model.ConsultationPending
			} else {
				r.Status = existing.Status
			}
			return nil
		},
	}
}
