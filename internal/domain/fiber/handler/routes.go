package handler

import "github.com/gofiber/fiber/v2"

// Handlers holds every API handler; nil handlers are not mounted.
type Handlers struct {
	CV     *CVHandler
	Jobs   *JobHandler
	Users  *UserHandler
	Upload *UploadHandler
	Resume *ResumeHandler
	Site   *SiteContent
}

func Register(api fiber.Router, g Guards, h Handlers) {
	if h.CV != nil {
		h.CV.RegisterRoutes(api, g)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(api, g)
	}
	if h.Users != nil {
		h.Users.RegisterRoutes(api, g)
	}
	if h.Upload != nil {
		h.Upload.RegisterRoutes(api, g)
	}
	if h.Resume != nil {
		h.Resume.RegisterRoutes(api, g)
	}
	if h.Site != nil {
		RegisterSiteContent(api, g, *h.Site)
	}
}
