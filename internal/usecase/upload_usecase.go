package usecase

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/dto"
	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type UploadUsecase struct {
	dir     string
	baseURL string
	maxMB   int64
}

func NewUploadUsecase(upload *config.UploadConfig, app *config.AppConfig) *UploadUsecase {
	return &UploadUsecase{
		dir:     upload.Dir,
		baseURL: strings.TrimRight(app.BaseURL, "/"),
		maxMB:   upload.MaxImageMB,
	}
}

// SaveImage stores an admin image upload under a random name and returns
// its public URL.
func (uc *UploadUsecase) SaveImage(fh *multipart.FileHeader) (*dto.UploadDTO, error) {
	data, err := util.ReadImageUpload(fh, uc.maxMB)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(uc.dir, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.Internal("cannot prepare upload directory", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, apperror.Internal("cannot store upload", err)
	}

	return &dto.UploadDTO{
		URL:      uc.baseURL + "/uploads/images/" + name,
		FileName: name,
		Size:     int64(len(data)),
		MimeType: mimetype.Detect(data).String(),
	}, nil
}
