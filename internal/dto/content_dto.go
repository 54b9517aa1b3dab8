package dto

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type DownloadDTO struct {
	ID            string `json:"id"`
	FileURL       string `json:"file_url"`
	DownloadCount int64  `json:"download_count"`
}

type UploadDTO struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}
