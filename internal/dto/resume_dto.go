package dto

import (
	"encoding/json"
	"time"
)

// ResumePDFRequest carries either an editor HTML snapshot or a JSON resume
// to render through the built-in template.
type ResumePDFRequest struct {
	HTML     string          `json:"html"`
	Resume   json.RawMessage `json:"resume"`
	FileName string          `json:"file_name" validate:"omitempty,max=100"`
}

type DraftDTO struct {
	Token     string          `json:"token"`
	Resume    json.RawMessage `json:"resume,omitempty"`
	ExpiresAt time.Time       `json:"expires_at"`
}
