package util

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/gabriel-vasile/mimetype"
)

const megabyte = 1024 * 1024

// cvTypes lists, per extension, the sniffed content types accepted for it.
// Any ancestor of the detected type may match (a docx is also a zip).
var cvTypes = map[string][]string{
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".pdf":  {"application/pdf"},
	".txt":  {"text/plain"},
}

var imageTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".webp": {"image/webp"},
	".gif":  {"image/gif"},
}

// ReadCVUpload reads a resume upload after checking its size, extension and
// sniffed content type.
func ReadCVUpload(fh *multipart.FileHeader, maxMB int64) ([]byte, error) {
	return readUpload(fh, maxMB, cvTypes, "resume")
}

// ReadImageUpload is ReadCVUpload for images.
func ReadImageUpload(fh *multipart.FileHeader, maxMB int64) ([]byte, error) {
	return readUpload(fh, maxMB, imageTypes, "image")
}

func readUpload(fh *multipart.FileHeader, maxMB int64, allowed map[string][]string, kind string) ([]byte, error) {
	if fh == nil {
		return nil, apperror.InvalidInput(fmt.Sprintf("%s file is required", kind), nil)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	types, ok := allowed[ext]
	if !ok {
		return nil, apperror.Unsupported(
			fmt.Sprintf("unsupported %s file type %q (allowed: %s)", kind, ext, allowedList(allowed)), nil)
	}
	if fh.Size > maxMB*megabyte {
		return nil, apperror.TooLarge(fmt.Sprintf("%s file size is too large (max %dMB)", kind, maxMB), nil)
	}
	if fh.Size == 0 {
		return nil, apperror.InvalidInput(fmt.Sprintf("%s file is empty", kind), nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("cannot open %s file", kind), err)
	}
	defer f.Close()

	// Size in the header is client supplied; bound the read as well.
	data, err := io.ReadAll(io.LimitReader(f, maxMB*megabyte+1))
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("cannot read %s file", kind), err)
	}
	if int64(len(data)) > maxMB*megabyte {
		return nil, apperror.TooLarge(fmt.Sprintf("%s file size is too large (max %dMB)", kind, maxMB), nil)
	}

	detected := mimetype.Detect(data)
	if !MatchesType(detected, types) {
		return nil, apperror.Unsupported(
			fmt.Sprintf("%s content (%s) does not match its %s extension", kind, detected.String(), ext), nil)
	}
	return data, nil
}

// MatchesType reports whether m or one of its parents is in types.
func MatchesType(m *mimetype.MIME, types []string) bool {
	for cur := m; cur != nil; cur = cur.Parent() {
		for _, t := range types {
			if cur.Is(t) {
				return true
			}
		}
	}
	return false
}

func allowedList(allowed map[string][]string) string {
	exts := make([]string, 0, len(allowed))
	for _, ext := range []string{".docx", ".doc", ".pdf", ".txt", ".jpg", ".jpeg", ".png", ".webp", ".gif"} {
		if _, ok := allowed[ext]; ok {
			exts = append(exts, ext)
		}
	}
	return strings.Join(exts, ", ")
}
