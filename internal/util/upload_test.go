package util

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formFile(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(4<<20))
	return req.MultipartForm.File["file"][0]
}

func TestReadCVUpload(t *testing.T) {
	data, err := ReadCVUpload(formFile(t, "cv.txt", []byte("Jane Smith, engineer")), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith, engineer", string(data))

	docx := buildDocx(t, documentXML)
	_, err = ReadCVUpload(formFile(t, "cv.docx", docx), 1)
	assert.NoError(t, err)

	_, err = ReadCVUpload(formFile(t, "cv.doc", buildDoc("Jane Smith")), 1)
	assert.NoError(t, err)
}

func TestReadCVUpload_Rejects(t *testing.T) {
	_, err := ReadCVUpload(nil, 1)
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))

	_, err = ReadCVUpload(formFile(t, "cv.exe", []byte("MZ")), 1)
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnsupported))

	// zip bytes behind a .pdf name
	_, err = ReadCVUpload(formFile(t, "cv.pdf", buildDocx(t, documentXML)), 1)
	assert.True(t, apperror.Is(err, apperror.ErrTypeUnsupported))

	_, err = ReadCVUpload(formFile(t, "cv.txt", []byte(strings.Repeat("a", 1<<20+1))), 1)
	assert.True(t, apperror.Is(err, apperror.ErrTypeTooLarge))

	_, err = ReadCVUpload(formFile(t, "cv.txt", nil), 1)
	assert.True(t, apperror.Is(err, apperror.ErrTypeInvalidInput))
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Email string   `json:"email" validate:"required,email"`
		Tags  []string `json:"tags" validate:"dive,max=3"`
	}

	assert.NoError(t, ValidateStruct(form{Email: "a@b.co", Tags: []string{"go"}}))

	err := ValidateStruct(form{Email: "nope", Tags: []string{"golang"}})
	var fe *FormError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Errors, "email")
	assert.Contains(t, fe.Errors, "tags[0]")
}
