package util

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// ocrPageTimeout bounds a single tesseract run.
const ocrPageTimeout = 60 * time.Second

// ExtractPDFOCR renders every page with MuPDF and runs Tesseract over it.
// Used for scanned CVs that carry no text layer.
func ExtractPDFOCR(ctx context.Context, data []byte) (string, error) {
	if err := checkTesseract(ctx); err != nil {
		return "", apperror.Unavailable("text recognition is unavailable", err)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	zap.L().Debug("running ocr", zap.Int("pages", doc.NumPage()))

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := ocrPage(ctx, doc, n)
		if err != nil {
			lastErr = err
			zap.L().Warn("ocr page failed", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		if len(pageText) > 0 {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) == 0 {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
		}
		return "", fmt.Errorf("no text extracted from PDF (PDF might be empty or images are unreadable)")
	}

	zap.L().Debug("ocr finished", zap.Int("chars", len(result)))
	return result, nil
}

func ocrPage(ctx context.Context, doc *fitz.Document, n int) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
	}

	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("page %d: failed to create temp file: %w", n+1, err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	err = png.Encode(tmpFile, image.Image(img))
	tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("page %d: failed to encode PNG: %w", n+1, err)
	}

	ctx, cancel := context.WithTimeout(ctx, ocrPageTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tesseract", tmpPath, "stdout", "-l", "eng")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("page %d: tesseract error: %w, output: %s", n+1, err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// checkTesseract verifies the tesseract binary is installed and runnable.
func checkTesseract(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	return nil
}
