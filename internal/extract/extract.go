package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperrors "github.com/studyloop/quiz-service/internal/errors"
)

// Cleaner runs raw extracted text through the content-cleaning collaborator.
type Cleaner interface {
	CleanContent(ctx context.Context, text string) (string, error)
}

const maxBodySize = 10 << 20 // 10 MB

var whitespace = regexp.MustCompile(`\s+`)

// Service turns user-supplied documents (pasted text, uploaded files, URLs)
// into plain text for quiz generation.
type Service struct {
	httpClient *http.Client
	cleaner    Cleaner
	logger     *slog.Logger
}

func NewService(cleaner Cleaner, logger *slog.Logger) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cleaner:    cleaner,
		logger:     logger,
	}
}

// FromText validates pasted study material.
func (s *Service) FromText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewExtractionError("content is empty", false, nil)
	}
	return text, nil
}

// FromFile extracts plain text from an uploaded file. Plain-text formats pass
// through; HTML is pruned the same way as fetched pages.
func (s *Service) FromFile(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewExtractionError(fmt.Sprintf("file %s is empty", filename), false, nil)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return s.FromText(string(data))
	case ".html", ".htm":
		text, err := extractHTML(bytes.NewReader(data))
		if err != nil {
			return "", apperrors.NewExtractionError(fmt.Sprintf("failed to parse %s", filename), false, err)
		}
		return s.FromText(text)
	default:
		return "", apperrors.NewExtractionError(fmt.Sprintf("unsupported file type %q", filepath.Ext(filename)), false, nil)
	}
}

// FromURL fetches a page, prunes non-content elements from the DOM, and runs
// the remaining text through the cleaning collaborator.
func (s *Service) FromURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.NewExtractionError("invalid URL", false, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewExtractionError("failed to fetch URL", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewExtractionError(fmt.Sprintf("failed to fetch URL: %s", resp.Status), true, nil)
	}

	body, err := extractHTML(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", apperrors.NewExtractionError("failed to parse page", true, err)
	}
	if body == "" {
		return "", apperrors.NewExtractionError("page has no readable content", false, nil)
	}

	cleaned, err := s.cleaner.CleanContent(ctx, body)
	if err != nil {
		s.logger.Error("content cleaning failed", "url", url, "error", err)
		return "", apperrors.NewExtractionError("failed to clean page content", true, err)
	}
	return s.FromText(cleaned)
}

// extractHTML strips script/style/navigation elements and collapses the body
// text to single-spaced plain text.
func extractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, iframe, nav, footer, header, aside").Remove()
	text := doc.Find("body").Text()
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " ")), nil
}
