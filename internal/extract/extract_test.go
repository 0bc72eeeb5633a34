package extract

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/studyloop/quiz-service/internal/errors"
)

type passthroughCleaner struct {
	err error
}

func (c *passthroughCleaner) CleanContent(ctx context.Context, text string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return text, nil
}

func newTestService(cleaner Cleaner) *Service {
	return NewService(cleaner, slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
}

func TestFromText(t *testing.T) {
	svc := newTestService(&passthroughCleaner{})

	content, err := svc.FromText("  The mitochondria is the powerhouse of the cell.  ")
	require.NoError(t, err)
	assert.Equal(t, "The mitochondria is the powerhouse of the cell.", content)
}

func TestFromText_Empty(t *testing.T) {
	svc := newTestService(&passthroughCleaner{})

	_, err := svc.FromText("   \n\t ")
	require.Error(t, err)
	assert.True(t, apperrors.IsExtraction(err))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestFromFile(t *testing.T) {
	svc := newTestService(&passthroughCleaner{})

	tests := []struct {
		name     string
		filename string
		data     string
		want     string
		wantErr  bool
	}{
		{"plain text", "notes.txt", "chapter one", "chapter one", false},
		{"markdown", "notes.md", "# Heading\nbody", "# Heading\nbody", false},
		{"html stripped", "page.html", "<html><body><script>x()</script><p>visible   text</p></body></html>", "visible text", false},
		{"unsupported extension", "slides.pdf", "%PDF-1.4", "", true},
		{"empty file", "notes.txt", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := svc.FromFile(tt.filename, []byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, content)
		})
	}
}

func TestFromURL(t *testing.T) {
	page := `<html>
		<head><style>body { color: red }</style></head>
		<body>
			<nav>Site navigation</nav>
			<header>Banner</header>
			<p>Photosynthesis converts light   into chemical energy.</p>
			<script>trackPageView()</script>
			<footer>Copyright</footer>
		</body>
	</html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	svc := newTestService(&passthroughCleaner{})
	content, err := svc.FromURL(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis converts light into chemical energy.", content)
}

func TestFromURL_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := newTestService(&passthroughCleaner{})
	_, err := svc.FromURL(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, apperrors.IsExtraction(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFromURL_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><script>only()</script></body></html>"))
	}))
	defer server.Close()

	svc := newTestService(&passthroughCleaner{})
	_, err := svc.FromURL(context.Background(), server.URL)
	require.Error(t, err)
	assert.False(t, apperrors.IsRetryable(err))
}

func TestFromURL_CleanerFailureIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>some study text</p></body></html>"))
	}))
	defer server.Close()

	svc := newTestService(&passthroughCleaner{err: assert.AnError})
	_, err := svc.FromURL(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFromURL_UnreachableHost(t *testing.T) {
	svc := newTestService(&passthroughCleaner{})
	_, err := svc.FromURL(context.Background(), "http://127.0.0.1:1/never")
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}
