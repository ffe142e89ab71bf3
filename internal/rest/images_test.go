package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/picshare/picshare/gallery/application"
	"github.com/picshare/picshare/gallery/persistence"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	uploadsDir := filepath.Join(dir, "uploads")
	indexPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(indexPath, []byte("<html><body>upload form</body></html>"), 0644); err != nil {
		t.Fatalf("Failed to write index page: %v", err)
	}

	metadataStore, err := persistence.NewFileMetadataStore(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatalf("Failed to create metadata store: %v", err)
	}

	service := application.NewGalleryService(persistence.NewDiskBlobStore(uploadsDir), metadataStore)

	router := gin.New()
	NewApi(router, service, indexPath, uploadsDir)

	return router, uploadsDir
}

func uploadRequest(t *testing.T, title, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("imageTitle", title); err != nil {
		t.Fatalf("Failed to write title field: %v", err)
	}

	if filename != "" {
		part, err := writer.CreateFormFile("imageFile", filename)
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("Failed to write file content: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func errorPayload(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Response body is not JSON: %v", err)
	}
	return payload["error"]
}

func TestUploadAndView(t *testing.T) {
	router, _ := newTestRouter(t)

	content := []byte("0123456789")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "Sunset", "beach.jpg", content))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Upload status = %d, want %d: %s", w.Code, http.StatusSeeOther, w.Body.String())
	}

	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "/picture/") {
		t.Fatalf("Location = %q, want /picture/{id}", location)
	}
	id := strings.TrimPrefix(location, "/picture/")

	// The detail page renders the title and references the blob.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, location, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Picture status = %d, want %d", w.Code, http.StatusOK)
	}
	page := w.Body.String()
	if !strings.Contains(page, "Sunset") {
		t.Error("Picture page missing title")
	}
	if !strings.Contains(page, "/uploads/"+id+".jpg") {
		t.Error("Picture page missing img reference")
	}

	// The blob is served byte-identical to the upload.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+id+".jpg", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Blob status = %d, want %d", w.Code, http.StatusOK)
	}
	served, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("Failed to read served blob: %v", err)
	}
	if !bytes.Equal(served, content) {
		t.Errorf("Served blob = %q, want %q", served, content)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		filename      string
		content       []byte
		expectedError string
	}{
		{
			name:          "Empty title",
			title:         "",
			filename:      "beach.jpg",
			content:       []byte("bytes"),
			expectedError: "Empty title string",
		},
		{
			name:          "Missing file",
			title:         "Sunset",
			filename:      "",
			expectedError: "No file uploaded",
		},
		{
			name:          "Unsupported format",
			title:         "Sunset",
			filename:      "doc.pdf",
			content:       []byte("%PDF"),
			expectedError: "Invalid uploaded format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, uploadsDir := newTestRouter(t)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, tt.title, tt.filename, tt.content))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if got := errorPayload(t, w); got != tt.expectedError {
				t.Errorf("error = %q, want %q", got, tt.expectedError)
			}

			// No state was created.
			if entries, err := os.ReadDir(uploadsDir); err == nil && len(entries) != 0 {
				t.Errorf("Uploads dir has %d entries, want 0", len(entries))
			}

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pictures", nil))
			if body := strings.TrimSpace(w.Body.String()); body != "[]" {
				t.Errorf("Pictures list = %s, want []", body)
			}
		})
	}
}

func TestGetPicture_Unknown(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/picture/does-not-exist", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestUploadForm(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "upload form") {
		t.Error("Index page not served")
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestListPictures_Order(t *testing.T) {
	router, _ := newTestRouter(t)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, fmt.Sprintf("Image %d", i), "a.png", []byte("x")))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("Upload %d status = %d, want %d", i, w.Code, http.StatusSeeOther)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pictures", nil))

	var images []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Path  string `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &images); err != nil {
		t.Fatalf("Failed to parse list: %v", err)
	}

	if len(images) != 3 {
		t.Fatalf("len(images) = %d, want 3", len(images))
	}
	for i, img := range images {
		want := fmt.Sprintf("Image %d", i)
		if img.Title != want {
			t.Errorf("images[%d].Title = %q, want %q", i, img.Title, want)
		}
	}
}

func TestUpload_Concurrent(t *testing.T) {
	router, _ := newTestRouter(t)

	const uploads = 4

	var wg sync.WaitGroup
	locations := make(chan string, uploads)

	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, fmt.Sprintf("Image %d", n), "a.jpg", []byte("jpg")))
			if w.Code != http.StatusSeeOther {
				t.Errorf("Concurrent upload status = %d, want %d", w.Code, http.StatusSeeOther)
				return
			}
			locations <- w.Header().Get("Location")
		}(i)
	}

	wg.Wait()
	close(locations)

	seen := make(map[string]bool, uploads)
	for loc := range locations {
		if seen[loc] {
			t.Errorf("Duplicate redirect target %q", loc)
		}
		seen[loc] = true
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pictures", nil))

	var images []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &images); err != nil {
		t.Fatalf("Failed to parse list: %v", err)
	}
	if len(images) != uploads {
		t.Errorf("len(images) = %d, want %d (lost update)", len(images), uploads)
	}
}
