package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/contentlab/contentlab/internal/models"
	"github.com/contentlab/contentlab/internal/services"
)

type stubExtractor struct {
	result   *models.ExtractionResult
	err      error
	gotName  string
	gotMime  string
	gotLang  string
	gotBytes []byte
}

func (s *stubExtractor) ExtractImage(ctx context.Context, fileName string, data []byte, mimeType, lang string) (*models.ExtractionResult, error) {
	s.gotName, s.gotBytes, s.gotMime, s.gotLang = fileName, data, mimeType, lang
	return s.result, s.err
}

func (s *stubExtractor) ExtractPDF(ctx context.Context, fileName string, data []byte, mimeType, lang string) (*models.ExtractionResult, error) {
	s.gotName, s.gotBytes, s.gotMime, s.gotLang = fileName, data, mimeType, lang
	return s.result, s.err
}

type stubAnalyzer struct {
	result *models.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, text, language string) (*models.AnalysisResult, error) {
	return s.result, s.err
}

func multipartUpload(t *testing.T, field, fileName, contentType string, data []byte, lang string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if lang != "" {
		if err := w.WriteField("lang", lang); err != nil {
			t.Fatalf("failed to write lang field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandleExtractImage(t *testing.T) {
	extractor := &stubExtractor{
		result: &models.ExtractionResult{
			FileName: "photo.png",
			FileURL:  "https://store.example/x",
			Type:     models.FileTypeImage,
			Pages:    []models.PageResult{{PageNumber: 1, Text: "hello", Method: models.MethodOCR}},
		},
	}
	srv := New(extractor, &stubAnalyzer{})

	body, contentType := multipartUpload(t, "file", "photo.png", "image/png", []byte("img"), "spa")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if extractor.gotName != "photo.png" || extractor.gotMime != "image/png" || extractor.gotLang != "spa" {
		t.Errorf("extractor got name=%q mime=%q lang=%q", extractor.gotName, extractor.gotMime, extractor.gotLang)
	}
	if string(extractor.gotBytes) != "img" {
		t.Errorf("extractor got bytes %q", extractor.gotBytes)
	}

	var result models.ExtractionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.Type != models.FileTypeImage || len(result.Pages) != 1 {
		t.Errorf("unexpected response: %+v", result)
	}
}

func TestHandleExtractImageMissingFile(t *testing.T) {
	srv := New(&stubExtractor{}, &stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract-image", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}
	if resp.Message != "No file provided" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleExtractPDFStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", &services.ValidationError{Reason: "Unsupported file type - only PDFs allowed"}, http.StatusBadRequest},
		{"extraction error", &services.ExtractionError{Stage: "parse"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubExtractor{err: tt.err}, &stubAnalyzer{})

			body, contentType := multipartUpload(t, "file", "doc.pdf", "application/pdf", []byte("pdf"), "")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract-pdf", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleAnalyzeText(t *testing.T) {
	analyzer := &stubAnalyzer{
		result: &models.AnalysisResult{
			Summary:     "s",
			Sentiment:   models.SentimentPositive,
			Keywords:    []string{"k"},
			Hashtags:    []string{"#K"},
			Suggestions: []string{"do a thing"},
		},
	}
	srv := New(&stubExtractor{}, analyzer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr-analyzer/analyze-text", strings.NewReader(`{"text":"hello world","language":"eng"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if result.Sentiment != models.SentimentPositive {
		t.Errorf("unexpected response: %+v", result)
	}
}

func TestHandleAnalyzeTextErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		analyzeErr error
		wantStatus int
	}{
		{"empty text", `{"text":"  "}`, &services.ValidationError{Reason: "No text provided"}, http.StatusBadRequest},
		{"malformed json", `{"text":`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(&stubExtractor{}, &stubAnalyzer{err: tt.analyzeErr})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr-analyzer/analyze-text", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := New(&stubExtractor{}, &stubAnalyzer{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
