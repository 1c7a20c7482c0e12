// Package ocr wraps the Tesseract OCR engine via gosseract. Tesseract must
// be installed on the host (apt-get install tesseract-ocr, plus the trained
// data for any language beyond English).
package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Engine creates recognition workers. A worker owns a native Tesseract
// handle and must be closed by its caller; the engine itself is stateless
// and safe for concurrent use.
type Engine struct {
	httpClient *http.Client
}

// NewEngine returns an Engine. The HTTP client is used to fetch remote
// image sources for URL-based recognition.
func NewEngine() *Engine {
	return &Engine{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWorker allocates a Tesseract worker configured for the given language
// code (e.g. "eng", "hin"). The worker must be closed when no longer needed
// to release the native handle.
func (e *Engine) NewWorker(lang string) (*Worker, error) {
	if lang == "" {
		lang = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(lang); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", lang, err)
	}
	return &Worker{client: client, httpClient: e.httpClient}, nil
}

// Worker performs text recognition. Recognitions run sequentially on one
// worker; callers needing parallelism allocate multiple workers.
type Worker struct {
	client     *gosseract.Client
	httpClient *http.Client
}

// RecognizeBytes runs OCR over an encoded image buffer (PNG, JPEG, TIFF).
func (w *Worker) RecognizeBytes(data []byte) (string, error) {
	if err := w.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := w.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}

// RecognizeURL fetches an image over HTTP and runs OCR over it.
func (w *Worker) RecognizeURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch image %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}
	return w.RecognizeBytes(data)
}

// Close releases the native Tesseract handle. Safe to call once per worker.
func (w *Worker) Close() error {
	return w.client.Close()
}
