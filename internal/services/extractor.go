package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contentlab/contentlab/internal/config"
	"github.com/contentlab/contentlab/internal/models"
	"github.com/contentlab/contentlab/internal/ocr"
	"github.com/contentlab/contentlab/internal/pdf"
)

// Uploader archives a file buffer and returns its external URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// OCRWorker is one request-scoped recognition handle. It is acquired at most
// once per extraction request and must be released on every exit path.
type OCRWorker interface {
	RecognizeBytes(data []byte) (string, error)
	Close() error
}

// OCREngine hands out recognition workers for a language.
type OCREngine interface {
	NewWorker(lang string) (OCRWorker, error)
}

// PageSource is a parsed, page-addressable document. Pages are 1-based.
type PageSource interface {
	PageCount() int
	PageText(pageNumber int) (string, error)
	Rasterize(pageNumber int) ([]byte, error)
	Close() error
}

// ExtractorConfig holds settings for the extraction orchestrator.
type ExtractorConfig struct {
	UploadFolder string
}

// LoadExtractorConfig reads extractor settings from the environment.
func LoadExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		UploadFolder: config.GetEnv("UPLOAD_FOLDER", "contentlab"),
	}
}

// Extractor turns uploaded images and PDFs into ordered page text. Requests
// are stateless with respect to each other; the only per-request resource is
// the OCR worker, which is released on all exits.
type Extractor struct {
	store    Uploader
	engine   OCREngine
	openDoc  func(data []byte) (PageSource, error)
	validate func(data []byte) error
	config   ExtractorConfig
}

// NewExtractor creates an Extractor backed by the MuPDF document opener.
func NewExtractor(store Uploader, engine OCREngine, cfg ExtractorConfig) *Extractor {
	return &Extractor{
		store:  store,
		engine: engine,
		openDoc: func(data []byte) (PageSource, error) {
			return pdf.Open(data)
		},
		validate: pdf.Validate,
		config:   cfg,
	}
}

// ExtractImage archives an image buffer and runs OCR over it, producing a
// single-page result.
func (e *Extractor) ExtractImage(ctx context.Context, fileName string, data []byte, mimeType, lang string) (*models.ExtractionResult, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Reason: "No file provided"}
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, &ValidationError{Reason: "Unsupported file type - only images allowed"}
	}
	lang = normalizeLang(lang)
	logCtx := slog.With("fileName", fileName, "mimeType", mimeType, "lang", lang)
	logCtx.Info("Starting image extraction.")

	fileURL, err := e.store.Upload(ctx, data, e.config.UploadFolder)
	if err != nil {
		logCtx.Error("Failed to archive image", "error", err)
		return nil, &ExtractionError{Stage: "upload", Err: err}
	}

	worker, err := e.engine.NewWorker(lang)
	if err != nil {
		logCtx.Error("Failed to initialize OCR worker", "error", err)
		return nil, &ExtractionError{Stage: "ocr-init", Err: err}
	}
	defer worker.Close()

	text, err := worker.RecognizeBytes(data)
	if err != nil {
		logCtx.Error("OCR recognition failed", "error", err)
		return nil, &ExtractionError{Stage: "ocr", Err: err}
	}

	logCtx.Info("Image extraction complete.", "chars", len(text))
	return &models.ExtractionResult{
		FileName: fileName,
		FileURL:  fileURL,
		Type:     models.FileTypeImage,
		Pages: []models.PageResult{
			{PageNumber: 1, Text: text, Method: models.MethodOCR},
		},
	}, nil
}

// ExtractPDF walks the pages of a PDF in order. Pages with a usable embedded
// text layer are recorded verbatim; pages classified as scanned are
// rasterized and OCRed. The OCR worker is created lazily on the first
// scanned page and shared across the rest of the request. Any page-level
// failure aborts the whole request.
func (e *Extractor) ExtractPDF(ctx context.Context, fileName string, data []byte, mimeType, lang string) (*models.ExtractionResult, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Reason: "No file provided"}
	}
	if mimeType != "application/pdf" {
		return nil, &ValidationError{Reason: "Unsupported file type - only PDFs allowed"}
	}
	lang = normalizeLang(lang)
	logCtx := slog.With("fileName", fileName, "lang", lang)
	logCtx.Info("Starting PDF extraction.")

	if err := e.validate(data); err != nil {
		logCtx.Error("PDF validation failed", "error", err)
		return nil, &ExtractionError{Stage: "validate", Err: err}
	}

	doc, err := e.openDoc(data)
	if err != nil {
		logCtx.Error("Failed to parse PDF", "error", err)
		return nil, &ExtractionError{Stage: "parse", Err: err}
	}
	defer doc.Close()

	var worker OCRWorker
	defer func() {
		if worker != nil {
			worker.Close()
		}
	}()

	pageCount := doc.PageCount()
	pages := make([]models.PageResult, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			logCtx.Error("Failed to read page text", "page", i, "error", err)
			return nil, &ExtractionError{Stage: fmt.Sprintf("page %d text", i), Err: err}
		}
		trimmed := strings.TrimSpace(text)

		if pdf.IsScanned(trimmed) {
			if worker == nil {
				worker, err = e.engine.NewWorker(lang)
				if err != nil {
					logCtx.Error("Failed to initialize OCR worker", "error", err)
					return nil, &ExtractionError{Stage: "ocr-init", Err: err}
				}
			}
			img, err := doc.Rasterize(i)
			if err != nil {
				logCtx.Error("Failed to rasterize page", "page", i, "error", err)
				return nil, &ExtractionError{Stage: fmt.Sprintf("page %d raster", i), Err: err}
			}
			ocrText, err := worker.RecognizeBytes(img)
			if err != nil {
				logCtx.Error("OCR recognition failed", "page", i, "error", err)
				return nil, &ExtractionError{Stage: fmt.Sprintf("page %d ocr", i), Err: err}
			}
			pages = append(pages, models.PageResult{PageNumber: i, Text: ocrText, Method: models.MethodOCR})
		} else {
			pages = append(pages, models.PageResult{PageNumber: i, Text: trimmed, Method: models.MethodPDFText})
		}
	}

	fileURL, err := e.store.Upload(ctx, data, e.config.UploadFolder)
	if err != nil {
		logCtx.Error("Failed to archive PDF", "error", err)
		return nil, &ExtractionError{Stage: "upload", Err: err}
	}

	logCtx.Info("PDF extraction complete.", "pageCount", pageCount)
	return &models.ExtractionResult{
		FileName: fileName,
		FileURL:  fileURL,
		Type:     models.FileTypePDF,
		Pages:    pages,
	}, nil
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "eng"
	}
	return lang
}

// engineAdapter lets the concrete ocr.Engine satisfy OCREngine, whose
// NewWorker returns the interface type.
type engineAdapter struct {
	engine *ocr.Engine
}

// NewOCREngine wraps the Tesseract engine as an OCREngine.
func NewOCREngine(engine *ocr.Engine) OCREngine {
	return &engineAdapter{engine: engine}
}

func (a *engineAdapter) NewWorker(lang string) (OCRWorker, error) {
	return a.engine.NewWorker(lang)
}
