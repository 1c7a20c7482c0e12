// Package server wires the extraction and analysis services into the HTTP
// API surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/contentlab/contentlab/internal/models"
	"github.com/contentlab/contentlab/internal/services"
)

// maxUploadBytes bounds multipart parsing memory for file uploads.
const maxUploadBytes = 32 << 20

// DocumentExtractor is the extraction pipeline consumed by the upload
// endpoints.
type DocumentExtractor interface {
	ExtractImage(ctx context.Context, fileName string, data []byte, mimeType, lang string) (*models.ExtractionResult, error)
	ExtractPDF(ctx context.Context, fileName string, data []byte, mimeType, lang string) (*models.ExtractionResult, error)
}

// TextAnalyzer is the analysis pipeline consumed by the analyze endpoint.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text, language string) (*models.AnalysisResult, error)
}

// Server holds the handler dependencies.
type Server struct {
	extractor DocumentExtractor
	analyzer  TextAnalyzer
}

// New creates a Server.
func New(extractor DocumentExtractor, analyzer TextAnalyzer) *Server {
	return &Server{extractor: extractor, analyzer: analyzer}
}

// Router returns the HTTP handler for all API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/ocr/extract-image", s.handleExtractImage)
	mux.HandleFunc("POST /api/v1/ocr/extract-pdf", s.handleExtractPDF)
	mux.HandleFunc("POST /api/v1/ocr-analyzer/analyze-text", s.handleAnalyzeText)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) handleExtractImage(w http.ResponseWriter, r *http.Request) {
	fileName, data, mimeType, lang, ok := readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.extractor.ExtractImage(r.Context(), fileName, data, mimeType, lang)
	if err != nil {
		writeExtractionError(w, "Failed to extract from image", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExtractPDF(w http.ResponseWriter, r *http.Request) {
	fileName, data, mimeType, lang, ok := readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.extractor.ExtractPDF(r.Context(), fileName, data, mimeType, lang)
	if err != nil {
		writeExtractionError(w, "Failed to extract from PDF", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "Bad Request: could not parse JSON"})
		return
	}
	result, err := s.analyzer.Analyze(r.Context(), req.Text, req.Language)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: vErr.Reason})
			return
		}
		slog.Error("Analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to analyze text", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readUpload pulls the multipart file and optional language field out of an
// upload request. On failure it writes the error response itself and
// returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request) (fileName string, data []byte, mimeType string, lang string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "No file provided"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "No file provided"})
		return
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "Failed to read uploaded file"})
		return
	}
	return header.Filename, data, header.Header.Get("Content-Type"), r.FormValue("lang"), true
}

func writeExtractionError(w http.ResponseWriter, message string, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: vErr.Reason})
		return
	}
	slog.Error(message, "error", err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Message: message, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
