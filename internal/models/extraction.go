package models

// ExtractionMethod records how the text of a page was obtained.
type ExtractionMethod string

const (
	// MethodPDFText means the page's embedded text layer was used directly.
	MethodPDFText ExtractionMethod = "pdf-text"
	// MethodOCR means the page was rasterized and run through OCR.
	MethodOCR ExtractionMethod = "ocr"
)

// FileType identifies the category of an uploaded file.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
)

// PageResult holds the extracted text for a single page. PageNumber is
// 1-based and matches document order; images always produce page 1.
type PageResult struct {
	PageNumber int              `json:"pageNum"`
	Text       string           `json:"text"`
	Method     ExtractionMethod `json:"method"`
}

// ExtractionResult is the response payload for both extraction endpoints.
// Pages is non-empty for any successfully processed document and holds
// exactly one entry for images.
type ExtractionResult struct {
	FileName string       `json:"fileName"`
	FileURL  string       `json:"fileUrl"`
	Type     FileType     `json:"type"`
	Pages    []PageResult `json:"pages"`
}
