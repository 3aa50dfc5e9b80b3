package util

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/fadilmartias/resume-analyzer/internal/logger"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeText = "text/plain"
)

const (
	EngineNative = "native"
	EngineFitz   = "fitz"
)

// Extractor turns a staged upload into plain text.
type Extractor struct {
	engine string
}

// NewExtractor returns an Extractor decoding PDFs with engine. Unknown engines fall back to native.
func NewExtractor(engine string) *Extractor {
	if engine != EngineFitz {
		engine = EngineNative
	}
	return &Extractor{engine: engine}
}

func (e *Extractor) Engine() string {
	return e.engine
}

// ResolveMediaType strips parameters from the declared type and falls back to the file
// extension when the declaration is missing or generic.
func ResolveMediaType(declared, filename string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		mt = ""
	}
	mt = strings.ToLower(mt)
	if mt != "" && mt != "application/octet-stream" {
		return mt
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MediaTypePDF
	case ".txt", ".text":
		return MediaTypeText
	}
	return mt
}

func IsSupportedMediaType(mediaType string) bool {
	return mediaType == MediaTypePDF || mediaType == MediaTypeText
}

// Extract reads the file at path as mediaType. A PDF without a text layer yields an
// empty string and no error.
func (e *Extractor) Extract(mediaType, path string) (string, error) {
	const op = "extract"

	var (
		text string
		err  error
	)
	switch mediaType {
	case MediaTypeText:
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	case MediaTypePDF:
		if e.engine == EngineFitz {
			text, err = extractPDFFitz(path)
		} else {
			text, err = extractPDFNative(path)
		}
	default:
		return "", apperr.UnsupportedMediaType(op, mediaType)
	}
	if err != nil {
		return "", apperr.AnalysisFailed(op, "decode "+mediaType, err)
	}

	text = Sanitize(text)
	logger.Debug().Str("op", op).Str("media_type", mediaType).Str("engine", e.engine).Int("text_len", len(text)).Msg("text extracted")
	return text, nil
}

// Sanitize drops invalid UTF-8 sequences and NUL bytes, neither of which a text column accepts.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}

func extractPDFNative(path string) (result string, err error) {
	// the decoder panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			result, err = "", fmt.Errorf("pdf decoder: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func extractPDFFitz(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n+1, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
