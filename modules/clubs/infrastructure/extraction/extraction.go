package extraction

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
)

var (
	ErrUnsupportedType = errors.New("unsupported roster content type")
	ErrUnreadable      = errors.New("roster document could not be read")
	ErrUpstream        = errors.New("extraction service failed")
)

// Document is a stored roster file awaiting extraction.
type Document struct {
	Path        string
	ContentType string
	// Name is the file name the uploader used, if known.
	Name string
}

// Extractor turns a stored roster document into raw name strings. Blank strings never reach the caller.
// An empty result is not an error.
type Extractor interface {
	Extract(ctx context.Context, doc Document) ([]reconcile.RawName, error)
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(ctx context.Context, doc Document) ([]reconcile.RawName, error)

func (f ExtractorFunc) Extract(ctx context.Context, doc Document) ([]reconcile.RawName, error) {
	return f(ctx, doc)
}

// BaseType strips parameters and case from a content type ("Text/Plain; charset=utf-8" -> "text/plain").
func BaseType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
