package extraction

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

// Router dispatches a document to the extractor registered for its content type.
// Documents without a declared type are sniffed.
type Router struct {
	routes   map[string]Extractor
	fallback Extractor
}

func NewRouter() *Router {
	return &Router{routes: map[string]Extractor{}}
}

// NewDefaultRouter handles spreadsheets, CSV and plain text locally. When remote is non-nil it also
// receives PDFs, images and any other type nothing else claims.
func NewDefaultRouter(remote Extractor) *Router {
	r := NewRouter().
		Handle(ContentTypeXLSX, NewSpreadsheetExtractor()).
		Handle(ContentTypeCSV, NewCSVExtractor()).
		Handle(ContentTypeText, NewTextExtractor())
	if remote != nil {
		r.Handle(ContentTypePDF, remote).
			Handle(ContentTypePNG, remote).
			Handle(ContentTypeJPEG, remote).
			Fallback(remote)
	}
	return r
}

func (r *Router) Handle(contentType string, e Extractor) *Router {
	r.routes[BaseType(contentType)] = e
	return r
}

func (r *Router) Fallback(e Extractor) *Router {
	r.fallback = e
	return r
}

func (r *Router) Extract(ctx context.Context, doc Document) ([]reconcile.RawName, error) {
	contentType := BaseType(doc.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		detected, err := DetectFile(doc.Path)
		if err != nil {
			return nil, err
		}
		contentType = detected
		doc.ContentType = detected
	}

	if e, ok := r.routes[contentType]; ok {
		return e.Extract(ctx, doc)
	}
	if r.fallback != nil {
		return r.fallback.Extract(ctx, doc)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
}

// DetectFile sniffs the content type of the file at path.
func DetectFile(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return BaseType(mt.String()), nil
}

// Detect sniffs the content type of an in-memory header.
func Detect(head []byte) string {
	return BaseType(mimetype.Detect(head).String())
}
