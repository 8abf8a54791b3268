package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iota-uz/clubs/modules/clubs/infrastructure/extraction"
	"github.com/iota-uz/clubs/modules/clubs/presentation/controllers/dtos"
	"github.com/iota-uz/clubs/modules/clubs/presentation/mappers"
	"github.com/iota-uz/clubs/modules/clubs/services"
	"github.com/iota-uz/clubs/pkg/application"
	"github.com/iota-uz/clubs/pkg/composables"
)

const defaultMaxUploadSize = 10 << 20

type ImportAPIOptions struct {
	UploadsPath     string
	MaxUploadSize   int64
	MaxUploadMemory int64
	// AllowedTypes are base MIME types; an empty list accepts everything the extractor routes.
	AllowedTypes []string
}

type ImportAPIController struct {
	app       application.Application
	imports   *services.ImportService
	opts      ImportAPIOptions
	apiPrefix string
}

func NewImportAPIController(app application.Application, opts ImportAPIOptions) application.Controller {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = defaultMaxUploadSize
	}
	if opts.MaxUploadMemory <= 0 {
		opts.MaxUploadMemory = opts.MaxUploadSize
	}
	if opts.UploadsPath == "" {
		opts.UploadsPath = os.TempDir()
	}
	return &ImportAPIController{
		app:       app,
		imports:   app.Service(services.ImportService{}).(*services.ImportService),
		opts:      opts,
		apiPrefix: "/clubs/api/clubs",
	}
}

func (c *ImportAPIController) Key() string {
	return c.apiPrefix + "/{clubID}/imports"
}

func (c *ImportAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.HandleFunc("/{clubID}/imports", c.Import).Methods(http.MethodPost)
}

// Import accepts a multipart roster upload and returns the reconciliation summary.
// The stored artifact is removed before the response is written.
func (c *ImportAPIController) Import(w http.ResponseWriter, r *http.Request) {
	requestID := ensureRequestID(r)

	dto := &dtos.ImportDTO{ClubID: mux.Vars(r)["clubID"]}
	if _, ok := dto.Ok(); !ok {
		writeServiceError(w, r, requestID, services.ErrNoClub)
		return
	}

	if r.ContentLength > c.opts.MaxUploadSize {
		writeServiceError(w, r, requestID, services.ErrFileTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxUploadSize)
	if err := r.ParseMultipartForm(c.opts.MaxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, requestID, services.ErrFileTooLarge)
			return
		}
		writeServiceError(w, r, requestID, services.ErrNoFile)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	dryRun, err := parseDryRun(r.FormValue("dry_run"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, codeInvalidRequest, "dry_run must be a boolean")
		return
	}
	dto.DryRun = dryRun

	file, header, err := r.FormFile("file")
	if err != nil {
		writeServiceError(w, r, requestID, services.ErrNoFile)
		return
	}
	defer file.Close()
	if header.Size > c.opts.MaxUploadSize {
		writeServiceError(w, r, requestID, services.ErrFileTooLarge)
		return
	}

	path, err := c.store(file, header)
	if err != nil {
		writeServiceError(w, r, requestID, fmt.Errorf("store roster upload: %w", err))
		return
	}
	defer c.remove(r, path)

	contentType, err := extraction.DetectFile(path)
	if err != nil {
		writeServiceError(w, r, requestID, fmt.Errorf("sniff roster upload: %w", err))
		return
	}
	contentType = refineContentType(contentType, header.Filename)
	if len(c.opts.AllowedTypes) > 0 && !slices.Contains(c.opts.AllowedTypes, contentType) {
		writeServiceError(w, r, requestID, services.ErrUnsupportedType)
		return
	}

	result, err := c.imports.Import(r.Context(), services.ImportRequest{
		ClubID: dto.ClubUUID(),
		Document: extraction.Document{
			Path:        path,
			ContentType: contentType,
			Name:        header.Filename,
		},
		DryRun: dto.DryRun,
	})
	if err != nil {
		writeServiceError(w, r, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ImportResultToViewModel(result))
}

func (c *ImportAPIController) store(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(c.opts.UploadsPath, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.CreateTemp(c.opts.UploadsPath, "roster-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func (c *ImportAPIController) remove(r *http.Request, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		composables.TryUseLogger(r.Context(), c.app.Logger()).
			WithError(err).
			WithField("path", path).
			Warn("clubs: failed to remove roster upload")
	}
}

// refineContentType trusts a .csv extension over a plain-text sniff, since a single-column CSV
// has no delimiter for the sniffer to find.
func refineContentType(sniffed, filename string) string {
	if sniffed == extraction.ContentTypeText && strings.EqualFold(filepath.Ext(filename), ".csv") {
		return extraction.ContentTypeCSV
	}
	return sniffed
}

func parseDryRun(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
