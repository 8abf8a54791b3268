package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

const maxRemoteResponseBytes = 4 << 20

// RemoteExtractor posts documents to an external extraction service and reads the "names" array
// from its JSON reply. It covers the formats that need OCR or PDF parsing.
type RemoteExtractor struct {
	endpoint string
	client   *retryablehttp.Client
}

func NewRemoteExtractor(endpoint string, timeout time.Duration, retryMax int, logger *logrus.Logger) *RemoteExtractor {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = timeout
	if logger != nil {
		client.Logger = leveledLogger{entry: logger.WithField("component", "extraction")}
	} else {
		client.Logger = nil
	}
	return &RemoteExtractor{endpoint: endpoint, client: client}
}

func (e *RemoteExtractor) Extract(ctx context.Context, doc Document) ([]reconcile.RawName, error) {
	body, contentType, err := multipartBody(doc)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}
	switch {
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return nil, ErrUnsupportedType
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	case !gjson.ValidBytes(data):
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrUpstream)
	}

	names := gjson.GetBytes(data, "names")
	if !names.IsArray() {
		return nil, fmt.Errorf("%w: response has no names array", ErrUpstream)
	}

	out := make([]reconcile.RawName, 0, len(names.Array()))
	for _, v := range names.Array() {
		if name, ok := reconcile.NewRawName(v.String()); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

func multipartBody(doc Document) ([]byte, string, error) {
	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	name := doc.Name
	if name == "" {
		name = filepath.Base(doc.Path)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("content_type", doc.ContentType); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// leveledLogger routes retryablehttp's key/value logging into logrus.
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.with(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.with(kv).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.with(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.with(kv).Warn(msg) }

func (l leveledLogger) with(kv []interface{}) *logrus.Entry {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.entry.WithFields(fields)
}
